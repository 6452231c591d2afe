// Package repo provides the session and preference storage backends: an
// in-memory pair for development and tests, Redis for shared session state,
// and SQLite for durable preferences.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

// RedisSessionRepository keeps each session as an append-only message list
// plus a context hash value, both under the user's key prefix. A TTL greater
// than zero is re-applied on every write, so active sessions never expire
// mid-conversation.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) messagesKey(userID string) string {
	return fmt.Sprintf("session:%s:messages", userID)
}

func (r *RedisSessionRepository) contextKey(userID string) string {
	return fmt.Sprintf("session:%s:context", userID)
}

func (r *RedisSessionRepository) AppendMessage(ctx context.Context, userID string, msg model.ChatMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.messagesKey(userID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message to redis")
		return errx.WrapRedis(err)
	}
	return r.touch(ctx, key)
}

func (r *RedisSessionRepository) UpdateContext(ctx context.Context, userID string, sc model.SessionContext) error {
	b, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal session context: %w", err)
	}
	key := r.contextKey(userID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store session context")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) LoadSession(ctx context.Context, userID string) (*model.ChatSession, error) {
	session := &model.ChatSession{UserID: userID, Messages: []model.ChatMessage{}}

	rows, err := r.rdb.LRange(ctx, r.messagesKey(userID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to load session messages from redis")
		return nil, errx.WrapRedis(err)
	}
	for i, s := range rows {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("userID", userID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		session.Messages = append(session.Messages, m)
	}

	raw, err := r.rdb.Get(ctx, r.contextKey(userID)).Result()
	switch {
	case err == redis.Nil:
		// fresh session
	case err != nil:
		logx.Error().Err(err).Str("userID", userID).Msg("failed to load session context from redis")
		return nil, errx.WrapRedis(err)
	default:
		if err := json.Unmarshal([]byte(raw), &session.Context); err != nil {
			return nil, fmt.Errorf("unmarshal session context: %w", err)
		}
	}
	return session, nil
}

func (r *RedisSessionRepository) MessageCount(ctx context.Context, userID string) (int, error) {
	n, err := r.rdb.LLen(ctx, r.messagesKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("userID", userID).Msg("failed to get message count from redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, r.messagesKey(userID), r.contextKey(userID)).Err(); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// touch re-extends the TTL on the message list.
func (r *RedisSessionRepository) touch(ctx context.Context, key string) error {
	if r.ttl <= 0 {
		return nil
	}
	if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
		return errx.WrapRedis(err)
	} else if !ok {
		logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on session key")
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
