// Package sessions wraps a SessionRepository with message construction and
// per-user serialization, so two concurrent turns for the same user cannot
// interleave their session writes.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

type Manager struct {
	repo  model.SessionRepository
	locks sync.Map // userID -> *sync.Mutex
}

func NewManager(repo model.SessionRepository) *Manager {
	return &Manager{repo: repo}
}

// Lock serializes turn processing for one user and returns the unlock func.
func (m *Manager) Lock(userID string) func() {
	mu, _ := m.locks.LoadOrStore(userID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

// AppendUser records an incoming user message and returns it with its
// assigned ID and timestamp.
func (m *Manager) AppendUser(ctx context.Context, userID, content string, attachments []model.Attachment) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		ID:          uuid.NewString(),
		Content:     content,
		IsUser:      true,
		Timestamp:   time.Now(),
		Attachments: attachments,
	}
	return msg, m.repo.AppendMessage(ctx, userID, msg)
}

// AppendBot records the reply half of a turn.
func (m *Manager) AppendBot(ctx context.Context, userID, content string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		IsUser:    false,
		Timestamp: time.Now(),
	}
	return msg, m.repo.AppendMessage(ctx, userID, msg)
}

// UpdateContext overwrites the session context with the latest NLP outcome.
func (m *Manager) UpdateContext(ctx context.Context, userID string, nlp model.NLPResult) error {
	return m.repo.UpdateContext(ctx, userID, model.SessionContext{
		LastIntent:   nlp.Intent,
		LastEntities: nlp.Entities,
		LastContext:  nlp.Context,
	})
}

// History returns the user's full session.
func (m *Manager) History(ctx context.Context, userID string) (*model.ChatSession, error) {
	return m.repo.LoadSession(ctx, userID)
}

// MessageCount returns the stored message count for the user.
func (m *Manager) MessageCount(ctx context.Context, userID string) (int, error) {
	return m.repo.MessageCount(ctx, userID)
}

// Clear wipes the user's session.
func (m *Manager) Clear(ctx context.Context, userID string) error {
	return m.repo.ClearSession(ctx, userID)
}
