package repo

import (
	"context"
	"sync"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

// MemorySessionRepository keeps sessions in process memory. It is the default
// backend and the one tests run against. maxMessages, when positive, bounds
// the per-user log by dropping the oldest messages.
type MemorySessionRepository struct {
	mu          sync.RWMutex
	sessions    map[string]*model.ChatSession
	maxMessages int
}

func NewMemorySessionRepository(maxMessages int) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:    make(map[string]*model.ChatSession),
		maxMessages: maxMessages,
	}
}

func (r *MemorySessionRepository) session(userID string) *model.ChatSession {
	s, ok := r.sessions[userID]
	if !ok {
		s = &model.ChatSession{UserID: userID}
		r.sessions[userID] = s
	}
	return s
}

func (r *MemorySessionRepository) AppendMessage(_ context.Context, userID string, msg model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session(userID)
	s.Messages = append(s.Messages, msg)
	if r.maxMessages > 0 && len(s.Messages) > r.maxMessages {
		s.Messages = s.Messages[len(s.Messages)-r.maxMessages:]
	}
	return nil
}

func (r *MemorySessionRepository) UpdateContext(_ context.Context, userID string, sc model.SessionContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session(userID).Context = sc
	return nil
}

func (r *MemorySessionRepository) LoadSession(_ context.Context, userID string) (*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	if !ok {
		return &model.ChatSession{UserID: userID, Messages: []model.ChatMessage{}}, nil
	}
	out := &model.ChatSession{
		UserID:   s.UserID,
		Messages: make([]model.ChatMessage, len(s.Messages)),
		Context:  s.Context,
	}
	copy(out.Messages, s.Messages)
	return out, nil
}

func (r *MemorySessionRepository) MessageCount(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	if !ok {
		return 0, nil
	}
	return len(s.Messages), nil
}

func (r *MemorySessionRepository) ClearSession(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
