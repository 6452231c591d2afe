package repo

import (
	"context"
	"sync"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

// MemoryPreferenceRepository holds preference maps in process memory.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]map[string]any
}

func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{prefs: make(map[string]map[string]any)}
}

func (r *MemoryPreferenceRepository) Get(_ context.Context, userID string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.prefs[userID]
	if !ok {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

func (r *MemoryPreferenceRepository) Merge(_ context.Context, userID string, partial map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.prefs[userID]
	if !ok {
		stored = make(map[string]any)
		r.prefs[userID] = stored
	}
	for k, v := range partial {
		stored[k] = v
	}
	return nil
}

var _ model.PreferenceRepository = (*MemoryPreferenceRepository)(nil)
