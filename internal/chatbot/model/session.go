package model

import (
	"context"
	"time"
)

// Attachment is opaque metadata carried on a message (image references and the
// like); the core never interprets it.
type Attachment map[string]string

// ChatMessage is one turn half inside a session. The message log is strictly
// append-only and ordered by turn.
type ChatMessage struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	IsUser      bool         `json:"is_user"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// SessionContext is the per-session mutable context map: the outcome of the
// most recent NLP analysis, overwritten every turn.
type SessionContext struct {
	LastIntent   string            `json:"last_intent,omitempty"`
	LastEntities map[string]string `json:"last_entities,omitempty"`
	LastContext  []string          `json:"last_context,omitempty"`
}

// ChatSession is one user's conversation state.
type ChatSession struct {
	UserID   string         `json:"user_id"`
	Messages []ChatMessage  `json:"messages"`
	Context  SessionContext `json:"context"`
}

// SessionRepository persists per-user conversation state.
type SessionRepository interface {
	// AppendMessage appends one message to the user's session, creating the
	// session on first use.
	AppendMessage(ctx context.Context, userID string, msg ChatMessage) error

	// UpdateContext overwrites the session's context map.
	UpdateContext(ctx context.Context, userID string, sc SessionContext) error

	// LoadSession returns the full session. A user with no history gets an
	// empty session, not an error.
	LoadSession(ctx context.Context, userID string) (*ChatSession, error)

	// MessageCount returns the number of stored messages for the user.
	MessageCount(ctx context.Context, userID string) (int, error)

	// ClearSession removes all state for the user.
	ClearSession(ctx context.Context, userID string) error
}

// PreferenceRepository stores per-user preference maps.
type PreferenceRepository interface {
	// Get returns the user's preferences; an unknown user gets an empty map.
	Get(ctx context.Context, userID string) (map[string]any, error)

	// Merge shallow-merges partial into the stored preferences, creating the
	// entry if absent.
	Merge(ctx context.Context, userID string, partial map[string]any) error
}
