package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

// SQLitePreferenceRepository persists one JSON preference document per user,
// so preferences survive restarts without a server-side database.
type SQLitePreferenceRepository struct {
	db *sql.DB
}

func NewSQLitePreferenceRepository(path string) (*SQLitePreferenceRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS user_preferences (
		user_id TEXT PRIMARY KEY,
		prefs   TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &SQLitePreferenceRepository{db: db}, nil
}

func (r *SQLitePreferenceRepository) Get(ctx context.Context, userID string) (map[string]any, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT prefs FROM user_preferences WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	prefs := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, fmt.Errorf("parse preferences for %s: %w", userID, err)
	}
	return prefs, nil
}

// Merge runs the read-modify-write inside a transaction so concurrent merges
// for the same user do not lose keys.
func (r *SQLitePreferenceRepository) Merge(ctx context.Context, userID string, partial map[string]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	prefs := map[string]any{}
	var raw string
	err = tx.QueryRowContext(ctx,
		"SELECT prefs FROM user_preferences WHERE user_id = ?", userID).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("load preferences: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			return fmt.Errorf("parse preferences for %s: %w", userID, err)
		}
	}

	for k, v := range partial {
		prefs[k] = v
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, prefs) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET prefs = excluded.prefs`,
		userID, string(b))
	if err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (r *SQLitePreferenceRepository) Close() error {
	return r.db.Close()
}

var _ model.PreferenceRepository = (*SQLitePreferenceRepository)(nil)
