package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

func testPreferenceRepository(t *testing.T, r model.PreferenceRepository) {
	t.Helper()
	ctx := context.Background()

	prefs, err := r.Get(ctx, "unknown")
	if err != nil {
		t.Fatalf("Get unknown user: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("expected empty map for unknown user, got %+v", prefs)
	}

	if err := r.Merge(ctx, "bunda-1", map[string]any{"trimester": "pertama", "allergies": []any{"telur"}}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if err := r.Merge(ctx, "bunda-1", map[string]any{"trimester": "kedua"}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	prefs, err = r.Get(ctx, "bunda-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if prefs["trimester"] != "kedua" {
		t.Errorf("expected shallow merge to overwrite trimester, got %+v", prefs)
	}
	allergies, ok := prefs["allergies"].([]any)
	if !ok || len(allergies) != 1 || allergies[0] != "telur" {
		t.Errorf("expected allergies preserved, got %+v", prefs["allergies"])
	}
}

func TestMemoryPreferenceRepository(t *testing.T) {
	testPreferenceRepository(t, NewMemoryPreferenceRepository())
}

func TestSQLitePreferenceRepository(t *testing.T) {
	r, err := NewSQLitePreferenceRepository(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("NewSQLitePreferenceRepository: %v", err)
	}
	defer r.Close()

	testPreferenceRepository(t, r)
}

func TestSQLitePreferenceRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	r, err := NewSQLitePreferenceRepository(path)
	if err != nil {
		t.Fatalf("NewSQLitePreferenceRepository: %v", err)
	}
	if err := r.Merge(ctx, "bunda-1", map[string]any{"trimester": "ketiga"}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	r.Close()

	r2, err := NewSQLitePreferenceRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()

	prefs, err := r2.Get(ctx, "bunda-1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if prefs["trimester"] != "ketiga" {
		t.Errorf("expected persisted preferences, got %+v", prefs)
	}
}
