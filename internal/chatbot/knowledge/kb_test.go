package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

type stubPrefs struct {
	data map[string]map[string]any
}

func newStubPrefs() *stubPrefs {
	return &stubPrefs{data: make(map[string]map[string]any)}
}

func (s *stubPrefs) Get(_ context.Context, userID string) (map[string]any, error) {
	prefs, ok := s.data[userID]
	if !ok {
		return map[string]any{}, nil
	}
	return prefs, nil
}

func (s *stubPrefs) Merge(_ context.Context, userID string, partial map[string]any) error {
	prefs, ok := s.data[userID]
	if !ok {
		prefs = make(map[string]any)
		s.data[userID] = prefs
	}
	for k, v := range partial {
		prefs[k] = v
	}
	return nil
}

func newTestKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb, err := New(model.KnowledgeConfig{DataDir: t.TempDir()}, newStubPrefs())
	if err != nil {
		t.Fatalf("failed to build knowledge base: %v", err)
	}
	return kb
}

func TestNew_BootstrapsDefaultDataset(t *testing.T) {
	dir := t.TempDir()
	kb, err := New(model.KnowledgeConfig{DataDir: dir}, newStubPrefs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{
		fileTrimesterNutrition,
		fileFoodRecommendation,
		fileFoodDetails,
		fileStuntingPrevention,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected bootstrap to write %s: %v", name, err)
		}
	}

	if got := len(kb.GetStuntingPrevention()); got != 6 {
		t.Errorf("expected 6 stunting factors, got %d", got)
	}
	if got := len(kb.GetFoodRecommendations("")); got != 2 {
		t.Errorf("expected 2 recommendation categories, got %d", got)
	}
	if kb.GetTrimesterNutrition("trimester_pertama") == nil {
		t.Error("expected trimester_pertama entry after bootstrap")
	}
}

func TestNew_BootstrapIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(model.KnowledgeConfig{DataDir: dir}, newStubPrefs()); err != nil {
		t.Fatalf("first New: %v", err)
	}

	// Edit a topic file; the second construction must not overwrite it.
	var doc foodDetailDoc
	if err := readDoc(dir, fileFoodDetails, &doc); err != nil {
		t.Fatalf("readDoc: %v", err)
	}
	doc.FoodNutritionDetails[0].Name = "tempe"
	if err := writeDoc(dir, fileFoodDetails, doc); err != nil {
		t.Fatalf("writeDoc: %v", err)
	}

	kb, err := New(model.KnowledgeConfig{DataDir: dir}, newStubPrefs())
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	if kb.GetFoodNutrition("tempe") == nil {
		t.Error("second New overwrote an edited topic file")
	}
}

func TestGetFoodNutrition_CaseInsensitive(t *testing.T) {
	kb := newTestKB(t)

	if kb.GetFoodNutrition("TELUR") == nil {
		t.Error("expected case-insensitive lookup to find telur")
	}
	if kb.GetFoodNutrition("rendang") != nil {
		t.Error("expected nil for unknown food")
	}
}

func TestGetTrimesterNutrition_Unknown(t *testing.T) {
	kb := newTestKB(t)
	if kb.GetTrimesterNutrition("trimester_keempat") != nil {
		t.Error("expected nil for unknown trimester")
	}
}

func TestGetRelevantData_Routing(t *testing.T) {
	kb := newTestKB(t)

	tests := []struct {
		name     string
		intent   string
		entities map[string]string
		context  []string
		check    func(t *testing.T, data model.RelevantData)
	}{
		{
			name:     "pregnancy nutrition with trimester",
			intent:   model.IntentPregnancyNutrition,
			entities: map[string]string{model.EntityTrimester: "pertama"},
			check: func(t *testing.T, data model.RelevantData) {
				if data.TrimesterNutrition == nil {
					t.Fatal("expected trimester nutrition")
				}
				if data.TrimesterNutrition.Trimester != "trimester_pertama" {
					t.Errorf("got trimester %q", data.TrimesterNutrition.Trimester)
				}
				if data.FoodRecommendations != nil {
					t.Error("recommendations need the rekomendasi_makanan context")
				}
			},
		},
		{
			name:     "pregnancy nutrition with recommendation context",
			intent:   model.IntentPregnancyNutrition,
			entities: map[string]string{model.EntityTrimester: "kedua"},
			context:  []string{model.ContextFoodRecommendation},
			check: func(t *testing.T, data model.RelevantData) {
				if len(data.FoodRecommendations) != 2 {
					t.Errorf("expected 2 recommendation categories, got %d", len(data.FoodRecommendations))
				}
			},
		},
		{
			name:     "food detail",
			intent:   model.IntentFoodDetail,
			entities: map[string]string{model.EntityFoodItem: "bayam"},
			check: func(t *testing.T, data model.RelevantData) {
				if data.FoodNutrition == nil || data.FoodNutrition.Name != "bayam" {
					t.Errorf("expected bayam detail, got %+v", data.FoodNutrition)
				}
			},
		},
		{
			name:   "stunting prevention",
			intent: model.IntentStuntingPrevention,
			check: func(t *testing.T, data model.RelevantData) {
				if len(data.StuntingPrevention) != 6 {
					t.Errorf("expected 6 factors, got %d", len(data.StuntingPrevention))
				}
			},
		},
		{
			name:   "greeting gets nothing",
			intent: model.IntentGreeting,
			check: func(t *testing.T, data model.RelevantData) {
				if !data.IsEmpty() {
					t.Errorf("expected empty data, got %+v", data)
				}
			},
		},
		{
			name:     "missing food entity is not an error",
			intent:   model.IntentFoodDetail,
			entities: map[string]string{},
			check: func(t *testing.T, data model.RelevantData) {
				if !data.IsEmpty() {
					t.Errorf("expected empty data, got %+v", data)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, kb.GetRelevantData(tt.intent, tt.entities, tt.context))
		})
	}
}

func TestReseed_RestoresDefaults(t *testing.T) {
	dir := t.TempDir()
	kb, err := New(model.KnowledgeConfig{DataDir: dir}, newStubPrefs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	empty, _ := json.Marshal(stuntingDoc{StuntingPrevention: []model.StuntingFactor{}})
	if err := os.WriteFile(filepath.Join(dir, fileStuntingPrevention), empty, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := kb.reloadTopic(fileStuntingPrevention); err != nil {
		t.Fatalf("reloadTopic: %v", err)
	}
	if got := len(kb.GetStuntingPrevention()); got != 0 {
		t.Fatalf("setup: expected 0 factors, got %d", got)
	}

	if err := kb.Reseed(); err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	if got := len(kb.GetStuntingPrevention()); got != 6 {
		t.Errorf("expected defaults back after reseed, got %d factors", got)
	}
}

func TestPreferences_Delegation(t *testing.T) {
	kb := newTestKB(t)
	ctx := context.Background()

	if err := kb.UpdateUserPreferences(ctx, "user-1", map[string]any{"allergies": []any{"telur"}}); err != nil {
		t.Fatalf("UpdateUserPreferences: %v", err)
	}
	if err := kb.UpdateUserPreferences(ctx, "user-1", map[string]any{"trimester": "kedua"}); err != nil {
		t.Fatalf("UpdateUserPreferences: %v", err)
	}

	prefs, err := kb.GetUserPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserPreferences: %v", err)
	}
	if prefs["trimester"] != "kedua" {
		t.Errorf("expected merged trimester, got %+v", prefs)
	}
	if _, ok := prefs["allergies"]; !ok {
		t.Errorf("merge dropped earlier key: %+v", prefs)
	}
}

func TestWatcher_ReloadsChangedTopic(t *testing.T) {
	dir := t.TempDir()
	kb, err := New(model.KnowledgeConfig{DataDir: dir}, newStubPrefs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w, err := NewWatcher(kb)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go w.Run(ctx)

	var doc foodDetailDoc
	if err := readDoc(dir, fileFoodDetails, &doc); err != nil {
		t.Fatalf("readDoc: %v", err)
	}
	doc.FoodNutritionDetails[0].Name = "tahu"
	if err := writeDoc(dir, fileFoodDetails, doc); err != nil {
		t.Fatalf("writeDoc: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if kb.GetFoodNutrition("tahu") != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the changed topic file")
}
