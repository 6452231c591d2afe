package nlp

import (
	"testing"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func TestProcess_TrimesterNutritionQuestion(t *testing.T) {
	e := NewEngine()

	res := e.Process("Apa makanan yang baik untuk trimester pertama?")

	if res.Intent != model.IntentPregnancyNutrition {
		t.Errorf("expected intent %s, got %s", model.IntentPregnancyNutrition, res.Intent)
	}
	if got := res.Entities[model.EntityTrimester]; got != "pertama" {
		t.Errorf("expected trimester entity pertama, got %q", got)
	}
	if !containsTag(res.Context, model.ContextFoodRecommendation) {
		t.Errorf("expected context tag %s, got %v", model.ContextFoodRecommendation, res.Context)
	}
	if !containsTag(res.Context, "trimester_pertama") {
		t.Errorf("expected context tag trimester_pertama, got %v", res.Context)
	}
}

func TestProcess_FoodDetailQuestion(t *testing.T) {
	e := NewEngine()

	res := e.Process("Apa kandungan gizi telur?")

	if res.Intent != model.IntentFoodDetail {
		t.Errorf("expected intent %s, got %s", model.IntentFoodDetail, res.Intent)
	}
	if got := res.Entities[model.EntityFoodItem]; got != "telur" {
		t.Errorf("expected food_item entity telur, got %q", got)
	}
	if !containsTag(res.Context, model.ContextFoodDetail) {
		t.Errorf("expected context tag %s, got %v", model.ContextFoodDetail, res.Context)
	}
}

func TestProcess_GreetingAndUnknown(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name       string
		message    string
		intent     string
		confidence float64
	}{
		{"greeting", "Halo, selamat pagi", model.IntentGreeting, 0.7},
		{"stunting", "Bagaimana cara mencegah stunting?", model.IntentStuntingPrevention, 0.7},
		{"unknown", "Berapa harga tiket kereta?", model.IntentGeneralQuery, 0.5},
		{"empty", "", model.IntentGeneralQuery, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Process(tt.message)
			if res.Intent != tt.intent {
				t.Errorf("expected intent %s, got %s", tt.intent, res.Intent)
			}
			if res.Confidence != tt.confidence {
				t.Errorf("expected confidence %v, got %v", tt.confidence, res.Confidence)
			}
		})
	}
}

func TestProcess_IntentTieBreaksToFirstDeclared(t *testing.T) {
	e := NewEngine()

	// "nutrisi" scores one hit for both nutrisi_kehamilan and detail_nutrisi;
	// the first declared intent must win.
	res := e.Process("nutrisi")
	if res.Intent != model.IntentPregnancyNutrition {
		t.Errorf("expected tie to resolve to %s, got %s", model.IntentPregnancyNutrition, res.Intent)
	}
}

func TestProcess_EntitySlotLastWriteWins(t *testing.T) {
	e := NewEngine()

	// Both telur and bayam match; bayam sits later in the table, so it must
	// overwrite the food_item slot.
	res := e.Process("Apa kandungan gizi telur dan bayam?")
	if got := res.Entities[model.EntityFoodItem]; got != "bayam" {
		t.Errorf("expected last matching food bayam to win, got %q", got)
	}

	// A later trimester mention overwrites an earlier one within one message.
	res = e.Process("makanan trimester pertama atau trimester kedua")
	if got := res.Entities[model.EntityTrimester]; got != "kedua" {
		t.Errorf("expected last matching trimester kedua to win, got %q", got)
	}
}

func TestProcess_PunctuationDoesNotSplitPhrases(t *testing.T) {
	e := NewEngine()

	// Punctuation is replaced by whitespace before matching, so a phrase like
	// "trimester 1" still matches through stray characters around it.
	res := e.Process("makanan untuk trimester 1!!!")
	if got := res.Entities[model.EntityTrimester]; got != "pertama" {
		t.Errorf("expected trimester pertama, got %q", got)
	}
}
