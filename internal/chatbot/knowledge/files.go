package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

// Topic file names inside the data directory. One JSON document per topic.
const (
	fileTrimesterNutrition = "trimester_nutrition.json"
	fileFoodRecommendation = "food_recommendations.json"
	fileFoodDetails        = "food_nutrition_details.json"
	fileStuntingPrevention = "stunting_prevention.json"
)

// Document wrappers matching the on-disk shape: each file is an object with a
// single topic key, so documents stay self-describing.
type trimesterDoc struct {
	TrimesterNutrition []model.TrimesterNutrition `json:"trimester_nutrition"`
}

type recommendationDoc struct {
	FoodRecommendations []model.FoodCategory `json:"food_recommendations"`
}

type foodDetailDoc struct {
	FoodNutritionDetails []model.FoodNutrition `json:"food_nutrition_details"`
}

type stuntingDoc struct {
	StuntingPrevention []model.StuntingFactor `json:"stunting_prevention"`
}

func readDoc(dir, name string, out any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func writeDoc(dir, name string, doc any) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// writeDefaults persists the built-in dataset. Rewriting an existing file with
// the same content keeps bootstrap idempotent.
func writeDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	docs := []struct {
		name string
		doc  any
	}{
		{fileTrimesterNutrition, trimesterDoc{TrimesterNutrition: defaultTrimesterNutrition()}},
		{fileFoodRecommendation, recommendationDoc{FoodRecommendations: defaultFoodRecommendations()}},
		{fileFoodDetails, foodDetailDoc{FoodNutritionDetails: defaultFoodNutritionDetails()}},
		{fileStuntingPrevention, stuntingDoc{StuntingPrevention: defaultStuntingPrevention()}},
	}
	for _, d := range docs {
		if err := writeDoc(dir, d.name, d.doc); err != nil {
			return err
		}
	}
	return nil
}

func validateTrimesters(entries []model.TrimesterNutrition) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("%s entry %d: %w", fileTrimesterNutrition, i, err)
		}
	}
	return nil
}

func validateRecommendations(entries []model.FoodCategory) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("%s entry %d: %w", fileFoodRecommendation, i, err)
		}
	}
	return nil
}

func validateFoods(entries []model.FoodNutrition) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("%s entry %d: %w", fileFoodDetails, i, err)
		}
	}
	return nil
}

func validateFactors(entries []model.StuntingFactor) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("%s entry %d: %w", fileStuntingPrevention, i, err)
		}
	}
	return nil
}
