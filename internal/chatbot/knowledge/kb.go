// Package knowledge owns the structured domain facts (trimester nutrition,
// food details, food recommendations, stunting-prevention factors) and the
// per-user preference store. Reference data is loaded once at construction
// from JSON topic files; when the files are absent a built-in default dataset
// is written first, so a fresh deployment answers immediately.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

// KnowledgeBase serves lookup queries keyed by intent and entities, and
// proxies the preference repository. Safe for concurrent use; reference data
// is guarded by an RWMutex so the fsnotify reloader can swap topics in place.
type KnowledgeBase struct {
	mu              sync.RWMutex
	dataDir         string
	trimesters      []model.TrimesterNutrition
	recommendations []model.FoodCategory
	foods           []model.FoodNutrition
	stunting        []model.StuntingFactor

	prefs model.PreferenceRepository
}

// New loads the knowledge base from cfg.DataDir, bootstrapping the default
// dataset when the trimester file is missing. Bootstrap is idempotent:
// re-running against an already seeded directory changes nothing.
func New(cfg model.KnowledgeConfig, prefs model.PreferenceRepository) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		dataDir: cfg.DataDir,
		prefs:   prefs,
	}

	if _, err := os.Stat(cfg.DataDir + "/" + fileTrimesterNutrition); os.IsNotExist(err) {
		logx.Info().Str("data_dir", cfg.DataDir).Msg("knowledge data missing, writing default dataset")
		if err := writeDefaults(cfg.DataDir); err != nil {
			return nil, err
		}
	}

	if err := kb.loadAll(); err != nil {
		return nil, err
	}
	return kb, nil
}

// Reseed rewrites the built-in default dataset over the data directory and
// reloads it.
func (kb *KnowledgeBase) Reseed() error {
	if err := writeDefaults(kb.dataDir); err != nil {
		return err
	}
	return kb.loadAll()
}

func (kb *KnowledgeBase) loadAll() error {
	for _, name := range []string{
		fileTrimesterNutrition,
		fileFoodRecommendation,
		fileFoodDetails,
		fileStuntingPrevention,
	} {
		if err := kb.reloadTopic(name); err != nil {
			return err
		}
	}
	return nil
}

// reloadTopic reads, validates and swaps in one topic file. A validation
// failure leaves the previously loaded topic untouched.
func (kb *KnowledgeBase) reloadTopic(name string) error {
	switch name {
	case fileTrimesterNutrition:
		var doc trimesterDoc
		if err := readDoc(kb.dataDir, name, &doc); err != nil {
			return err
		}
		if err := validateTrimesters(doc.TrimesterNutrition); err != nil {
			return err
		}
		kb.mu.Lock()
		kb.trimesters = doc.TrimesterNutrition
		kb.mu.Unlock()
	case fileFoodRecommendation:
		var doc recommendationDoc
		if err := readDoc(kb.dataDir, name, &doc); err != nil {
			return err
		}
		if err := validateRecommendations(doc.FoodRecommendations); err != nil {
			return err
		}
		kb.mu.Lock()
		kb.recommendations = doc.FoodRecommendations
		kb.mu.Unlock()
	case fileFoodDetails:
		var doc foodDetailDoc
		if err := readDoc(kb.dataDir, name, &doc); err != nil {
			return err
		}
		if err := validateFoods(doc.FoodNutritionDetails); err != nil {
			return err
		}
		kb.mu.Lock()
		kb.foods = doc.FoodNutritionDetails
		kb.mu.Unlock()
	case fileStuntingPrevention:
		var doc stuntingDoc
		if err := readDoc(kb.dataDir, name, &doc); err != nil {
			return err
		}
		if err := validateFactors(doc.StuntingPrevention); err != nil {
			return err
		}
		kb.mu.Lock()
		kb.stunting = doc.StuntingPrevention
		kb.mu.Unlock()
	default:
		return fmt.Errorf("unknown knowledge topic file %s", name)
	}
	return nil
}

// GetTrimesterNutrition looks up one trimester entry by id
// (e.g. "trimester_pertama"). Returns nil when absent.
func (kb *KnowledgeBase) GetTrimesterNutrition(id string) *model.TrimesterNutrition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	for i := range kb.trimesters {
		if strings.EqualFold(kb.trimesters[i].Trimester, id) {
			entry := kb.trimesters[i]
			return &entry
		}
	}
	return nil
}

// GetFoodNutrition looks up one food by name, case-insensitively.
func (kb *KnowledgeBase) GetFoodNutrition(name string) *model.FoodNutrition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	for i := range kb.foods {
		if strings.EqualFold(kb.foods[i].Name, name) {
			entry := kb.foods[i]
			return &entry
		}
	}
	return nil
}

// GetFoodRecommendations returns all recommendation categories, or only the
// named category when the filter is non-empty.
func (kb *KnowledgeBase) GetFoodRecommendations(category string) []model.FoodCategory {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	if category == "" {
		out := make([]model.FoodCategory, len(kb.recommendations))
		copy(out, kb.recommendations)
		return out
	}
	var out []model.FoodCategory
	for _, c := range kb.recommendations {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

// GetStuntingPrevention returns the full stunting-prevention factor list.
func (kb *KnowledgeBase) GetStuntingPrevention() []model.StuntingFactor {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]model.StuntingFactor, len(kb.stunting))
	copy(out, kb.stunting)
	return out
}

// GetRelevantData routes an NLP outcome to the topics a response needs.
// Missing lookups leave the topic nil; they are never an error.
func (kb *KnowledgeBase) GetRelevantData(intent string, entities map[string]string, context []string) model.RelevantData {
	var data model.RelevantData

	switch intent {
	case model.IntentPregnancyNutrition:
		if trimester, ok := entities[model.EntityTrimester]; ok {
			data.TrimesterNutrition = kb.GetTrimesterNutrition("trimester_" + trimester)
		}
		for _, tag := range context {
			if tag == model.ContextFoodRecommendation {
				data.FoodRecommendations = kb.GetFoodRecommendations("")
				break
			}
		}
	case model.IntentFoodDetail:
		if food, ok := entities[model.EntityFoodItem]; ok {
			data.FoodNutrition = kb.GetFoodNutrition(food)
		}
	case model.IntentStuntingPrevention:
		data.StuntingPrevention = kb.GetStuntingPrevention()
	}

	return data
}

// GetUserPreferences returns the stored preference map for the user.
func (kb *KnowledgeBase) GetUserPreferences(ctx context.Context, userID string) (map[string]any, error) {
	return kb.prefs.Get(ctx, userID)
}

// UpdateUserPreferences shallow-merges partial into the user's stored
// preferences, creating the entry if absent.
func (kb *KnowledgeBase) UpdateUserPreferences(ctx context.Context, userID string, partial map[string]any) error {
	return kb.prefs.Merge(ctx, userID, partial)
}
