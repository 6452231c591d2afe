// Package nlp implements the rule-based text analysis stage: keyword intent
// detection, entity slot extraction and context tagging, with a heuristic
// confidence score. It is a pure function of the message and the fixed tables;
// it never fails and never performs I/O.
package nlp

import (
	"regexp"
	"strings"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

type intentRule struct {
	intent   string
	keywords []string
}

type entityRule struct {
	entity  string
	phrases []string
}

// Engine analyses user messages against fixed keyword tables.
type Engine struct {
	intents  []intentRule
	entities []entityRule
	cleaner  *regexp.Regexp
}

// NewEngine builds an engine with the production keyword tables. Rule order is
// part of the contract: intent ties break toward the earlier rule, and a later
// entity match of the same slot replaces an earlier one.
func NewEngine() *Engine {
	return &Engine{
		intents: []intentRule{
			{model.IntentPregnancyNutrition, []string{"nutrisi", "makanan", "kehamilan", "hamil", "makan", "trimester"}},
			{model.IntentFoodDetail, []string{"detail", "nutrisi", "kandungan", "gizi", "komposisi", "vitamin", "mineral"}},
			{model.IntentStuntingPrevention, []string{"cegah", "stunting", "pencegahan", "mencegah", "hindari", "pendek"}},
			{model.IntentGreeting, []string{"halo", "hai", "hi", "selamat", "pagi", "siang", "malam"}},
		},
		entities: []entityRule{
			{"trimester_pertama", []string{"trimester pertama", "trimester 1", "awal kehamilan"}},
			{"trimester_kedua", []string{"trimester kedua", "trimester 2", "tengah kehamilan"}},
			{"trimester_ketiga", []string{"trimester ketiga", "trimester 3", "akhir kehamilan"}},
			{"telur", []string{"telur", "telor"}},
			{"ikan_salmon", []string{"ikan salmon", "salmon"}},
			{"ikan", []string{"ikan", "tuna", "lele", "kembung"}},
			{"daging", []string{"daging", "ayam", "sapi"}},
			{"bayam", []string{"bayam"}},
			{"brokoli", []string{"brokoli"}},
			{"kacang", []string{"kacang", "kacang-kacangan"}},
		},
		cleaner: regexp.MustCompile(`[^\w\s]`),
	}
}

// Process analyses one message. It always returns a well-formed result; when
// nothing matches, the intent is general_query with empty entities and context.
func (e *Engine) Process(text string) model.NLPResult {
	cleaned := e.cleanText(text)

	intent := e.detectIntent(cleaned)
	entities := e.recognizeEntities(cleaned)
	context := e.analyzeContext(cleaned, intent, entities)

	return model.NLPResult{
		Intent:     intent,
		Entities:   entities,
		Context:    context,
		Confidence: scoreConfidence(intent, entities, context),
	}
}

func (e *Engine) cleanText(text string) string {
	return e.cleaner.ReplaceAllString(strings.ToLower(text), " ")
}

// detectIntent counts keyword hits per intent and picks the strictly highest
// count; ties resolve to the earlier declared intent.
func (e *Engine) detectIntent(message string) string {
	best := model.IntentGeneralQuery
	bestScore := 0
	for _, rule := range e.intents {
		score := 0
		for _, kw := range rule.keywords {
			if strings.Contains(message, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = rule.intent
		}
	}
	return best
}

// recognizeEntities fills the trimester and food_item slots. Later table
// entries overwrite earlier matches of the same slot; only the last match per
// slot survives. That is intentional last-write-wins, not a multi-valued slot.
func (e *Engine) recognizeEntities(message string) map[string]string {
	entities := make(map[string]string)
	for _, rule := range e.entities {
		for _, phrase := range rule.phrases {
			if !strings.Contains(message, phrase) {
				continue
			}
			if suffix, ok := strings.CutPrefix(rule.entity, "trimester_"); ok {
				entities[model.EntityTrimester] = suffix
			} else {
				entities[model.EntityFoodItem] = rule.entity
			}
		}
	}
	return entities
}

func (e *Engine) analyzeContext(message, intent string, entities map[string]string) []string {
	var context []string

	if intent == model.IntentPregnancyNutrition {
		context = append(context, model.ContextFoodRecommendation)
	}

	if trimester, ok := entities[model.EntityTrimester]; ok {
		context = append(context, "trimester_"+trimester)
	}

	if intent == model.IntentFoodDetail {
		if _, ok := entities[model.EntityFoodItem]; ok {
			context = append(context, model.ContextFoodDetail)
		}
	}

	// Literal mentions add the recommendation tag even when the intent rule
	// already did; duplicates are allowed.
	if strings.Contains(message, "makanan") || strings.Contains(message, "makan") {
		context = append(context, model.ContextFoodRecommendation)
	}

	return context
}

func scoreConfidence(intent string, entities map[string]string, context []string) float64 {
	confidence := 0.5
	if intent != model.IntentGeneralQuery {
		confidence += 0.2
	}
	if len(entities) > 0 {
		confidence += 0.2
	}
	if len(context) > 0 {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
