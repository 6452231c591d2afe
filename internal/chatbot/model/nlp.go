package model

// Intents recognised by the NLP engine. Declaration order matters: intent
// detection breaks ties in favour of the first declared intent.
const (
	IntentPregnancyNutrition = "nutrisi_kehamilan"
	IntentFoodDetail         = "detail_nutrisi"
	IntentStuntingPrevention = "pencegahan_stunting"
	IntentGreeting           = "greeting"
	IntentGeneralQuery       = "general_query"
)

// Entity slot keys. Each slot holds at most one value per message.
const (
	EntityTrimester = "trimester"
	EntityFoodItem  = "food_item"
)

// Context tags attached by the NLP engine and consumed by the knowledge base
// routing and the prompt builder.
const (
	ContextFoodRecommendation = "rekomendasi_makanan"
	ContextFoodDetail         = "detail_makanan"
)

// NLPResult is the outcome of analysing a single user message. It is produced
// fresh per message; confidence is a heuristic score in [0,1], not a
// calibrated probability.
type NLPResult struct {
	Intent     string            `json:"intent"`
	Entities   map[string]string `json:"entities"`
	Context    []string          `json:"context"`
	Confidence float64           `json:"confidence"`
}
