package model

// ================ Config ================

// KnowledgeConfig locates the reference data files.
type KnowledgeConfig struct {
	DataDir string `envconfig:"KNOWLEDGE_DATA_DIR" default:"data/knowledge"`
	Watch   bool   `envconfig:"KNOWLEDGE_WATCH" default:"false"`
}

// SessionConfig selects and tunes the session repository.
type SessionConfig struct {
	Backend     string `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL         string `envconfig:"SESSION_TTL" default:"0"`
	MaxMessages int    `envconfig:"SESSION_MAX_MESSAGES" default:"0"`
}

// PreferenceConfig selects the preference repository.
type PreferenceConfig struct {
	Backend    string `envconfig:"PREFS_BACKEND" default:"memory"`
	SQLitePath string `envconfig:"PREFS_SQLITE_PATH" default:"data/preferences.db"`
}

// GeminiConfig configures the primary remote backend. An empty APIKey leaves
// the integration unavailable without affecting the rest of the system.
type GeminiConfig struct {
	APIKey        string `envconfig:"GOOGLE_API_KEY"`
	BaseURL       string `envconfig:"GEMINI_BASE_URL"`
	Model         string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	FallbackModel string `envconfig:"GEMINI_FALLBACK_MODEL" default:"gemini-1.5-flash"`
}

// OpenAIConfig configures the OpenAI-style remote backend.
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
}

// IntegrationConfig tunes the shared behaviour of the LLM integration layer.
type IntegrationConfig struct {
	TimeoutSeconds    int  `envconfig:"LLM_TIMEOUT" default:"30"`
	MaxRetries        int  `envconfig:"LLM_MAX_RETRIES" default:"3"`
	RetryDelaySeconds int  `envconfig:"LLM_RETRY_DELAY" default:"2"`
	CacheEnabled      bool `envconfig:"LLM_CACHE_ENABLED" default:"true"`
	CacheSize         int  `envconfig:"LLM_CACHE_SIZE" default:"100"`
	CacheTTLSeconds   int  `envconfig:"LLM_CACHE_TTL" default:"3600"`
}

// PipelineConfig tunes the orchestrator.
type PipelineConfig struct {
	// ConfidenceThreshold is the minimum NLP confidence required before a
	// remote backend is attempted.
	ConfidenceThreshold float64 `envconfig:"PIPELINE_CONFIDENCE_THRESHOLD" default:"0.6"`
}

// GenerationConfig is the value object of generation parameters passed into
// each model call.
type GenerationConfig struct {
	Temperature     float32  `json:"temperature"`
	TopP            float32  `json:"top_p"`
	TopK            int      `json:"top_k"`
	MaxOutputTokens int      `json:"max_output_tokens"`
	CandidateCount  int      `json:"candidate_count"`
	StopSequences   []string `json:"stop_sequences,omitempty"`
}

// DefaultGenerationConfig returns the production-tuned generation defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 1024,
		CandidateCount:  1,
	}
}
