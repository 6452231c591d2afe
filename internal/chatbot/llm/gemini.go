package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiModels are the model names this integration is validated against. An
// unrecognized configured model falls back to the default with a warning
// rather than failing startup.
var geminiModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

// GeminiProvider calls the Gemini API through the genai client. The model
// name is fixed per provider instance; the integration layer owns primary vs
// fallback model selection by holding two providers.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds the shared genai client.
func NewGeminiClient(ctx context.Context, cfg model.GeminiConfig) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiProvider wraps one model of the shared client.
func NewGeminiProvider(client *genai.Client, modelName string) *GeminiProvider {
	if !isKnownGeminiModel(modelName) {
		logx.Warn().Str("model", modelName).Str("default", defaultGeminiModel).Msg("unrecognized Gemini model, using default")
		modelName = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: modelName}
}

func isKnownGeminiModel(name string) bool {
	for _, m := range geminiModels {
		if m == name {
			return true
		}
	}
	return false
}

func (p *GeminiProvider) Name() string {
	return "gemini:" + p.model
}

// Models lists the model names this provider accepts.
func (p *GeminiProvider) Models() []string {
	out := make([]string, len(geminiModels))
	copy(out, geminiModels)
	return out
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, cfg model.GenerationConfig) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(float32(cfg.TopK)),
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
		CandidateCount:  int32(cfg.CandidateCount),
		StopSequences:   cfg.StopSequences,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", errx.WrapProvider(p.Name(), err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return "", &errx.SafetyBlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", &errx.SafetyBlockedError{Reason: string(genai.FinishReasonSafety)}
	}

	text := resp.Text()
	if text == "" {
		return "", errx.WrapProvider(p.Name(), fmt.Errorf("empty response"))
	}
	return text, nil
}

var _ Provider = (*GeminiProvider)(nil)
