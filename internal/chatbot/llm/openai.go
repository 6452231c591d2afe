package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
)

// OpenAIProvider is the OpenAI-compatible backend. A custom BaseURL points it
// at any API-compatible server.
type OpenAIProvider struct {
	llm   llms.Model
	model string
}

func NewOpenAIProvider(cfg model.OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai init: %w", err)
	}
	return &OpenAIProvider{llm: llm, model: cfg.Model}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, cfg model.GenerationConfig) (string, error) {
	callOpts := []llms.CallOption{
		llms.WithTemperature(float64(cfg.Temperature)),
		llms.WithTopP(float64(cfg.TopP)),
		llms.WithTopK(cfg.TopK),
		llms.WithMaxTokens(cfg.MaxOutputTokens),
		llms.WithCandidateCount(cfg.CandidateCount),
	}
	if len(cfg.StopSequences) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(cfg.StopSequences))
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt, callOpts...)
	if err != nil {
		return "", errx.WrapProvider(p.Name(), err)
	}
	if resp == "" {
		return "", errx.WrapProvider(p.Name(), fmt.Errorf("empty response"))
	}
	return resp, nil
}

var _ Provider = (*OpenAIProvider)(nil)
