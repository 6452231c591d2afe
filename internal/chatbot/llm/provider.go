// Package llm integrates remote generative-model backends behind a shared
// retry, timeout and cache layer. Providers only know how to complete a
// prompt; everything around the call (budgets, fallback, apology texts) lives
// in Integration.
package llm

import (
	"context"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

// Provider is one remote text-generation backend.
type Provider interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Generate completes the prompt. Implementations honor ctx cancellation
	// and map safety-filter rejections to errx.SafetyBlockedError.
	Generate(ctx context.Context, prompt string, cfg model.GenerationConfig) (string, error)
}
