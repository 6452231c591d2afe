package errx

import (
	"errors"
	"fmt"
)

// Failure taxonomy for remote generative-model providers. Transient failures
// (timeouts, network errors) are retried by the integration layer; safety
// blocks are surfaced once without retry; ErrAttemptsExhausted marks the
// terminal state after the retry budget and the fallback model are spent.
var (
	// ErrProviderTimeout marks a model call that exceeded its wall-clock budget.
	ErrProviderTimeout = errors.New("provider call timed out")

	// ErrAttemptsExhausted marks a generation where every attempt, including
	// the fallback model, failed. The integration layer still returns a
	// human-readable apology alongside it.
	ErrAttemptsExhausted = errors.New("all provider attempts exhausted")
)

// SafetyBlockedError reports that the provider refused to answer because its
// safety filter blocked the prompt or the candidate response.
type SafetyBlockedError struct {
	Reason string
}

func (e *SafetyBlockedError) Error() string {
	return fmt.Sprintf("response blocked by provider safety filter: %s", e.Reason)
}

// ProviderError wraps any other failure reported by a provider, keeping the
// provider name for logs.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProvider attaches the provider name to err, passing nil through.
func WrapProvider(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// IsSafetyBlocked reports whether err carries a safety filter rejection.
func IsSafetyBlocked(err error) bool {
	var sb *SafetyBlockedError
	return errors.As(err, &sb)
}
