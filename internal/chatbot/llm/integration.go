package llm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

const safetyApology = "Maaf, saya tidak dapat memberikan respons untuk pertanyaan tersebut karena batasan keamanan."

// safetyApologyFor appends the provider's block reason so the caller can see
// why the filter fired.
func safetyApologyFor(err error) string {
	return fmt.Sprintf("%s Detail: %v", safetyApology, err)
}

// Integration runs one provider with a retry budget, a per-attempt timeout,
// an optional fallback provider, and a response cache. It always produces a
// user-facing text: on terminal failure the text is an apology and the error
// is errx.ErrAttemptsExhausted, which lets the caller switch to the local
// responder while keeping something printable.
type Integration struct {
	primary  Provider
	fallback Provider
	genCfg   model.GenerationConfig

	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	cache      *responseCache

	requestCount atomic.Int64

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

// NewIntegration wires primary and an optional fallback provider (nil for
// none) with the shared retry and cache settings.
func NewIntegration(primary, fallback Provider, cfg model.IntegrationConfig) *Integration {
	i := &Integration{
		primary:    primary,
		fallback:   fallback,
		genCfg:     model.DefaultGenerationConfig(),
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
		now:        time.Now,
		sleep:      time.Sleep,
	}
	if cfg.CacheEnabled {
		i.cache = newResponseCache(cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return i
}

// SetGenerationConfig overrides the default generation parameters.
func (i *Integration) SetGenerationConfig(cfg model.GenerationConfig) {
	i.genCfg = cfg
}

// GenerateResponse builds the grounded prompt and runs the attempt protocol:
// cache lookup, up to maxRetries calls on the primary provider with linearly
// growing delays, then one fallback attempt. A safety block is terminal but
// not an error: the apology is the answer. Exhaustion returns an apology
// together with errx.ErrAttemptsExhausted.
func (i *Integration) GenerateResponse(ctx context.Context, userMessage string, nlp model.NLPResult, data model.RelevantData) (string, error) {
	prompt := buildPrompt(userMessage, nlp, data, i.now())

	if i.cache != nil {
		if cached, ok := i.cache.get(prompt); ok {
			logx.Debug().Str("provider", i.primary.Name()).Msg("cache hit")
			return cached, nil
		}
	}

	count := i.requestCount.Add(1)
	logx.Info().Int64("request", count).Str("provider", i.primary.Name()).Msg("generating response")

	for attempt := 1; attempt <= i.maxRetries; attempt++ {
		text, err := i.attempt(ctx, i.primary, prompt)
		if err == nil {
			if i.cache != nil {
				i.cache.set(prompt, text)
			}
			return text, nil
		}
		if errx.IsSafetyBlocked(err) {
			logx.Warn().Err(err).Str("provider", i.primary.Name()).Msg("response blocked by safety filter")
			return safetyApologyFor(err), nil
		}
		logx.Warn().Err(err).Str("provider", i.primary.Name()).Int("attempt", attempt).Int("max_retries", i.maxRetries).Msg("provider attempt failed")

		if attempt < i.maxRetries {
			i.sleep(i.retryDelay * time.Duration(attempt))
		}
	}

	if i.fallback != nil {
		logx.Info().Str("provider", i.fallback.Name()).Msg("trying fallback model")
		text, err := i.attempt(ctx, i.fallback, prompt)
		if err == nil {
			return text, nil
		}
		if errx.IsSafetyBlocked(err) {
			logx.Warn().Err(err).Str("provider", i.fallback.Name()).Msg("fallback response blocked by safety filter")
			return safetyApologyFor(err), nil
		}
		logx.Error().Err(err).Str("provider", i.fallback.Name()).Msg("fallback attempt failed")
	}

	apology := fmt.Sprintf("Maaf, terjadi kesalahan saat memproses pertanyaan Anda. Semua upaya untuk menghubungi layanan AI gagal setelah %d percobaan.", i.maxRetries)
	return apology, errx.ErrAttemptsExhausted
}

// attempt runs one provider call under the per-attempt timeout. The call runs
// on its own goroutine with a buffered channel; on timeout the goroutine is
// abandoned, not killed, so the channel buffer keeps it from leaking.
func (i *Integration) attempt(ctx context.Context, p Provider, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := p.Generate(attemptCtx, prompt, i.genCfg)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-attemptCtx.Done():
		return "", errx.WrapProvider(p.Name(), errx.ErrProviderTimeout)
	}
}

// Info reports the current integration configuration for diagnostics.
func (i *Integration) Info() map[string]any {
	info := map[string]any{
		"primary_model": i.primary.Name(),
		"cache_enabled": i.cache != nil,
		"max_retries":   i.maxRetries,
		"timeout":       i.timeout.String(),
		"request_count": i.requestCount.Load(),
	}
	if i.fallback != nil {
		info["fallback_model"] = i.fallback.Name()
	}
	if lister, ok := i.primary.(interface{ Models() []string }); ok {
		info["available_models"] = lister.Models()
	}
	return info
}
