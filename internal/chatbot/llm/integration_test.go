package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
)

// fakeProvider fails the first failures calls, then answers with response.
type fakeProvider struct {
	name     string
	failures int
	err      error
	response string
	block    time.Duration

	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, _ string, _ model.GenerationConfig) (string, error) {
	f.calls++
	if f.block > 0 {
		select {
		case <-time.After(f.block):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.calls <= f.failures {
		return "", f.err
	}
	return f.response, nil
}

func newTestIntegration(primary, fallback Provider) *Integration {
	i := NewIntegration(primary, fallback, model.IntegrationConfig{
		TimeoutSeconds:    1,
		MaxRetries:        3,
		RetryDelaySeconds: 1,
		CacheEnabled:      true,
		CacheSize:         10,
		CacheTTLSeconds:   3600,
	})
	i.sleep = func(time.Duration) {}
	// pin the clock so two calls build the identical prompt
	fixed := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return fixed }
	return i
}

func testNLP() model.NLPResult {
	return model.NLPResult{
		Intent:     model.IntentStuntingPrevention,
		Entities:   map[string]string{},
		Context:    []string{model.IntentStuntingPrevention},
		Confidence: 0.7,
	}
}

func TestGenerateResponse_SuccessIsCached(t *testing.T) {
	p := &fakeProvider{name: "primary", response: "jawaban"}
	i := newTestIntegration(p, nil)

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if got != "jawaban" {
		t.Fatalf("got %q", got)
	}

	got, err = i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil || got != "jawaban" {
		t.Fatalf("cached call: got %q, err %v", got, err)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call thanks to cache, got %d", p.calls)
	}
}

func TestGenerateResponse_RetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{name: "primary", failures: 2, err: errors.New("boom"), response: "jawaban"}
	var delays []time.Duration
	i := newTestIntegration(p, nil)
	i.sleep = func(d time.Duration) { delays = append(delays, d) }

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if got != "jawaban" {
		t.Fatalf("got %q", got)
	}
	if p.calls != 3 {
		t.Errorf("expected 3 calls, got %d", p.calls)
	}
	// delay grows linearly with the attempt number
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(delays) != len(want) || delays[0] != want[0] || delays[1] != want[1] {
		t.Errorf("expected delays %v, got %v", want, delays)
	}
}

func TestGenerateResponse_FallbackModelAfterExhaustion(t *testing.T) {
	p := &fakeProvider{name: "primary", failures: 99, err: errors.New("boom")}
	fb := &fakeProvider{name: "fallback", response: "dari fallback"}
	i := newTestIntegration(p, fb)

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if got != "dari fallback" {
		t.Fatalf("got %q", got)
	}
	if p.calls != 3 || fb.calls != 1 {
		t.Errorf("expected 3 primary + 1 fallback calls, got %d + %d", p.calls, fb.calls)
	}
}

func TestGenerateResponse_ExhaustionReturnsApologyAndError(t *testing.T) {
	p := &fakeProvider{name: "primary", failures: 99, err: errors.New("boom")}
	fb := &fakeProvider{name: "fallback", failures: 99, err: errors.New("boom")}
	i := newTestIntegration(p, fb)

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if !errors.Is(err, errx.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if !strings.Contains(got, "Maaf") {
		t.Errorf("expected a printable apology, got %q", got)
	}
	if !strings.Contains(got, "3 percobaan") {
		t.Errorf("apology should mention the retry budget: %q", got)
	}
}

func TestGenerateResponse_SafetyBlockNotRetried(t *testing.T) {
	p := &fakeProvider{name: "primary", failures: 99, err: &errx.SafetyBlockedError{Reason: "SAFETY"}}
	i := newTestIntegration(p, nil)

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil {
		t.Fatalf("safety block must not surface an error, got %v", err)
	}
	if !strings.HasPrefix(got, safetyApology) {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "SAFETY") {
		t.Errorf("apology should carry the block reason: %q", got)
	}
	if p.calls != 1 {
		t.Errorf("safety block must not be retried, got %d calls", p.calls)
	}
}

func TestGenerateResponse_TimeoutCountsAsFailedAttempt(t *testing.T) {
	p := &fakeProvider{name: "primary", block: time.Second, response: "terlambat"}
	fb := &fakeProvider{name: "fallback", response: "dari fallback"}
	i := newTestIntegration(p, fb)
	i.timeout = 10 * time.Millisecond

	got, err := i.GenerateResponse(context.Background(), "cegah stunting", testNLP(), model.RelevantData{})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if got != "dari fallback" {
		t.Fatalf("expected fallback answer, got %q", got)
	}
	if p.calls != 3 {
		t.Errorf("expected the timeout to burn all 3 primary attempts, got %d", p.calls)
	}
}

func TestInfo(t *testing.T) {
	p := &fakeProvider{name: "primary", response: "ok"}
	fb := &fakeProvider{name: "fallback"}
	i := newTestIntegration(p, fb)

	info := i.Info()
	if info["primary_model"] != "primary" || info["fallback_model"] != "fallback" {
		t.Errorf("unexpected model info: %+v", info)
	}
	if info["cache_enabled"] != true || info["max_retries"] != 3 {
		t.Errorf("unexpected settings info: %+v", info)
	}
}
