package graph

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/knowledge"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/llm"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/nlp"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/repo"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/responder"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/sessions"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(_ context.Context, _ string, _ model.GenerationConfig) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func stubIntegration(p llm.Provider) *llm.Integration {
	return llm.NewIntegration(p, nil, model.IntegrationConfig{
		TimeoutSeconds: 5,
		MaxRetries:     1,
	})
}

type harness struct {
	runner   *Runner
	sessions *sessions.Manager
}

func newHarness(t *testing.T, gemini *llm.Integration) *harness {
	t.Helper()

	kb, err := knowledge.New(model.KnowledgeConfig{DataDir: t.TempDir()}, repo.NewMemoryPreferenceRepository())
	if err != nil {
		t.Fatalf("knowledge.New: %v", err)
	}
	mgr := sessions.NewManager(repo.NewMemorySessionRepository(0))

	runner, err := Build(context.Background(), Config{
		Engine:    nlp.NewEngine(),
		KB:        kb,
		Sessions:  mgr,
		Generator: responder.New(rand.New(rand.NewSource(1))),
		Gemini:    gemini,
		Pipeline:  model.PipelineConfig{ConfidenceThreshold: 0.6},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return &harness{runner: runner, sessions: mgr}
}

func TestProcess_LocalTurn(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	out, err := h.runner.Process(ctx, model.TurnInput{UserID: "bunda-1", Message: "bagaimana cara mencegah stunting?"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if out.Source != model.SourceLocal {
		t.Errorf("expected local source, got %q", out.Source)
	}
	if out.Response == "" {
		t.Error("expected a non-empty response")
	}
	if out.NLP.Intent != model.IntentStuntingPrevention {
		t.Errorf("unexpected intent %q", out.NLP.Intent)
	}
	if len(out.Suggestions) == 0 || len(out.Suggestions) > 3 {
		t.Errorf("unexpected suggestions %v", out.Suggestions)
	}

	s, err := h.sessions.History(ctx, "bunda-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(s.Messages) != 2 || !s.Messages[0].IsUser || s.Messages[1].IsUser {
		t.Errorf("expected user+bot message pair, got %+v", s.Messages)
	}
	if s.Context.LastIntent != model.IntentStuntingPrevention {
		t.Errorf("session context not updated: %+v", s.Context)
	}
}

func TestProcess_RemoteBackendAnswers(t *testing.T) {
	p := &stubProvider{response: "jawaban dari model"}
	h := newHarness(t, stubIntegration(p))

	out, err := h.runner.Process(context.Background(), model.TurnInput{
		UserID:  "bunda-1",
		Message: "makanan apa yang baik untuk trimester pertama?",
		Backend: model.BackendPreference{UseGemini: true},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Source != model.SourceGemini {
		t.Errorf("expected gemini source, got %q", out.Source)
	}
	if out.Response != "jawaban dari model" {
		t.Errorf("got %q", out.Response)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}
}

func TestProcess_FailingBackendFallsBackToLocal(t *testing.T) {
	p := &stubProvider{err: errors.New("provider down")}
	h := newHarness(t, stubIntegration(p))
	ctx := context.Background()

	out, err := h.runner.Process(ctx, model.TurnInput{
		UserID:  "bunda-1",
		Message: "makanan apa yang baik untuk trimester pertama?",
		Backend: model.BackendPreference{UseGemini: true},
	})
	if err != nil {
		t.Fatalf("turn must not fail when the backend does: %v", err)
	}
	if out.Source != model.SourceLocal {
		t.Errorf("expected fallback to local source, got %q", out.Source)
	}
	if out.Response == "" {
		t.Error("expected a non-empty fallback response")
	}
	if p.calls == 0 {
		t.Error("expected the backend to have been attempted")
	}

	// session still records the full turn
	n, _ := h.sessions.MessageCount(ctx, "bunda-1")
	if n != 2 {
		t.Errorf("expected 2 session messages, got %d", n)
	}
}

func TestProcess_LowConfidenceSkipsBackend(t *testing.T) {
	p := &stubProvider{response: "tidak boleh terpanggil"}
	h := newHarness(t, stubIntegration(p))

	out, err := h.runner.Process(context.Background(), model.TurnInput{
		UserID:  "bunda-1",
		Message: "xyzabc",
		Backend: model.BackendPreference{UseGemini: true},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Source != model.SourceLocal {
		t.Errorf("expected local source for low confidence, got %q", out.Source)
	}
	if p.calls != 0 {
		t.Errorf("backend must not be called below the confidence threshold, got %d calls", p.calls)
	}
}

func TestProcess_RejectsInvalidInput(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	tests := []model.TurnInput{
		{UserID: "", Message: "halo"},
		{UserID: "bunda-1", Message: ""},
		{UserID: "bunda-1", Message: "   "},
	}
	for _, in := range tests {
		if _, err := h.runner.Process(ctx, in); err == nil {
			t.Errorf("expected error for input %+v", in)
		}
	}

	// nothing was written to any session
	n, _ := h.sessions.MessageCount(ctx, "bunda-1")
	if n != 0 {
		t.Errorf("invalid input must not touch the session, got %d messages", n)
	}
}

func TestProcess_SuggestionsIndependentOfPath(t *testing.T) {
	failing := &stubProvider{err: errors.New("provider down")}
	h := newHarness(t, stubIntegration(failing))
	ctx := context.Background()

	in := model.TurnInput{
		UserID:  "bunda-1",
		Message: "apa kandungan gizi telur?",
		Backend: model.BackendPreference{UseGemini: true},
	}
	viaFallback, err := h.runner.Process(ctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	h2 := newHarness(t, nil)
	viaLocal, err := h2.runner.Process(ctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(viaFallback.Suggestions) != len(viaLocal.Suggestions) {
		t.Fatalf("suggestion counts differ: %v vs %v", viaFallback.Suggestions, viaLocal.Suggestions)
	}
	for i := range viaLocal.Suggestions {
		if viaFallback.Suggestions[i] != viaLocal.Suggestions[i] {
			t.Errorf("suggestion %d differs: %q vs %q", i, viaFallback.Suggestions[i], viaLocal.Suggestions[i])
		}
	}
}
