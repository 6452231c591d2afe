package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/knowledge"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/llm"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/nlp"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/responder"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/sessions"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

// Node names in the turn pipeline.
const (
	NodeAnalyzer       = "analyzer"
	NodeRetriever      = "retriever"
	NodeModelResponder = "model_responder"
	NodeLocalResponder = "local_responder"
)

// NewAnalyzerPreHandler seeds the turn state for a fresh invocation.
func NewAnalyzerPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.Input = in
		s.NLP = nil
		s.Suggestions = nil
		s.Source = ""
		return in, nil
	}
}

// NewAnalyzerNode records the user message and runs the rule-based analysis.
func NewAnalyzerNode(mgr *sessions.Manager, engine *nlp.Engine) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.TurnInput) (*model.NLPResult, error) {
		if _, err := mgr.AppendUser(ctx, input.UserID, input.Message, nil); err != nil {
			return nil, fmt.Errorf("append user message: %w", err)
		}

		result := engine.Process(input.Message)
		logx.Debug().
			Str("user_id", input.UserID).
			Str("intent", result.Intent).
			Float64("confidence", result.Confidence).
			Msg("message analyzed")
		return &result, nil
	})
}

// NewAnalyzerPostHandler stores the analysis in state and derives the
// follow-up suggestions. Suggestions depend only on the analysis, never on
// which responder answers.
func NewAnalyzerPostHandler() func(context.Context, *model.NLPResult, *model.TurnState) (*model.NLPResult, error) {
	return func(ctx context.Context, out *model.NLPResult, s *model.TurnState) (*model.NLPResult, error) {
		s.NLP = out
		s.Suggestions = responder.Suggestions(out.Intent, out.Entities, out.Context)
		return out, nil
	}
}

// NewRetrieverNode bundles the analysis with knowledge data and stored
// preferences. A preference store failure degrades to empty preferences
// instead of failing the turn.
func NewRetrieverNode(kb *knowledge.KnowledgeBase) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, analysis *model.NLPResult) (*model.TurnData, error) {
		var input model.TurnInput
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			input = s.Input
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("read turn state: %w", err)
		}

		prefs, err := kb.GetUserPreferences(ctx, input.UserID)
		if err != nil {
			logx.Warn().Err(err).Str("user_id", input.UserID).Msg("preference lookup failed, continuing without")
			prefs = map[string]any{}
		}

		return &model.TurnData{
			Input:       input,
			NLP:         *analysis,
			KB:          kb.GetRelevantData(analysis.Intent, analysis.Entities, analysis.Context),
			Preferences: prefs,
		}, nil
	})
}

// NewLocalResponderNode renders the templated reply.
func NewLocalResponderNode(gen *responder.Generator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, data *model.TurnData) (*model.TurnResult, error) {
		return &model.TurnResult{
			Response: gen.Generate(data.NLP, data.KB, data.Preferences),
			Source:   model.SourceLocal,
		}, nil
	})
}

// backendPicker selects the integration a turn should use, or nil for the
// local path.
type backendPicker struct {
	gemini    *llm.Integration
	openai    *llm.Integration
	threshold float64
}

func (p *backendPicker) pick(data *model.TurnData) (*llm.Integration, model.ResponseSource) {
	if data.NLP.Confidence < p.threshold {
		return nil, model.SourceLocal
	}
	if data.Input.Backend.UseGemini && p.gemini != nil {
		return p.gemini, model.SourceGemini
	}
	if data.Input.Backend.UseOpenAI && p.openai != nil {
		return p.openai, model.SourceOpenAI
	}
	return nil, model.SourceLocal
}

// NewResponderCondition routes a turn to the remote or local responder.
func NewResponderCondition(picker *backendPicker) func(context.Context, *model.TurnData) (string, error) {
	return func(ctx context.Context, data *model.TurnData) (string, error) {
		if integ, source := picker.pick(data); integ != nil {
			logx.Debug().
				Str("user_id", data.Input.UserID).
				Str("source", string(source)).
				Float64("confidence", data.NLP.Confidence).
				Msg("routing to model responder")
			return NodeModelResponder, nil
		}
		return NodeLocalResponder, nil
	}
}

// NewModelResponderNode calls the selected remote backend. Any failure,
// including retry exhaustion, falls back to the local generator so the turn
// always produces an answer.
func NewModelResponderNode(picker *backendPicker, gen *responder.Generator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, data *model.TurnData) (*model.TurnResult, error) {
		integ, source := picker.pick(data)
		if integ == nil {
			// the branch should have routed local; answer locally anyway
			return &model.TurnResult{
				Response: gen.Generate(data.NLP, data.KB, data.Preferences),
				Source:   model.SourceLocal,
			}, nil
		}

		text, err := integ.GenerateResponse(ctx, data.Input.Message, data.NLP, data.KB)
		if err != nil {
			logx.Warn().Err(err).Str("user_id", data.Input.UserID).Str("source", string(source)).
				Msg("remote backend failed, falling back to local responder")
			return &model.TurnResult{
				Response: gen.Generate(data.NLP, data.KB, data.Preferences),
				Source:   model.SourceLocal,
			}, nil
		}
		return &model.TurnResult{Response: text, Source: source}, nil
	})
}

// NewResponderPostHandler finishes the turn: it fills the result from state,
// records the bot reply and overwrites the session context.
func NewResponderPostHandler(mgr *sessions.Manager) func(context.Context, *model.TurnResult, *model.TurnState) (*model.TurnResult, error) {
	return func(ctx context.Context, out *model.TurnResult, s *model.TurnState) (*model.TurnResult, error) {
		out.Suggestions = s.Suggestions
		if s.NLP != nil {
			out.NLP = *s.NLP
		}
		s.Source = out.Source

		if _, err := mgr.AppendBot(ctx, s.Input.UserID, out.Response); err != nil {
			return nil, fmt.Errorf("append bot message: %w", err)
		}
		if err := mgr.UpdateContext(ctx, s.Input.UserID, out.NLP); err != nil {
			return nil, fmt.Errorf("update session context: %w", err)
		}
		return out, nil
	}
}
