// Package graph composes the per-turn pipeline: analyze the message, gather
// knowledge and preferences, then answer through a remote backend or the
// local templated responder.
package graph

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/knowledge"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/llm"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/nlp"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/responder"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/sessions"
	errx "github.com/sahabatbunda/chatbot-core/internal/core/error"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

// Config holds everything needed to compose the turn pipeline. Gemini and
// OpenAI are optional; a nil integration simply takes that backend out of the
// routing decision.
type Config struct {
	Engine    *nlp.Engine
	KB        *knowledge.KnowledgeBase
	Sessions  *sessions.Manager
	Generator *responder.Generator

	Gemini *llm.Integration
	OpenAI *llm.Integration

	Pipeline model.PipelineConfig
}

// Runner executes the compiled pipeline for one turn at a time per user.
type Runner struct {
	runnable compose.Runnable[model.TurnInput, *model.TurnResult]
	sessions *sessions.Manager
}

// Build validates the configuration, assembles the graph and compiles it.
func Build(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("nlp engine is nil")
	}
	if cfg.KB == nil {
		return nil, fmt.Errorf("knowledge base is nil")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("sessions manager is nil")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("response generator is nil")
	}

	picker := &backendPicker{
		gemini:    cfg.Gemini,
		openai:    cfg.OpenAI,
		threshold: cfg.Pipeline.ConfidenceThreshold,
	}

	g := compose.NewGraph[model.TurnInput, *model.TurnResult](
		compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
			return &model.TurnState{}
		}),
	)

	g.AddLambdaNode(NodeAnalyzer,
		NewAnalyzerNode(cfg.Sessions, cfg.Engine),
		compose.WithStatePreHandler(NewAnalyzerPreHandler()),
		compose.WithStatePostHandler(NewAnalyzerPostHandler()),
	)
	g.AddLambdaNode(NodeRetriever,
		NewRetrieverNode(cfg.KB),
	)
	g.AddLambdaNode(NodeModelResponder,
		NewModelResponderNode(picker, cfg.Generator),
		compose.WithStatePostHandler(NewResponderPostHandler(cfg.Sessions)),
	)
	g.AddLambdaNode(NodeLocalResponder,
		NewLocalResponderNode(cfg.Generator),
		compose.WithStatePostHandler(NewResponderPostHandler(cfg.Sessions)),
	)

	edges := [][2]string{
		{compose.START, NodeAnalyzer},
		{NodeAnalyzer, NodeRetriever},
		{NodeModelResponder, compose.END},
		{NodeLocalResponder, compose.END},
	}
	for _, edge := range edges {
		g.AddEdge(edge[0], edge[1])
	}

	responderBranch := compose.NewGraphBranch(
		NewResponderCondition(picker),
		map[string]bool{
			NodeModelResponder: true,
			NodeLocalResponder: true,
		},
	)
	if err := g.AddBranch(NodeRetriever, responderBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding responder branch")
		return nil, fmt.Errorf("error adding responder branch: %w", err)
	}

	runnable, err := g.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Turn pipeline compiled successfully")
	return &Runner{runnable: runnable, sessions: cfg.Sessions}, nil
}

// Process runs one chat turn. Input validation happens before anything is
// written to the session, and turns for the same user are serialized.
func (r *Runner) Process(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, errx.New(fmt.Errorf("empty user id"), http.StatusBadRequest, errx.InvalidInputMessage)
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, errx.New(fmt.Errorf("empty message"), http.StatusBadRequest, errx.InvalidInputMessage)
	}

	unlock := r.sessions.Lock(in.UserID)
	defer unlock()

	out, err := r.runnable.Invoke(ctx, in)
	if err != nil {
		logx.Error().Err(err).Str("user_id", in.UserID).Msg("turn failed")
		return nil, err
	}
	return out, nil
}
