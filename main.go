package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/graph"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/knowledge"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/llm"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/nlp"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/repo"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/responder"
	"github.com/sahabatbunda/chatbot-core/internal/chatbot/sessions"
	"github.com/sahabatbunda/chatbot-core/internal/core"
	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
	pkgredis "github.com/sahabatbunda/chatbot-core/pkg/redis"
)

// AppConfig defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Pipeline components
	Knowledge   model.KnowledgeConfig
	Session     model.SessionConfig
	Preferences model.PreferenceConfig
	Gemini      model.GeminiConfig
	OpenAI      model.OpenAIConfig
	Integration model.IntegrationConfig
	Pipeline    model.PipelineConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})

	// Preference store. A broken SQLite path degrades to memory so the
	// chatbot still answers.
	var prefs model.PreferenceRepository
	switch cfg.Preferences.Backend {
	case "sqlite":
		store, err := repo.NewSQLitePreferenceRepository(cfg.Preferences.SQLitePath)
		if err != nil {
			logx.Warn().Err(err).Str("path", cfg.Preferences.SQLitePath).Msg("sqlite preferences unavailable, using memory")
			prefs = repo.NewMemoryPreferenceRepository()
		} else {
			defer store.Close()
			prefs = store
		}
	default:
		prefs = repo.NewMemoryPreferenceRepository()
	}

	kb, err := knowledge.New(cfg.Knowledge, prefs)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load knowledge base")
	}
	if cfg.Knowledge.Watch {
		watcher, err := knowledge.NewWatcher(kb)
		if err != nil {
			logx.Warn().Err(err).Msg("knowledge watcher unavailable")
		} else {
			defer watcher.Stop()
			go watcher.Run(ctx)
		}
	}

	// Session store.
	var sessionRepo model.SessionRepository
	switch cfg.Session.Backend {
	case "redis":
		ttl, err := time.ParseDuration(cfg.Session.TTL)
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("invalid SESSION_TTL")
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Warn().Err(err).Msg("redis unavailable, using in-memory sessions")
			sessionRepo = repo.NewMemorySessionRepository(cfg.Session.MaxMessages)
		} else {
			defer rdb.Close()
			sessionRepo = repo.NewRedisSessionRepository(rdb, ttl)
		}
	default:
		sessionRepo = repo.NewMemorySessionRepository(cfg.Session.MaxMessages)
	}

	// Remote backends are optional: a failed setup only removes that backend.
	var gemini *llm.Integration
	if cfg.Gemini.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			logx.Warn().Err(err).Msg("gemini backend unavailable")
		} else {
			primary := llm.NewGeminiProvider(client, cfg.Gemini.Model)
			var fallback llm.Provider
			if cfg.Gemini.FallbackModel != "" && cfg.Gemini.FallbackModel != cfg.Gemini.Model {
				fallback = llm.NewGeminiProvider(client, cfg.Gemini.FallbackModel)
			}
			gemini = llm.NewIntegration(primary, fallback, cfg.Integration)
			logx.Info().Str("model", cfg.Gemini.Model).Msg("gemini backend ready")
		}
	}

	var openAI *llm.Integration
	if cfg.OpenAI.APIKey != "" {
		provider, err := llm.NewOpenAIProvider(cfg.OpenAI)
		if err != nil {
			logx.Warn().Err(err).Msg("openai backend unavailable")
		} else {
			openAI = llm.NewIntegration(provider, nil, cfg.Integration)
			logx.Info().Str("model", cfg.OpenAI.Model).Msg("openai backend ready")
		}
	}

	runner, err := graph.Build(ctx, graph.Config{
		Engine:    nlp.NewEngine(),
		KB:        kb,
		Sessions:  sessions.NewManager(sessionRepo),
		Generator: responder.New(nil),
		Gemini:    gemini,
		OpenAI:    openAI,
		Pipeline:  cfg.Pipeline,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build turn pipeline")
	}

	backend := model.BackendPreference{
		UseGemini: gemini != nil,
		UseOpenAI: openAI != nil,
	}

	fmt.Println("Chatbot Stunting siap. Ketik pertanyaan Anda (atau 'exit' untuk keluar).")
	scanner := bufio.NewScanner(os.Stdin)
	userID := "local-user"
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		out, err := runner.Process(ctx, model.TurnInput{
			UserID:  userID,
			Message: line,
			Backend: backend,
		})
		if err != nil {
			logx.Error().Err(err).Msg("turn failed")
			continue
		}

		fmt.Printf("\n%s\n", out.Response)
		fmt.Printf("[source: %s]\n", out.Source)
		if len(out.Suggestions) > 0 {
			fmt.Println("Saran pertanyaan:")
			for _, s := range out.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
		}
		fmt.Println()
	}
}
