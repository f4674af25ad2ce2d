// Package bootstrap wires configuration, adapters and services into
// runnable API and worker components.
package bootstrap

import (
	"context"
	"time"

	"triage_server/adapter/out/persistence"
	"triage_server/adapter/out/provider"
	"triage_server/config"
	"triage_server/core/agent/llm"
	"triage_server/core/port/out"
	"triage_server/core/service/classify"
	"triage_server/core/service/compose"
	"triage_server/core/service/directory"
	"triage_server/core/service/knowledge"
	"triage_server/core/service/routing"
	"triage_server/core/service/triage"
	"triage_server/infra/database"
	"triage_server/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Dependencies holds every shared component. Database, Redis, Gmail
// and the LLM are all optional: each degrades to a static or fallback
// mode so a bare `go run` still serves the full policy surface.
type Dependencies struct {
	DB    *pgxpool.Pool
	SQLX  *sqlx.DB
	Redis *redis.Client

	EmployeeRepo   *persistence.EmployeeAdapter
	ForwardingRepo *persistence.ForwardingAdapter
	JobStore       out.JobStore
	GmailProvider  out.EmailProviderPort

	Directory  *directory.Service
	Knowledge  *knowledge.Service
	Classifier *classify.Classifier
	Router     *routing.Router
	Composer   *compose.Service
	Engine     *triage.Engine
}

// NewDependencies builds the dependency graph.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (optional)
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Warn("PostgreSQL unavailable, using built-in directory")
		} else {
			deps.DB = pool
			cleanups = append(cleanups, pool.Close)

			sqlxDB, err := database.NewSQLX(cfg.DatabaseURL)
			if err != nil {
				logger.WithError(err).Warn("sqlx connection failed, using built-in directory")
			} else {
				deps.SQLX = sqlxDB
				cleanups = append(cleanups, func() { _ = sqlxDB.Close() })
			}
		}
	} else {
		logger.Info("DATABASE_URL not set, serving built-in directory")
	}

	// Redis (optional)
	if cfg.RedisURL != "" {
		client, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, job status kept in memory")
		} else {
			deps.Redis = client
			cleanups = append(cleanups, func() { _ = client.Close() })
		}
	}

	// Repositories
	deps.EmployeeRepo = persistence.NewEmployeeAdapter(deps.SQLX)
	deps.ForwardingRepo = persistence.NewForwardingAdapter(deps.SQLX)

	if deps.SQLX != nil {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := deps.EmployeeRepo.Seed(seedCtx); err != nil {
			logger.WithError(err).Warn("Employee seed failed")
		}
		if err := deps.ForwardingRepo.Seed(seedCtx); err != nil {
			logger.WithError(err).Warn("Forwarding rule seed failed")
		}
	}

	if deps.Redis != nil {
		deps.JobStore = persistence.NewRedisJobStore(deps.Redis)
	} else {
		deps.JobStore = persistence.NewMemoryJobStore()
	}

	// Gmail provider (optional)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		gmail, err := provider.NewGmailAdapter(&provider.GmailConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			TokenFile:    cfg.GmailTokenFile,
		})
		if err != nil {
			logger.WithError(err).Warn("Gmail provider unavailable, inbox processing disabled")
		} else {
			deps.GmailProvider = gmail
		}
	} else {
		logger.Warn("Google OAuth not configured, inbox processing disabled")
	}

	// Core services
	deps.Directory = directory.NewService(deps.EmployeeRepo)
	deps.Knowledge = knowledge.NewService(deps.Directory)
	deps.Classifier = classify.NewClassifier()
	deps.Router = routing.NewRouter(deps.ForwardingRepo, cfg.SupportAddress)

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.Router.Reload(loadCtx); err != nil {
		cleanup()
		return nil, nil, err
	}

	// LLM composer (optional)
	var freeText out.FreeTextComposer
	if cfg.OpenAIAPIKey != "" {
		client := llm.NewClient(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
		})
		freeText = llm.NewReplyGenerator(client)
	} else {
		logger.Warn("OPENAI_API_KEY not set, replies use the template fallback")
	}
	deps.Composer = compose.NewService(freeText)

	deps.Engine = triage.NewEngine(
		deps.GmailProvider,
		deps.Classifier,
		deps.Knowledge,
		deps.Router,
		deps.Composer,
		triage.Options{
			PollInterval: cfg.PollInterval,
			AutoReply:    cfg.AutoReply,
			AutoForward:  cfg.AutoForward,
			MaxBatchSize: cfg.MaxBatchSize,
		},
	)

	return deps, cleanup, nil
}
