package bootstrap

import (
	"os"
	"strings"

	"triage_server/adapter/in/http"
	"triage_server/adapter/in/worker"
	"triage_server/config"
	"triage_server/infra/middleware"
	"triage_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
)

// NewAPI builds the HTTP server. The API runs its own worker pool so
// enqueue endpoints work in any mode; a standalone worker process only
// adds the inbox poller.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "triage-api",
	})

	deps, depsCleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "api-pool").Logger()

	inboxProcessor := worker.NewInboxProcessor(deps.Engine, deps.JobStore, deps.GmailProvider)
	handler := worker.NewHandler(inboxProcessor)
	pool := worker.NewPool(handler, poolConfig(cfg), zlog)
	go pool.Start()

	cleanup := func() {
		pool.Stop()
		depsCleanup()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             5 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	if allowOrigins == "" {
		if cfg.IsProduction() {
			allowOrigins = ""
		} else {
			allowOrigins = "http://localhost:3000"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-API-Key,X-Request-ID",
		MaxAge:       86400,
	}))

	// Health check (no auth required)
	healthHandler := http.NewHealthHandler(deps.DB, deps.Redis)
	healthHandler.Register(app)

	// API routes
	api := app.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.APIKey))

	emailHandler := http.NewEmailHandler(deps.Engine, deps.JobStore, pool)
	emailHandler.Register(api)

	employeeHandler := http.NewEmployeeHandler(deps.Directory)
	employeeHandler.Register(api)

	knowledgeHandler := http.NewKnowledgeHandler(deps.Knowledge)
	knowledgeHandler.Register(api)

	jobHandler := http.NewJobHandler(deps.JobStore)
	jobHandler.Register(api)

	configHandler := http.NewConfigHandler(deps.Engine)
	configHandler.Register(api)

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}

// poolConfig maps worker settings from the environment onto the pool,
// inheriting per-job timeouts from the defaults.
func poolConfig(cfg *config.Config) *worker.PoolConfig {
	defaults := worker.DefaultPoolConfig()
	pc := &worker.PoolConfig{
		MinWorkers:       cfg.WorkerMin,
		MaxWorkers:       cfg.WorkerMax,
		QueueSize:        cfg.WorkerQueueSize,
		JobTimeout:       defaults.JobTimeout,
		JobTimeoutByType: defaults.JobTimeoutByType,
		BatchSize:        defaults.BatchSize,
		WorkerChanSize:   defaults.WorkerChanSize,
		RatePerSecond:    cfg.SendRatePerSec,
	}

	if pc.MinWorkers <= 0 {
		pc.MinWorkers = defaults.MinWorkers
	}
	if pc.MaxWorkers <= 0 {
		pc.MaxWorkers = defaults.MaxWorkers
	}
	if pc.QueueSize <= 0 {
		pc.QueueSize = defaults.QueueSize
	}
	if pc.RatePerSecond <= 0 {
		pc.RatePerSecond = defaults.RatePerSecond
	}
	return pc
}
