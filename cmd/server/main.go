// @title         careerdesk API
// @version       1.0
// @description   Resume upload desk: text extraction, session-scoped resume storage and navigation to the analysis, interview and salary pages.
// @BasePath      /
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey DeskSession
// @in header
// @name Authorization
// @description Desk session token from /api/v1/desk/init: "Bearer <JWT>", "<JWT>" or the desk_session cookie.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "github.com/artem13815/careerdesk/docs"

	// internal imports
	"github.com/artem13815/careerdesk/api/http"
	"github.com/artem13815/careerdesk/api/http/handlers"
	"github.com/artem13815/careerdesk/pkg/config"
	"github.com/artem13815/careerdesk/pkg/desk"
	"github.com/artem13815/careerdesk/pkg/extract"
	"github.com/artem13815/careerdesk/pkg/health"
	healthpg "github.com/artem13815/careerdesk/pkg/health/checkers"
	"github.com/artem13815/careerdesk/pkg/logger"
	pgrepo "github.com/artem13815/careerdesk/pkg/repository/postgres"
	"github.com/artem13815/careerdesk/pkg/resume"
	"github.com/artem13815/careerdesk/pkg/security/jwt"
	"github.com/artem13815/careerdesk/pkg/storage"
	"github.com/artem13815/careerdesk/pkg/storage/memory"
	"github.com/artem13815/careerdesk/pkg/storage/postgres"
	redisstore "github.com/artem13815/careerdesk/pkg/storage/redis"
	"github.com/artem13815/careerdesk/web"
)

const janitorEvery = time.Minute

func main() {
	// Load configuration from env/.env
	cfg := config.Load()

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checkers []health.Checker

	// Session scope: Redis when configured, process memory otherwise
	var sessionBackend storage.Backend
	if cfg.RedisURL != "" {
		rdb, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		rb := redisstore.New(rdb, cfg.SessionTTL, cfg.SessionQuota)
		sessionBackend = rb
		checkers = append(checkers, rb)
		log.Info("session storage: redis")
	} else {
		mb := memory.New(memory.WithQuota(cfg.SessionQuota), memory.WithTTL(cfg.SessionTTL))
		sessionBackend = mb
		go sweep(ctx, mb, log)
		log.Info("session storage: memory")
	}

	// Persistent scope: PostgreSQL when configured, process memory otherwise
	var persistentBackend storage.Backend
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, 0)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pool.Close()
		repo, err := pgrepo.NewStorageRepository(pool, cfg.SessionQuota)
		if err != nil {
			log.Fatal("init persistent storage", zap.Error(err))
		}
		persistentBackend = repo
		checkers = append(checkers, healthpg.NewPostgresChecker(pool))
		log.Info("persistent storage: postgres")
	} else {
		persistentBackend = memory.New(memory.WithQuota(cfg.SessionQuota))
		log.Info("persistent storage: memory")
	}

	extractionSvc := resume.NewExtractionService(cfg.MaxUploadBytes, log)
	var extractor desk.Extractor = resume.NewLocalExtractor(extractionSvc)
	if cfg.ExtractorURL != "" {
		extractor = extract.New(cfg.ExtractorURL, cfg.ExtractTimeout)
		log.Info("extraction: remote", zap.String("url", cfg.ExtractorURL))
	}

	registry := desk.NewRegistry(desk.RegistryConfig{
		Extractor:  extractor,
		Session:    sessionBackend,
		Persistent: persistentBackend,
		Logger:     log,
		TTL:        cfg.SessionTTL,
		Options:    []desk.Option{desk.WithManualSaveDelay(cfg.ManualSaveDelay)},
	})
	go registry.Run(ctx, janitorEvery)

	// Session tokens live as long as the browser cookie; desks expire on their own
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, 0)

	app := fiber.New(fiber.Config{
		// Multipart overhead on top of the largest accepted file
		BodyLimit:             int(cfg.MaxUploadBytes) + 1<<20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	pages, err := web.DistFS()
	if err != nil {
		log.Fatal("embedded pages", zap.Error(err))
	}

	// Swagger UI, ahead of the static page fallback
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Register routes
	http.Register(app, http.Handlers{
		Health:  handlers.NewHealthHandler(health.NewService(checkers...)),
		Extract: handlers.NewExtractHandler(extractionSvc, log),
		Desk:    handlers.NewDeskHandler(registry, tokens, cfg.MaxUploadBytes, log),
		Session: jwt.NewSessionMiddleware(tokens),
		Web:     pages,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	// Start server
	log.Info("HTTP server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func sweep(ctx context.Context, b *memory.Backend, log *zap.Logger) {
	t := time.NewTicker(janitorEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := b.Sweep(); n > 0 {
				log.Debug("memory storage: expired scopes removed", zap.Int("count", n))
			}
		}
	}
}
