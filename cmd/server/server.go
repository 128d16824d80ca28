package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"custodia-server/services/ledger-api/internal/config"
	automationdomain "custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/event"
	identitydomain "custodia-server/services/ledger-api/internal/domain/identity"
	memorydomain "custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/domain/onboarding"
	permissiondomain "custodia-server/services/ledger-api/internal/domain/permission"
	portfoliodomain "custodia-server/services/ledger-api/internal/domain/portfolio"
	"custodia-server/services/ledger-api/internal/infrastructure/auth"
	"custodia-server/services/ledger-api/internal/infrastructure/clock"
	"custodia-server/services/ledger-api/internal/infrastructure/database"
	"custodia-server/services/ledger-api/internal/infrastructure/logger"
	"custodia-server/services/ledger-api/internal/infrastructure/observability"
	automationrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/automation"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	identityrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/identity"
	memoryrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/memory"
	permissionrepo "custodia-server/services/ledger-api/internal/infrastructure/repository/permission"
	portfoliorepo "custodia-server/services/ledger-api/internal/infrastructure/repository/portfolio"
	"custodia-server/services/ledger-api/internal/infrastructure/webhook"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/handlers"
)

// @title Ledger API
// @version 1.0
// @description Delegated identity and access-control ledger for Custodia Server
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

// repositories bundles the selected storage backend's data access layer.
type repositories struct {
	identities  identitydomain.Repository
	permissions permissiondomain.Repository
	memories    memorydomain.Repository
	automations automationdomain.Repository
	portfolios  portfoliodomain.Repository
	stream      event.Log
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	repos, err := newRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage backend")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	clk := clock.NewSystemSource()
	notifier := webhook.NewNotifier(cfg, log)

	identityService := identitydomain.NewService(repos.identities, clk, notifier, log)
	permissionService := permissiondomain.NewService(repos.permissions, repos.identities, clk, notifier, log)
	memoryService := memorydomain.NewService(repos.memories, repos.identities, clk, notifier, log)
	automationService := automationdomain.NewService(repos.automations, repos.identities, clk, notifier, log)
	portfolioService := portfoliodomain.NewService(repos.portfolios, repos.identities,
		repos.permissions, repos.memories, repos.automations, clk, notifier, log)
	onboardingService := onboarding.NewService(identityService, portfolioService, permissionService, log)

	handlerProvider := handlers.NewProvider(
		identityService, permissionService, memoryService, automationService,
		portfolioService, onboardingService, repos.stream, clk, log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.IsMemoryStorage() {
		log.Info().Msg("using in-memory storage backend")
		stream := eventlog.NewInMemoryLog()
		return &repositories{
			identities:  identityrepo.NewInMemoryRepository(stream),
			permissions: permissionrepo.NewInMemoryRepository(stream),
			memories:    memoryrepo.NewInMemoryRepository(stream),
			automations: automationrepo.NewInMemoryRepository(stream),
			portfolios:  portfoliorepo.NewInMemoryRepository(stream),
			stream:      stream,
		}, nil
	}

	db, err := database.Connect(database.Config{
		DSN:             cfg.DBPostgresqlWriteDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &repositories{
		identities:  identityrepo.NewPostgresRepository(db),
		permissions: permissionrepo.NewPostgresRepository(db),
		memories:    memoryrepo.NewPostgresRepository(db),
		automations: automationrepo.NewPostgresRepository(db),
		portfolios:  portfoliorepo.NewPostgresRepository(db),
		stream:      eventlog.NewPostgresRepository(db),
	}, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
