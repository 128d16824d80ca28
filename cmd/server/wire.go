//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"custodia-server/services/ledger-api/internal/config"
	automationdomain "custodia-server/services/ledger-api/internal/domain/automation"
	clockdomain "custodia-server/services/ledger-api/internal/domain/clock"
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

var storageSet = wire.NewSet(
	identityrepo.NewPostgresRepository,
	wire.Bind(new(identitydomain.Repository), new(*identityrepo.PostgresRepository)),
	permissionrepo.NewPostgresRepository,
	wire.Bind(new(permissiondomain.Repository), new(*permissionrepo.PostgresRepository)),
	memoryrepo.NewPostgresRepository,
	wire.Bind(new(memorydomain.Repository), new(*memoryrepo.PostgresRepository)),
	automationrepo.NewPostgresRepository,
	wire.Bind(new(automationdomain.Repository), new(*automationrepo.PostgresRepository)),
	portfoliorepo.NewPostgresRepository,
	wire.Bind(new(portfoliodomain.Repository), new(*portfoliorepo.PostgresRepository)),
	eventlog.NewPostgresRepository,
	wire.Bind(new(event.Log), new(*eventlog.PostgresRepository)),
)

var domainSet = wire.NewSet(
	clock.NewSystemSource,
	wire.Bind(new(clockdomain.Source), new(*clock.SystemSource)),
	webhook.NewNotifier,
	identitydomain.NewService,
	wire.Bind(new(identitydomain.Service), new(*identitydomain.DefaultService)),
	permissiondomain.NewService,
	wire.Bind(new(permissiondomain.Service), new(*permissiondomain.DefaultService)),
	memorydomain.NewService,
	wire.Bind(new(memorydomain.Service), new(*memorydomain.DefaultService)),
	automationdomain.NewService,
	wire.Bind(new(automationdomain.Service), new(*automationdomain.DefaultService)),
	portfoliodomain.NewService,
	wire.Bind(new(portfoliodomain.Service), new(*portfoliodomain.DefaultService)),
	onboarding.NewService,
	wire.Bind(new(onboarding.Service), new(*onboarding.DefaultService)),
)

// BuildApplication assembles the postgres-backed ledger service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		storageSet,
		domainSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DBPostgresqlWriteDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}
