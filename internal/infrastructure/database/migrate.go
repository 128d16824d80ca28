package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	err := db.WithContext(ctx).AutoMigrate(
		&entities.Identity{},
		&entities.Permission{},
		&entities.Memory{},
		&entities.Automation{},
		&entities.Portfolio{},
		&entities.PortfolioEntry{},
		&entities.LedgerEvent{},
	)
	if err != nil {
		return err
	}
	log.Info().Msg("applied ledger record migrations")
	return nil
}
