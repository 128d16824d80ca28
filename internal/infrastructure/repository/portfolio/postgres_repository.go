package portfolio

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/portfolio"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for portfolio heads and their
// ordered index entries.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the portfolio and appends its event in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, record *domain.Portfolio, evt *event.Event) error {
	entity := mapToEntity(record)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to create portfolio", err,
				"portfolio-repo-create-001")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
}

// GetByID fetches a portfolio by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	var entity entities.Portfolio
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return nil, notFoundOrDB(ctx, err, "portfolio-repo-get-001", "portfolio-repo-get-002")
	}
	return mapEntity(&entity), nil
}

// GetByIdentity fetches the portfolio owned by an identity.
func (r *PostgresRepository) GetByIdentity(ctx context.Context, identityID string) (*domain.Portfolio, error) {
	var entity entities.Portfolio
	err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&entity).Error
	if err != nil {
		return nil, notFoundOrDB(ctx, err, "portfolio-repo-get-003", "portfolio-repo-get-004")
	}
	return mapEntity(&entity), nil
}

// AddEntry inserts the index slot, persists the bumped counts under an
// optimistic lock-version check and appends the event, all in one
// transaction. The unique (portfolio, category, seq) index backs up the
// version check against duplicate slots.
func (r *PostgresRepository) AddEntry(ctx context.Context, record *domain.Portfolio, entry domain.Entry, evt *event.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &entities.PortfolioEntry{
			PortfolioID: record.ID,
			Category:    string(entry.Category),
			Seq:         entry.Seq,
			ChildID:     entry.ChildID,
		}
		if err := tx.Create(row).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to insert portfolio entry", err,
				"portfolio-repo-entry-001")
		}
		res := tx.Model(&entities.Portfolio{}).
			Where("id = ? AND lock_version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"permission_count": record.PermissionCount,
				"memory_count":     record.MemoryCount,
				"automation_count": record.AutomationCount,
				"updated_at":       record.UpdatedAt,
				"lock_version":     record.Version + 1,
			})
		if res.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to update portfolio counts", res.Error,
				"portfolio-repo-entry-002")
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "portfolio changed concurrently", nil,
				"portfolio-repo-entry-003")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}
	record.Version++
	return nil
}

// ListEntries returns one category's index slots in sequence order.
func (r *PostgresRepository) ListEntries(ctx context.Context, portfolioID string, category domain.Category) ([]domain.Entry, error) {
	var rows []entities.PortfolioEntry
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND category = ?", portfolioID, string(category)).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list portfolio entries", err,
			"portfolio-repo-list-001")
	}
	entries := make([]domain.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, domain.Entry{
			Category: domain.Category(rows[i].Category),
			Seq:      rows[i].Seq,
			ChildID:  rows[i].ChildID,
		})
	}
	return entries, nil
}

func notFoundOrDB(ctx context.Context, err error, notFoundUUID, dbUUID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "portfolio not found", err, notFoundUUID)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError, "failed to get portfolio", err, dbUUID)
}

func mapToEntity(record *domain.Portfolio) *entities.Portfolio {
	return &entities.Portfolio{
		ID:              record.ID,
		IdentityID:      record.IdentityID,
		Owner:           record.Owner,
		PermissionCount: record.PermissionCount,
		MemoryCount:     record.MemoryCount,
		AutomationCount: record.AutomationCount,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
		LockVersion:     record.Version,
	}
}

func mapEntity(entity *entities.Portfolio) *domain.Portfolio {
	return &domain.Portfolio{
		ID:              entity.ID,
		IdentityID:      entity.IdentityID,
		Owner:           entity.Owner,
		PermissionCount: entity.PermissionCount,
		MemoryCount:     entity.MemoryCount,
		AutomationCount: entity.AutomationCount,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
		Version:         entity.LockVersion,
	}
}
