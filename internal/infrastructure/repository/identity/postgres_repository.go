package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for identity records.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the identity and appends its event in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, record *domain.Identity, evt *event.Event) error {
	entity := mapToEntity(record)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to create identity", err,
				"identity-repo-create-001")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	return err
}

// Update persists the identity under an optimistic lock-version check and
// appends the event in the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, record *domain.Identity, evt *event.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Identity{}).
			Where("id = ? AND lock_version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"email":        record.Email,
				"full_name":    record.FullName,
				"is_verified":  record.IsVerified,
				"updated_at":   record.UpdatedAt,
				"lock_version": record.Version + 1,
			})
		if res.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to update identity", res.Error,
				"identity-repo-update-001")
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "identity changed concurrently", nil,
				"identity-repo-update-002")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}
	record.Version++
	return nil
}

// GetByID fetches an identity by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	var entity entities.Identity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "identity not found", err,
				"identity-repo-get-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get identity", err,
			"identity-repo-get-002")
	}
	return mapEntity(&entity), nil
}

func mapToEntity(record *domain.Identity) *entities.Identity {
	return &entities.Identity{
		ID:          record.ID,
		Owner:       record.Owner,
		Provider:    record.Provider,
		ProviderID:  record.ProviderID,
		Email:       record.Email,
		FullName:    record.FullName,
		IsVerified:  record.IsVerified,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		LockVersion: record.Version,
	}
}

func mapEntity(entity *entities.Identity) *domain.Identity {
	return &domain.Identity{
		ID:         entity.ID,
		Owner:      entity.Owner,
		Provider:   entity.Provider,
		ProviderID: entity.ProviderID,
		Email:      entity.Email,
		FullName:   entity.FullName,
		IsVerified: entity.IsVerified,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
		Version:    entity.LockVersion,
	}
}
