package permission

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for permission records.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the permission and appends its event in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, record *domain.Permission, evt *event.Event) error {
	entity, err := mapToEntity(ctx, record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to create permission", err,
				"permission-repo-create-001")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
}

// Update persists the permission under an optimistic lock-version check and
// appends the event in the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, record *domain.Permission, evt *event.Event) error {
	scopes, err := encodeStrings(ctx, record.Scopes, "permission-repo-scopes-001")
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Permission{}).
			Where("id = ? AND lock_version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"scopes":       scopes,
				"last_used_at": record.LastUsedAt,
				"is_active":    record.IsActive,
				"lock_version": record.Version + 1,
			})
		if res.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to update permission", res.Error,
				"permission-repo-update-001")
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "permission changed concurrently", nil,
				"permission-repo-update-002")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}
	record.Version++
	return nil
}

// GetByID fetches a permission by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	var entity entities.Permission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "permission not found", err,
				"permission-repo-get-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get permission", err,
			"permission-repo-get-002")
	}
	return mapEntity(ctx, &entity)
}

func mapToEntity(ctx context.Context, record *domain.Permission) (*entities.Permission, error) {
	scopes, err := encodeStrings(ctx, record.Scopes, "permission-repo-scopes-001")
	if err != nil {
		return nil, err
	}
	return &entities.Permission{
		ID:              record.ID,
		IdentityID:      record.IdentityID,
		Owner:           record.Owner,
		AppName:         record.AppName,
		AppID:           record.AppID,
		Scopes:          scopes,
		AccessTokenHash: record.AccessTokenHash,
		ExpiresAt:       record.ExpiresAt,
		CreatedAt:       record.CreatedAt,
		LastUsedAt:      record.LastUsedAt,
		IsActive:        record.IsActive,
		LockVersion:     record.Version,
	}, nil
}

func mapEntity(ctx context.Context, entity *entities.Permission) (*domain.Permission, error) {
	scopes, err := decodeStrings(ctx, entity.Scopes, "permission-repo-decode-001")
	if err != nil {
		return nil, err
	}
	return &domain.Permission{
		ID:              entity.ID,
		IdentityID:      entity.IdentityID,
		Owner:           entity.Owner,
		AppName:         entity.AppName,
		AppID:           entity.AppID,
		Scopes:          scopes,
		AccessTokenHash: entity.AccessTokenHash,
		ExpiresAt:       entity.ExpiresAt,
		CreatedAt:       entity.CreatedAt,
		LastUsedAt:      entity.LastUsedAt,
		IsActive:        entity.IsActive,
		Version:         entity.LockVersion,
	}, nil
}

func encodeStrings(ctx context.Context, values []string, errUUID string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to encode string list", err, errUUID)
	}
	return datatypes.JSON(raw), nil
}

func decodeStrings(ctx context.Context, raw datatypes.JSON, errUUID string) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to decode string list", err, errUUID)
	}
	return values, nil
}
