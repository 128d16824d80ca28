package memory

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"custodia-server/services/ledger-api/internal/domain/event"
	domain "custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for memory records. The content
// hash is stored hex-encoded in a fixed-width column.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the memory and appends its event in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, record *domain.Memory, evt *event.Event) error {
	entity, err := mapToEntity(ctx, record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to create memory", err,
				"memory-repo-create-001")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
}

// Update persists the memory under an optimistic lock-version check and
// appends the event in the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, record *domain.Memory, evt *event.Event) error {
	suggestions, err := encodeStrings(ctx, record.AISuggestions, "memory-repo-suggestions-001")
	if err != nil {
		return err
	}
	tags, err := encodeStrings(ctx, record.Tags, "memory-repo-tags-001")
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Memory{}).
			Where("id = ? AND lock_version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"ai_summary":     record.AISummary,
				"ai_suggestions": suggestions,
				"tags":           tags,
				"status":         string(record.Status),
				"updated_at":     record.UpdatedAt,
				"lock_version":   record.Version + 1,
			})
		if res.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to update memory", res.Error,
				"memory-repo-update-001")
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "memory changed concurrently", nil,
				"memory-repo-update-002")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}
	record.Version++
	return nil
}

// GetByID fetches a memory by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Memory, error) {
	var entity entities.Memory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "memory not found", err,
				"memory-repo-get-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get memory", err,
			"memory-repo-get-002")
	}
	return mapEntity(ctx, &entity)
}

func mapToEntity(ctx context.Context, record *domain.Memory) (*entities.Memory, error) {
	suggestions, err := encodeStrings(ctx, record.AISuggestions, "memory-repo-suggestions-001")
	if err != nil {
		return nil, err
	}
	tags, err := encodeStrings(ctx, record.Tags, "memory-repo-tags-001")
	if err != nil {
		return nil, err
	}
	return &entities.Memory{
		ID:            record.ID,
		IdentityID:    record.IdentityID,
		Owner:         record.Owner,
		ContentType:   uint8(record.ContentType),
		Title:         record.Title,
		BlobLocator:   record.BlobLocator,
		ContentHash:   hex.EncodeToString(record.ContentHash),
		ContentSize:   record.ContentSize,
		AISummary:     record.AISummary,
		AISuggestions: suggestions,
		Tags:          tags,
		Status:        string(record.Status),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		ExpiresAt:     record.ExpiresAt,
		LockVersion:   record.Version,
	}, nil
}

func mapEntity(ctx context.Context, entity *entities.Memory) (*domain.Memory, error) {
	hash, err := hex.DecodeString(entity.ContentHash)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to decode content hash", err,
			"memory-repo-decode-001")
	}
	suggestions, err := decodeStrings(ctx, entity.AISuggestions, "memory-repo-decode-002")
	if err != nil {
		return nil, err
	}
	tags, err := decodeStrings(ctx, entity.Tags, "memory-repo-decode-003")
	if err != nil {
		return nil, err
	}
	return &domain.Memory{
		ID:            entity.ID,
		IdentityID:    entity.IdentityID,
		Owner:         entity.Owner,
		ContentType:   domain.ContentType(entity.ContentType),
		Title:         entity.Title,
		BlobLocator:   entity.BlobLocator,
		ContentHash:   hash,
		ContentSize:   entity.ContentSize,
		AISummary:     entity.AISummary,
		AISuggestions: suggestions,
		Tags:          tags,
		Status:        domain.MemoryStatus(entity.Status),
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
		ExpiresAt:     entity.ExpiresAt,
		Version:       entity.LockVersion,
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
