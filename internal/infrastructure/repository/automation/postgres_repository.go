package automation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/status"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/infrastructure/repository/eventlog"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for automation records.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the automation and appends its event in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, record *domain.Automation, evt *event.Event) error {
	entity := mapToEntity(record)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to create automation", err,
				"automation-repo-create-001")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
}

// Update persists the automation under an optimistic lock-version check and
// appends the event in the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, record *domain.Automation, evt *event.Event) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Automation{}).
			Where("id = ? AND lock_version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"status":           string(record.Status),
				"execution_count":  record.ExecutionCount,
				"last_executed_at": record.LastExecutedAt,
				"updated_at":       record.UpdatedAt,
				"lock_version":     record.Version + 1,
			})
		if res.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to update automation", res.Error,
				"automation-repo-update-001")
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "automation changed concurrently", nil,
				"automation-repo-update-002")
		}
		return eventlog.AppendTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}
	record.Version++
	return nil
}

// GetByID fetches an automation by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Automation, error) {
	var entity entities.Automation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "automation not found", err,
				"automation-repo-get-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get automation", err,
			"automation-repo-get-002")
	}
	return mapEntity(&entity), nil
}

func mapToEntity(record *domain.Automation) *entities.Automation {
	return &entities.Automation{
		ID:                record.ID,
		IdentityID:        record.IdentityID,
		Owner:             record.Owner,
		AutomationType:    uint8(record.AutomationType),
		Title:             record.Title,
		Description:       record.Description,
		TriggerAt:         record.TriggerAt,
		RecurrencePattern: record.RecurrencePattern,
		Status:            string(record.Status),
		ExecutionCount:    record.ExecutionCount,
		LastExecutedAt:    record.LastExecutedAt,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
		LockVersion:       record.Version,
	}
}

func mapEntity(entity *entities.Automation) *domain.Automation {
	return &domain.Automation{
		ID:                entity.ID,
		IdentityID:        entity.IdentityID,
		Owner:             entity.Owner,
		AutomationType:    domain.AutomationType(entity.AutomationType),
		Title:             entity.Title,
		Description:       entity.Description,
		TriggerAt:         entity.TriggerAt,
		RecurrencePattern: entity.RecurrencePattern,
		Status:            status.Status(entity.Status),
		ExecutionCount:    entity.ExecutionCount,
		LastExecutedAt:    entity.LastExecutedAt,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
		Version:           entity.LockVersion,
	}
}
