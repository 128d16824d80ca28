package eventlog

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/infrastructure/database/entities"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// PostgresRepository reads the committed event stream. Appends happen inside
// the record repositories' transactions via AppendTx so that a mutation and
// its event commit or abort together.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AppendTx inserts the event row on the given transaction handle.
func AppendTx(ctx context.Context, tx *gorm.DB, evt *domain.Event) error {
	entity, err := mapToEntity(evt)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to encode event payload", err,
			"eventlog-append-encode-001")
	}
	if err := tx.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to append ledger event", err,
			"eventlog-append-db-001")
	}
	return nil
}

// ListByIdentity returns the identity's events in emission order.
func (r *PostgresRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []entities.LedgerEvent
	err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("timestamp ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list ledger events", err,
			"eventlog-list-db-001")
	}

	events := make([]*domain.Event, 0, len(rows))
	for i := range rows {
		evt, err := mapEntity(&rows[i])
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal, "failed to decode event payload", err,
				"eventlog-list-decode-001")
		}
		events = append(events, evt)
	}
	return events, nil
}

func mapToEntity(evt *domain.Event) (*entities.LedgerEvent, error) {
	var payload datatypes.JSON
	if len(evt.Payload) > 0 {
		raw, err := json.Marshal(evt.Payload)
		if err != nil {
			return nil, err
		}
		payload = datatypes.JSON(raw)
	}
	return &entities.LedgerEvent{
		ID:         evt.ID,
		Kind:       string(evt.Kind),
		RecordID:   evt.RecordID,
		IdentityID: evt.IdentityID,
		Owner:      evt.Owner,
		Payload:    payload,
		Timestamp:  evt.Timestamp,
	}, nil
}

func mapEntity(entity *entities.LedgerEvent) (*domain.Event, error) {
	var payload map[string]any
	if len(entity.Payload) > 0 {
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, err
		}
	}
	return &domain.Event{
		ID:         entity.ID,
		Kind:       domain.Kind(entity.Kind),
		RecordID:   entity.RecordID,
		IdentityID: entity.IdentityID,
		Owner:      entity.Owner,
		Payload:    payload,
		Timestamp:  entity.Timestamp,
	}, nil
}
