package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/infrastructure/metrics"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
	"custodia-server/services/ledger-api/utils/recordid"
)

// Service describes the business logic surface for memory records.
type Service interface {
	Create(ctx context.Context, caller string, params CreateParams) (*Memory, error)
	UpdateWithAI(ctx context.Context, caller, id string, summary *string, suggestions []string) (*Memory, error)
	AddTags(ctx context.Context, caller, id string, tags []string) (*Memory, error)
	Archive(ctx context.Context, caller, id string) (*Memory, error)
	GetByID(ctx context.Context, id string) (*Memory, error)
}

// CreateParams contains parameters for creating a memory.
type CreateParams struct {
	IdentityID  string
	ContentType ContentType
	Title       string
	BlobLocator string
	ContentHash []byte
	ContentSize uint64
	Tags        []string
	ExpiresAt   uint64
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo       Repository
	identities identity.Repository
	clock      clock.Source
	notifier   event.Notifier
	log        zerolog.Logger
}

// NewService wires the memory service with its collaborators.
func NewService(repo Repository, identities identity.Repository, clk clock.Source, notifier event.Notifier, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:       repo,
		identities: identities,
		clock:      clk,
		notifier:   notifier,
		log:        log.With().Str("component", "memory-service").Logger(),
	}
}

// Create records a new memory owned by the caller. The ledger stores only
// the blob locator and content hash; it never fetches or validates the
// bytes themselves.
func (s *DefaultService) Create(ctx context.Context, caller string, params CreateParams) (*Memory, error) {
	if !params.ContentType.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown content type %d", params.ContentType), nil,
			"memory-create-ctype-001")
	}
	if strings.TrimSpace(params.BlobLocator) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "blob_locator is required", nil,
			"memory-create-locator-001")
	}
	if len(params.ContentHash) != ContentHashSize {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("content_hash must be %d bytes, got %d", ContentHashSize, len(params.ContentHash)), nil,
			"memory-create-hash-001")
	}
	if _, err := s.identities.GetByID(ctx, params.IdentityID); err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record := &Memory{
		ID:            recordid.New(recordid.KindMemory),
		IdentityID:    params.IdentityID,
		Owner:         caller,
		ContentType:   params.ContentType,
		Title:         params.Title,
		BlobLocator:   params.BlobLocator,
		ContentHash:   params.ContentHash,
		ContentSize:   params.ContentSize,
		AISuggestions: []string{},
		Tags:          params.Tags,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     params.ExpiresAt,
	}

	evt := event.New(event.KindMemoryCreated, record.ID, record.IdentityID, caller, now, map[string]any{
		"content_type": record.ContentType.String(),
		"blob_locator": record.BlobLocator,
	})
	if err := s.repo.Create(ctx, record, evt); err != nil {
		metrics.RecordMutation("memory", "create", "error")
		return nil, err
	}

	metrics.RecordMutation("memory", "create", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	s.log.Info().Str("memory_id", record.ID).Str("content_type", record.ContentType.String()).Msg("memory created")
	return record, nil
}

// UpdateWithAI replaces both AI fields wholesale; previous values are not
// merged.
func (s *DefaultService) UpdateWithAI(ctx context.Context, caller, id string, summary *string, suggestions []string) (*Memory, error) {
	record, err := s.activeAuthorizedLookup(ctx, caller, id, "memory-ai-owner-001", "memory-ai-state-001")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record.AISummary = summary
	if suggestions == nil {
		suggestions = []string{}
	}
	record.AISuggestions = suggestions
	record.UpdatedAt = now

	evt := event.New(event.KindMemoryUpdated, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("memory", "update_ai", "error")
		return nil, err
	}

	metrics.RecordMutation("memory", "update_ai", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// AddTags appends tags to the memory. Unlike permission scopes, tags are a
// plain list: repeats are kept.
func (s *DefaultService) AddTags(ctx context.Context, caller, id string, tags []string) (*Memory, error) {
	record, err := s.activeAuthorizedLookup(ctx, caller, id, "memory-tags-owner-001", "memory-tags-state-001")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record.Tags = append(record.Tags, tags...)
	record.UpdatedAt = now

	evt := event.New(event.KindMemoryUpdated, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("memory", "add_tags", "error")
		return nil, err
	}

	metrics.RecordMutation("memory", "add_tags", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// Archive moves the memory to archived. The transition is one-way; archived
// memories accept no further mutation.
func (s *DefaultService) Archive(ctx context.Context, caller, id string) (*Memory, error) {
	record, err := s.activeAuthorizedLookup(ctx, caller, id, "memory-archive-owner-001", "memory-archive-state-001")
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	record.Status = StatusArchived
	record.UpdatedAt = now

	evt := event.New(event.KindMemoryArchived, record.ID, record.IdentityID, record.Owner, now, nil)
	if err := s.repo.Update(ctx, record, evt); err != nil {
		metrics.RecordMutation("memory", "archive", "error")
		return nil, err
	}

	metrics.RecordMutation("memory", "archive", "success")
	metrics.RecordEvent(string(evt.Kind))
	s.notifier.Notify(ctx, evt)
	return record, nil
}

// GetByID retrieves a memory by id.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*Memory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultService) activeAuthorizedLookup(ctx context.Context, caller, id, ownerUUID, stateUUID string) (*Memory, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Owner != caller {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "caller is not the memory owner", nil, ownerUUID)
	}
	if record.Status != StatusActive {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState, "memory is archived", nil, stateUUID)
	}
	return record, nil
}
