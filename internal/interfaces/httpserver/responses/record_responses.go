package responses

import (
	"encoding/hex"

	"custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/domain/portfolio"
)

// IdentityResponse is the wire view of an identity record.
type IdentityResponse struct {
	ID         string  `json:"id"`
	Owner      string  `json:"owner"`
	Provider   string  `json:"provider"`
	ProviderID string  `json:"provider_id"`
	Email      *string `json:"email,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	IsVerified bool    `json:"is_verified"`
	CreatedAt  uint64  `json:"created_at"`
	UpdatedAt  uint64  `json:"updated_at"`
}

// NewIdentityResponse maps the domain record.
func NewIdentityResponse(record *identity.Identity) IdentityResponse {
	return IdentityResponse{
		ID:         record.ID,
		Owner:      record.Owner,
		Provider:   record.Provider,
		ProviderID: record.ProviderID,
		Email:      record.Email,
		FullName:   record.FullName,
		IsVerified: record.IsVerified,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

// PermissionResponse is the wire view of a permission grant.
type PermissionResponse struct {
	ID              string   `json:"id"`
	IdentityID      string   `json:"identity_id"`
	Owner           string   `json:"owner"`
	AppName         string   `json:"app_name"`
	AppID           string   `json:"app_id"`
	Scopes          []string `json:"scopes"`
	AccessTokenHash string   `json:"access_token_hash,omitempty"`
	ExpiresAt       uint64   `json:"expires_at"`
	CreatedAt       uint64   `json:"created_at"`
	LastUsedAt      uint64   `json:"last_used_at"`
	IsActive        bool     `json:"is_active"`
}

// NewPermissionResponse maps the domain record.
func NewPermissionResponse(record *permission.Permission) PermissionResponse {
	return PermissionResponse{
		ID:              record.ID,
		IdentityID:      record.IdentityID,
		Owner:           record.Owner,
		AppName:         record.AppName,
		AppID:           record.AppID,
		Scopes:          record.Scopes,
		AccessTokenHash: record.AccessTokenHash,
		ExpiresAt:       record.ExpiresAt,
		CreatedAt:       record.CreatedAt,
		LastUsedAt:      record.LastUsedAt,
		IsActive:        record.IsActive,
	}
}

// MemoryResponse is the wire view of a memory record. The content hash is
// rendered as lowercase hex.
type MemoryResponse struct {
	ID            string   `json:"id"`
	IdentityID    string   `json:"identity_id"`
	Owner         string   `json:"owner"`
	ContentType   string   `json:"content_type"`
	Title         string   `json:"title,omitempty"`
	BlobLocator   string   `json:"blob_locator"`
	ContentHash   string   `json:"content_hash"`
	ContentSize   uint64   `json:"content_size"`
	AISummary     *string  `json:"ai_summary,omitempty"`
	AISuggestions []string `json:"ai_suggestions"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	CreatedAt     uint64   `json:"created_at"`
	UpdatedAt     uint64   `json:"updated_at"`
	ExpiresAt     uint64   `json:"expires_at"`
	Expired       bool     `json:"expired"`
}

// NewMemoryResponse maps the domain record. Expiry is evaluated against the
// supplied ledger time.
func NewMemoryResponse(record *memory.Memory, now uint64) MemoryResponse {
	return MemoryResponse{
		ID:            record.ID,
		IdentityID:    record.IdentityID,
		Owner:         record.Owner,
		ContentType:   record.ContentType.String(),
		Title:         record.Title,
		BlobLocator:   record.BlobLocator,
		ContentHash:   hex.EncodeToString(record.ContentHash),
		ContentSize:   record.ContentSize,
		AISummary:     record.AISummary,
		AISuggestions: record.AISuggestions,
		Tags:          record.Tags,
		Status:        string(record.Status),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		ExpiresAt:     record.ExpiresAt,
		Expired:       record.Expired(now),
	}
}

// AutomationResponse is the wire view of an automation record.
type AutomationResponse struct {
	ID                string  `json:"id"`
	IdentityID        string  `json:"identity_id"`
	Owner             string  `json:"owner"`
	AutomationType    string  `json:"automation_type"`
	Title             string  `json:"title,omitempty"`
	Description       string  `json:"description,omitempty"`
	TriggerAt         uint64  `json:"trigger_at"`
	RecurrencePattern *string `json:"recurrence_pattern,omitempty"`
	Status            string  `json:"status"`
	ExecutionCount    uint64  `json:"execution_count"`
	LastExecutedAt    *uint64 `json:"last_executed_at,omitempty"`
	CreatedAt         uint64  `json:"created_at"`
	UpdatedAt         uint64  `json:"updated_at"`
}

// NewAutomationResponse maps the domain record.
func NewAutomationResponse(record *automation.Automation) AutomationResponse {
	return AutomationResponse{
		ID:                record.ID,
		IdentityID:        record.IdentityID,
		Owner:             record.Owner,
		AutomationType:    record.AutomationType.String(),
		Title:             record.Title,
		Description:       record.Description,
		TriggerAt:         record.TriggerAt,
		RecurrencePattern: record.RecurrencePattern,
		Status:            string(record.Status),
		ExecutionCount:    record.ExecutionCount,
		LastExecutedAt:    record.LastExecutedAt,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

// PortfolioResponse is the wire view of a portfolio head.
type PortfolioResponse struct {
	ID              string `json:"id"`
	IdentityID      string `json:"identity_id"`
	Owner           string `json:"owner"`
	PermissionCount uint64 `json:"permission_count"`
	MemoryCount     uint64 `json:"memory_count"`
	AutomationCount uint64 `json:"automation_count"`
	CreatedAt       uint64 `json:"created_at"`
	UpdatedAt       uint64 `json:"updated_at"`
}

// NewPortfolioResponse maps the domain record.
func NewPortfolioResponse(record *portfolio.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:              record.ID,
		IdentityID:      record.IdentityID,
		Owner:           record.Owner,
		PermissionCount: record.PermissionCount,
		MemoryCount:     record.MemoryCount,
		AutomationCount: record.AutomationCount,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

// PortfolioEntryResponse is one slot of a portfolio index.
type PortfolioEntryResponse struct {
	Category string `json:"category"`
	Seq      uint64 `json:"seq"`
	ChildID  string `json:"child_id"`
}

// NewPortfolioEntriesResponse maps an index listing.
func NewPortfolioEntriesResponse(entries []portfolio.Entry) []PortfolioEntryResponse {
	out := make([]PortfolioEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, PortfolioEntryResponse{
			Category: string(entry.Category),
			Seq:      entry.Seq,
			ChildID:  entry.ChildID,
		})
	}
	return out
}

// EventResponse is the wire view of one ledger event.
type EventResponse struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	RecordID   string         `json:"record_id"`
	IdentityID string         `json:"identity_id,omitempty"`
	Owner      string         `json:"owner,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  uint64         `json:"timestamp"`
}

// NewEventsResponse maps an event listing.
func NewEventsResponse(events []*event.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, evt := range events {
		out = append(out, EventResponse{
			ID:         evt.ID,
			Kind:       string(evt.Kind),
			RecordID:   evt.RecordID,
			IdentityID: evt.IdentityID,
			Owner:      evt.Owner,
			Payload:    evt.Payload,
			Timestamp:  evt.Timestamp,
		})
	}
	return out
}
