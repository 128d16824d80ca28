package requests

import (
	"encoding/hex"

	"custodia-server/services/ledger-api/internal/domain/memory"
)

// CreateMemoryRequest records a new memory. The content hash arrives as hex;
// the bytes themselves live in the external blob store.
type CreateMemoryRequest struct {
	IdentityID  string   `json:"identity_id" binding:"required"`
	ContentType string   `json:"content_type" binding:"required"`
	Title       string   `json:"title"`
	BlobLocator string   `json:"blob_locator" binding:"required"`
	ContentHash string   `json:"content_hash" binding:"required"`
	ContentSize uint64   `json:"content_size"`
	Tags        []string `json:"tags"`
	ExpiresAt   uint64   `json:"expires_at"`
}

// ToDomain converts request to domain parameters. An unknown content type
// name or a malformed hash maps to zero values the domain layer rejects.
func (r *CreateMemoryRequest) ToDomain() memory.CreateParams {
	hash, err := hex.DecodeString(r.ContentHash)
	if err != nil {
		hash = nil
	}
	return memory.CreateParams{
		IdentityID:  r.IdentityID,
		ContentType: parseContentType(r.ContentType),
		Title:       r.Title,
		BlobLocator: r.BlobLocator,
		ContentHash: hash,
		ContentSize: r.ContentSize,
		Tags:        r.Tags,
		ExpiresAt:   r.ExpiresAt,
	}
}

func parseContentType(name string) memory.ContentType {
	switch name {
	case "text":
		return memory.ContentTypeText
	case "voice":
		return memory.ContentTypeVoice
	case "mixed":
		return memory.ContentTypeMixed
	default:
		return 0
	}
}

// UpdateMemoryAIRequest replaces a memory's AI enrichment wholesale.
type UpdateMemoryAIRequest struct {
	AISummary     *string  `json:"ai_summary"`
	AISuggestions []string `json:"ai_suggestions"`
}

// AddTagsRequest appends tags to a memory.
type AddTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}
