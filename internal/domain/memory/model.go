package memory

// ContentType tags the kind of content a memory references.
type ContentType uint8

const (
	ContentTypeText  ContentType = 1
	ContentTypeVoice ContentType = 2
	ContentTypeMixed ContentType = 3
)

// Valid reports whether the tag is one of the known content types.
func (c ContentType) Valid() bool {
	return c >= ContentTypeText && c <= ContentTypeMixed
}

// String returns the human readable name of the content type.
func (c ContentType) String() string {
	switch c {
	case ContentTypeText:
		return "text"
	case ContentTypeVoice:
		return "voice"
	case ContentTypeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MemoryStatus is the two-state lifecycle of a memory record.
type MemoryStatus string

const (
	StatusActive   MemoryStatus = "active"
	StatusArchived MemoryStatus = "archived"
)

// ContentHashSize is the required content hash length in bytes.
const ContentHashSize = 32

// Memory is an owned content artifact. The bytes themselves live in an
// external blob store; the ledger holds only the locator and content hash.
type Memory struct {
	ID            string       `json:"id"`
	IdentityID    string       `json:"identity_id"`
	Owner         string       `json:"owner"`
	ContentType   ContentType  `json:"content_type"`
	Title         string       `json:"title"`
	BlobLocator   string       `json:"blob_locator"`
	ContentHash   []byte       `json:"content_hash"`
	ContentSize   uint64       `json:"content_size"`
	AISummary     *string      `json:"ai_summary,omitempty"`
	AISuggestions []string     `json:"ai_suggestions"`
	Tags          []string     `json:"tags"`
	Status        MemoryStatus `json:"status"`
	CreatedAt     uint64       `json:"created_at"`
	UpdatedAt     uint64       `json:"updated_at"`
	ExpiresAt     uint64       `json:"expires_at"`

	Version uint `json:"-"`
}

// Expired reports whether the memory has passed its expiry.
// expires_at == 0 means the memory never expires.
func (m *Memory) Expired(now uint64) bool {
	if m.ExpiresAt == 0 {
		return false
	}
	return now > m.ExpiresAt
}
