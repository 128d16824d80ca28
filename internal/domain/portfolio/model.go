package portfolio

// Category selects one of the portfolio's three ordered indices.
type Category string

const (
	CategoryPermission Category = "permission"
	CategoryMemory     Category = "memory"
	CategoryAutomation Category = "automation"
)

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	return c == CategoryPermission || c == CategoryMemory || c == CategoryAutomation
}

// Portfolio aggregates ordered references to one identity's permissions,
// memories and automations. Counts only ever grow: each equals the number
// of successful add operations for its category.
type Portfolio struct {
	ID              string `json:"id"`
	IdentityID      string `json:"identity_id"`
	Owner           string `json:"owner"`
	PermissionCount uint64 `json:"permission_count"`
	MemoryCount     uint64 `json:"memory_count"`
	AutomationCount uint64 `json:"automation_count"`
	CreatedAt       uint64 `json:"created_at"`
	UpdatedAt       uint64 `json:"updated_at"`

	Version uint `json:"-"`
}

// Entry is one slot of an ordered index: child id keyed by a dense 0-based
// sequence within its category.
type Entry struct {
	Category Category `json:"category"`
	Seq      uint64   `json:"seq"`
	ChildID  string   `json:"child_id"`
}

// Count returns the running count for a category.
func (p *Portfolio) Count(category Category) uint64 {
	switch category {
	case CategoryPermission:
		return p.PermissionCount
	case CategoryMemory:
		return p.MemoryCount
	case CategoryAutomation:
		return p.AutomationCount
	default:
		return 0
	}
}

func (p *Portfolio) bumpCount(category Category) {
	switch category {
	case CategoryPermission:
		p.PermissionCount++
	case CategoryMemory:
		p.MemoryCount++
	case CategoryAutomation:
		p.AutomationCount++
	}
}
