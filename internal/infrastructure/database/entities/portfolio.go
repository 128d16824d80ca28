package entities

// Portfolio represents the persisted per-identity aggregation index head.
type Portfolio struct {
	ID              string `gorm:"type:varchar(40);primaryKey"`
	IdentityID      string `gorm:"type:varchar(40);not null;uniqueIndex"`
	Owner           string `gorm:"type:varchar(128);not null;index"`
	PermissionCount uint64 `gorm:"not null;default:0"`
	MemoryCount     uint64 `gorm:"not null;default:0"`
	AutomationCount uint64 `gorm:"not null;default:0"`
	CreatedAt       uint64 `gorm:"not null"`
	UpdatedAt       uint64 `gorm:"not null"`
	LockVersion     uint   `gorm:"not null;default:0"`
}

// TableName specifies the table name for Portfolio.
func (Portfolio) TableName() string {
	return "portfolios"
}

// PortfolioEntry is one slot of a portfolio's ordered index: dense 0-based
// sequence per category.
type PortfolioEntry struct {
	ID          uint   `gorm:"primaryKey"`
	PortfolioID string `gorm:"type:varchar(40);not null;uniqueIndex:idx_portfolio_entry_seq,priority:1"`
	Category    string `gorm:"type:varchar(16);not null;uniqueIndex:idx_portfolio_entry_seq,priority:2"`
	Seq         uint64 `gorm:"not null;uniqueIndex:idx_portfolio_entry_seq,priority:3"`
	ChildID     string `gorm:"type:varchar(40);not null"`
}

// TableName specifies the table name for PortfolioEntry.
func (PortfolioEntry) TableName() string {
	return "portfolio_entries"
}
