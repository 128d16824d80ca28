package entities

// Identity represents the persisted identity record. Ledger timestamps are
// trusted-clock milliseconds, not database times.
type Identity struct {
	ID          string  `gorm:"type:varchar(40);primaryKey"`
	Owner       string  `gorm:"type:varchar(128);not null;index"`
	Provider    string  `gorm:"type:varchar(64);not null"`
	ProviderID  string  `gorm:"type:varchar(128);not null"`
	Email       *string `gorm:"type:varchar(256)"`
	FullName    *string `gorm:"type:varchar(256)"`
	IsVerified  bool    `gorm:"not null;default:false"`
	CreatedAt   uint64  `gorm:"not null"`
	UpdatedAt   uint64  `gorm:"not null"`
	LockVersion uint    `gorm:"not null;default:0"`
}

// TableName specifies the table name for Identity.
func (Identity) TableName() string {
	return "identities"
}
