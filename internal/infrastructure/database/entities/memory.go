package entities

import "gorm.io/datatypes"

// Memory represents the persisted memory record. Content bytes live in the
// external blob store; only the locator and content hash are kept here.
type Memory struct {
	ID            string         `gorm:"type:varchar(40);primaryKey"`
	IdentityID    string         `gorm:"type:varchar(40);not null;index"`
	Owner         string         `gorm:"type:varchar(128);not null;index"`
	ContentType   uint8          `gorm:"not null"`
	Title         string         `gorm:"type:varchar(256)"`
	BlobLocator   string         `gorm:"type:varchar(512);not null"`
	ContentHash   string         `gorm:"type:char(64);not null"`
	ContentSize   uint64         `gorm:"not null;default:0"`
	AISummary     *string        `gorm:"type:text"`
	AISuggestions datatypes.JSON `gorm:"type:jsonb"`
	Tags          datatypes.JSON `gorm:"type:jsonb"`
	Status        string         `gorm:"type:varchar(16);not null;index"`
	CreatedAt     uint64         `gorm:"not null"`
	UpdatedAt     uint64         `gorm:"not null"`
	ExpiresAt     uint64         `gorm:"not null;default:0"`
	LockVersion   uint           `gorm:"not null;default:0"`
}

// TableName specifies the table name for Memory.
func (Memory) TableName() string {
	return "memories"
}
