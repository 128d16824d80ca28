package entities

import "gorm.io/datatypes"

// Permission represents the persisted permission grant.
type Permission struct {
	ID              string         `gorm:"type:varchar(40);primaryKey"`
	IdentityID      string         `gorm:"type:varchar(40);not null;index"`
	Owner           string         `gorm:"type:varchar(128);not null;index"`
	AppName         string         `gorm:"type:varchar(128);not null"`
	AppID           string         `gorm:"type:varchar(128);not null"`
	Scopes          datatypes.JSON `gorm:"type:jsonb"`
	AccessTokenHash string         `gorm:"type:varchar(128)"`
	ExpiresAt       uint64         `gorm:"not null;default:0"`
	CreatedAt       uint64         `gorm:"not null"`
	LastUsedAt      uint64         `gorm:"not null"`
	IsActive        bool           `gorm:"not null;default:true;index"`
	LockVersion     uint           `gorm:"not null;default:0"`
}

// TableName specifies the table name for Permission.
func (Permission) TableName() string {
	return "permissions"
}
