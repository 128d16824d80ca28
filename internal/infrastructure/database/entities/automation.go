package entities

// Automation represents the persisted automation record.
type Automation struct {
	ID                string  `gorm:"type:varchar(40);primaryKey"`
	IdentityID        string  `gorm:"type:varchar(40);not null;index"`
	Owner             string  `gorm:"type:varchar(128);not null;index"`
	AutomationType    uint8   `gorm:"not null"`
	Title             string  `gorm:"type:varchar(256)"`
	Description       string  `gorm:"type:text"`
	TriggerAt         uint64  `gorm:"not null"`
	RecurrencePattern *string `gorm:"type:varchar(128)"`
	Status            string  `gorm:"type:varchar(16);not null;index:idx_automation_status"`
	ExecutionCount    uint64  `gorm:"not null;default:0"`
	LastExecutedAt    *uint64
	CreatedAt         uint64 `gorm:"not null"`
	UpdatedAt         uint64 `gorm:"not null"`
	LockVersion       uint   `gorm:"not null;default:0"`
}

// TableName specifies the table name for Automation.
func (Automation) TableName() string {
	return "automations"
}
