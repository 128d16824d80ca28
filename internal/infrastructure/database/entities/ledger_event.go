package entities

import "gorm.io/datatypes"

// LedgerEvent is one append-only entry of the event stream. Rows are only
// ever inserted, inside the same transaction as the mutation they describe.
type LedgerEvent struct {
	ID         string         `gorm:"type:varchar(40);primaryKey"`
	Kind       string         `gorm:"type:varchar(48);not null;index"`
	RecordID   string         `gorm:"type:varchar(40);not null;index"`
	IdentityID string         `gorm:"type:varchar(40);index"`
	Owner      string         `gorm:"type:varchar(128)"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	Timestamp  uint64         `gorm:"not null;index"`
}

// TableName specifies the table name for LedgerEvent.
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
