package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerEvent is the append-only log of committed ledger mutations.
type LedgerEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	Component  string         `gorm:"column:component;type:varchar(40);not null" json:"component"`
	EventType  string         `gorm:"column:event_type;type:varchar(60);not null" json:"event_type"`
	PropertyID uint64         `gorm:"column:property_id;not null;index" json:"property_id"`
	Actor      Address        `gorm:"column:actor;type:varchar(160);not null" json:"actor"`
	EventData  datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt  time.Time      `gorm:"column:created_at;index" json:"created_at"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

func (e *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
