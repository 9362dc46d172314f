package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementBalance is an account's balance of the settlement asset.
type SettlementBalance struct {
	Account   Address   `gorm:"column:account;type:varchar(160);primaryKey" json:"account"`
	Balance   uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SettlementBalance) TableName() string {
	return "settlement_balances"
}

// SettlementTransfer records one settlement-asset movement. From is nil for mints.
type SettlementTransfer struct {
	TransferID uuid.UUID `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	From       *Address  `gorm:"column:from_account;type:varchar(160);index" json:"from"`
	To         Address   `gorm:"column:to_account;type:varchar(160);not null;index" json:"to"`
	Amount     uint64    `gorm:"column:amount;not null" json:"amount"`
	Memo       *string   `gorm:"column:memo;type:varchar(34)" json:"memo"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SettlementTransfer) TableName() string {
	return "settlement_transfers"
}

func (t *SettlementTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.TransferID == uuid.Nil {
		t.TransferID = uuid.New()
	}
	return nil
}
