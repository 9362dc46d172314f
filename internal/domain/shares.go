package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareSupply is the per-property share token state.
type ShareSupply struct {
	PropertyID      uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	NFTContract     Address   `gorm:"column:nft_contract;type:varchar(160);not null" json:"nft_contract"`
	BoundPropertyID uint64    `gorm:"column:bound_property_id;not null" json:"bound_property_id"`
	TotalSupply     uint64    `gorm:"column:total_supply;not null;default:0" json:"total_supply"`
	Initialized     bool      `gorm:"column:initialized;not null;default:false" json:"initialized"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ShareSupply) TableName() string {
	return "share_supplies"
}

// ShareAccount is one holder's balance of one property's shares.
type ShareAccount struct {
	PropertyID uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Holder     Address   `gorm:"column:holder;type:varchar(160);primaryKey" json:"holder"`
	Balance    uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ShareAccount) TableName() string {
	return "share_accounts"
}

const (
	ShareTransferInitialize = "initialize"
	ShareTransferMint       = "mint"
	ShareTransferTransfer   = "transfer"
)

// ShareTransfer is the append-only history of share movements.
type ShareTransfer struct {
	TransferID uuid.UUID `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	PropertyID uint64    `gorm:"column:property_id;not null;index" json:"property_id"`
	Type       string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Sender     *Address  `gorm:"column:sender;type:varchar(160)" json:"sender"`
	Recipient  Address   `gorm:"column:recipient;type:varchar(160);not null" json:"recipient"`
	Amount     uint64    `gorm:"column:amount;not null" json:"amount"`
	Memo       *string   `gorm:"column:memo;type:varchar(34)" json:"memo"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ShareTransfer) TableName() string {
	return "share_transfers"
}

func (t *ShareTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.TransferID == uuid.Nil {
		t.TransferID = uuid.New()
	}
	return nil
}
