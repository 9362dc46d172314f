package domain

import "time"

// RentRecord is the vault's custody and collection state for one property.
type RentRecord struct {
	PropertyID    uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Balance       uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	RentCollected uint64    `gorm:"column:rent_collected;not null;default:0" json:"rent_collected"`
	CurrentPeriod uint64    `gorm:"column:current_period;not null;default:0" json:"current_period"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (RentRecord) TableName() string {
	return "rent_records"
}

// PeriodRent is rent deposited for one property during one vault period.
type PeriodRent struct {
	PropertyID uint64 `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Period     uint64 `gorm:"column:period;primaryKey;autoIncrement:false" json:"period"`
	Amount     uint64 `gorm:"column:amount;not null;default:0" json:"amount"`
}

func (PeriodRent) TableName() string {
	return "period_rents"
}

// VaultAuthorization grants a principal the right to withdraw from any property's vault balance.
type VaultAuthorization struct {
	Principal  Address   `gorm:"column:principal;type:varchar(160);primaryKey" json:"principal"`
	Authorized bool      `gorm:"column:authorized;not null" json:"authorized"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (VaultAuthorization) TableName() string {
	return "vault_authorizations"
}
