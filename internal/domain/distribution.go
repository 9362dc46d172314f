package domain

import "time"

// DistributorState holds the distributor's own period counter for a property.
type DistributorState struct {
	PropertyID    uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	CurrentPeriod uint64    `gorm:"column:current_period;not null;default:0" json:"current_period"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (DistributorState) TableName() string {
	return "distributor_states"
}

// Distribution freezes the distributable total of one (property, period).
type Distribution struct {
	PropertyID         uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Period             uint64    `gorm:"column:period;primaryKey;autoIncrement:false" json:"period"`
	TotalDistributable uint64    `gorm:"column:total_distributable;not null" json:"total_distributable"`
	TotalClaimed       uint64    `gorm:"column:total_claimed;not null;default:0" json:"total_claimed"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Distribution) TableName() string {
	return "distributions"
}

// YieldClaim is a claimant's single claim against a distribution.
type YieldClaim struct {
	PropertyID uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Period     uint64    `gorm:"column:period;primaryKey;autoIncrement:false" json:"period"`
	Claimant   Address   `gorm:"column:claimant;type:varchar(160);primaryKey" json:"claimant"`
	Amount     uint64    `gorm:"column:amount;not null" json:"amount"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (YieldClaim) TableName() string {
	return "yield_claims"
}
