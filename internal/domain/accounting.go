package domain

import "time"

// AccountingRecord is the cash-flow ledger state for one property.
type AccountingRecord struct {
	PropertyID               uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	OperatingExpenses        uint64    `gorm:"column:operating_expenses;not null;default:0" json:"operating_expenses"`
	CapexSpent               uint64    `gorm:"column:capex_spent;not null;default:0" json:"capex_spent"`
	WorkingCapitalReserve    uint64    `gorm:"column:working_capital_reserve;not null;default:0" json:"working_capital_reserve"`
	LastCapexChange          uint64    `gorm:"column:last_capex_change;not null;default:0" json:"last_capex_change"`
	LastWorkingCapitalChange int64     `gorm:"column:last_working_capital_change;not null;default:0" json:"last_working_capital_change"`
	CurrentPeriod            uint64    `gorm:"column:current_period;not null;default:0" json:"current_period"`
	UpdatedAt                time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (AccountingRecord) TableName() string {
	return "accounting_records"
}

// CapexSpend is the cumulative CapEx charged against one approved proposal.
type CapexSpend struct {
	PropertyID uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	ProposalID uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false" json:"proposal_id"`
	Spent      uint64    `gorm:"column:spent;not null;default:0" json:"spent"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CapexSpend) TableName() string {
	return "capex_spends"
}
