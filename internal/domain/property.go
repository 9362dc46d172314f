package domain

import "time"

const (
	MaxLocationLength    = 256
	MaxMetadataURILength = 256
)

// Property is the tokenized real-estate unit. PropertyID is dense from 1.
type Property struct {
	PropertyID  uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	Owner       Address   `gorm:"column:owner;type:varchar(160);not null;index" json:"owner"`
	Location    string    `gorm:"column:location;type:varchar(256);not null" json:"location"`
	Valuation   uint64    `gorm:"column:valuation;not null" json:"valuation"`
	MonthlyRent uint64    `gorm:"column:monthly_rent;not null" json:"monthly_rent"`
	MetadataURI string    `gorm:"column:metadata_uri;type:varchar(256);not null" json:"metadata_uri"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// Sequence is a named monotonic counter (last property id, proposal count per property).
type Sequence struct {
	Name  string `gorm:"column:name;type:varchar(128);primaryKey" json:"name"`
	Value uint64 `gorm:"column:value;not null;default:0" json:"value"`
}

func (Sequence) TableName() string {
	return "ledger_sequences"
}
