package domain

import "time"

// Account is a principal that can log in to the API.
type Account struct {
	Address      Address   `gorm:"column:address;type:varchar(160);primaryKey" json:"address"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
