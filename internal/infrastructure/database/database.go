package database

import (
	"strings"

	"rentledger-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sqlitePrefix = "sqlite:"

// Open opens a GORM DB from DSN. Postgres DSNs go through the pooler-safe config;
// "sqlite:<path>" opens a local SQLite file (or ":memory:").
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return OpenSQLite(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// OpenSQLite opens SQLite with a single connection. SQLite has one writer, and an
// in-memory database exists per connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate runs migrations for every ledger model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Sequence{},
		&domain.Property{},
		&domain.ShareSupply{},
		&domain.ShareAccount{},
		&domain.ShareTransfer{},
		&domain.RentRecord{},
		&domain.PeriodRent{},
		&domain.VaultAuthorization{},
		&domain.Proposal{},
		&domain.ProposalVote{},
		&domain.AccountingRecord{},
		&domain.CapexSpend{},
		&domain.DistributorState{},
		&domain.Distribution{},
		&domain.YieldClaim{},
		&domain.SettlementBalance{},
		&domain.SettlementTransfer{},
		&domain.LedgerEvent{},
		&domain.Account{},
	)
}
