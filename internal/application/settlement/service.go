package settlement

import (
	"context"
	"errors"

	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lockKey = "settlement"

// Service is the settlement-asset ledger the vault pays out of. Mint is the landing
// point of bridged funds; everything else is a transfer between accounts.
type Service struct {
	Runner *database.Runner
	Admin  domain.Address
}

// Mint credits newly bridged settlement asset to an account.
func (s *Service) Mint(ctx context.Context, caller, to domain.Address, amount uint64) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	if amount == 0 || amount > domain.MaxAmount {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidRecipient
	}
	err := s.Runner.Atomic(ctx, lockKey, func(ctx context.Context, tx *gorm.DB) error {
		if err := creditAccount(tx, to, amount); err != nil {
			return err
		}
		return tx.Create(&domain.SettlementTransfer{To: to, Amount: amount}).Error
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", "settlement").Str("to", to.String()).Uint64("amount", amount).Msg("settlement minted")
	return nil
}

// Transfer moves amount from `from` to `to`. The caller must be `from`; contracts
// pass their own principal when paying out of custody.
func (s *Service) Transfer(ctx context.Context, caller domain.Address, amount uint64, from, to domain.Address, memo *string) error {
	if caller != from {
		return ErrInvalidSender
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() || to == from {
		return ErrInvalidRecipient
	}
	return s.Runner.Atomic(ctx, lockKey, func(ctx context.Context, tx *gorm.DB) error {
		res := tx.Model(&domain.SettlementBalance{}).
			Where("account = ? AND balance >= ?", from, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		if err := creditAccount(tx, to, amount); err != nil {
			return err
		}
		return tx.Create(&domain.SettlementTransfer{From: &from, To: to, Amount: amount, Memo: memo}).Error
	})
}

// BalanceOf returns an account's settlement balance.
func (s *Service) BalanceOf(ctx context.Context, account domain.Address) (uint64, error) {
	var row domain.SettlementBalance
	err := s.Runner.Conn(ctx).Where("account = ?", account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Balance, nil
}

// History returns the transfers into or out of an account, newest first.
func (s *Service) History(ctx context.Context, account domain.Address) ([]domain.SettlementTransfer, error) {
	var transfers []domain.SettlementTransfer
	if err := s.Runner.Conn(ctx).
		Where("from_account = ? OR to_account = ?", account, account).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

func creditAccount(tx *gorm.DB, account domain.Address, amount uint64) error {
	var row domain.SettlementBalance
	err := tx.Where("account = ?", account).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := domain.AddAmount(row.Balance, amount); err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("settlement_balances.balance + ?", amount)}),
	}).Create(&domain.SettlementBalance{Account: account, Balance: amount}).Error
}
