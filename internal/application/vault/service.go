package vault

import (
	"context"
	"errors"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const component = "vault"

// PropertyDirectory is the slice of the registry the vault needs.
type PropertyDirectory interface {
	Exists(ctx context.Context, propertyID uint64) (bool, error)
	OwnerOf(ctx context.Context, propertyID uint64) (domain.Address, error)
}

// Settlement moves the settlement asset out of vault custody.
type Settlement interface {
	Transfer(ctx context.Context, caller domain.Address, amount uint64, from, to domain.Address, memo *string) error
}

// Service is the RentVault. It custodies deposited rent per property and tracks
// cumulative and per-period collection. Balance never goes below zero.
type Service struct {
	Runner     *database.Runner
	Events     *ledgerevents.Service
	Properties PropertyDirectory
	Settlement Settlement
	Admin      domain.Address
	Self       domain.Address // custody account of all vaulted rent
}

// SetAuthorized grants or revokes a principal's right to withdraw.
func (s *Service) SetAuthorized(ctx context.Context, caller, principal domain.Address, authorized bool) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	if principal.IsZero() {
		return ErrInvalidRecipient
	}
	return s.Runner.Atomic(ctx, "vault:authorizations", func(ctx context.Context, tx *gorm.DB) error {
		var row domain.VaultAuthorization
		err := tx.Where("principal = ?", principal).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.Create(&domain.VaultAuthorization{Principal: principal, Authorized: authorized}).Error
		} else if err == nil {
			err = tx.Model(&domain.VaultAuthorization{}).Where("principal = ?", principal).Update("authorized", authorized).Error
		}
		if err != nil {
			return err
		}
		log.Info().Str("component", component).Str("principal", principal.String()).Bool("authorized", authorized).Msg("vault authorization changed")
		return nil
	})
}

// IsAuthorized reports whether principal may withdraw from any property.
func (s *Service) IsAuthorized(ctx context.Context, principal domain.Address) (bool, error) {
	return isAuthorized(s.Runner.Conn(ctx), principal)
}

// DepositRent books rent the caller has already moved into vault custody.
func (s *Service) DepositRent(ctx context.Context, caller domain.Address, propertyID, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		ok, err := s.Properties.Exists(ctx, propertyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidPropertyID
		}
		record, err := loadRecord(tx, propertyID)
		if err != nil {
			return err
		}
		if record == nil {
			record = &domain.RentRecord{PropertyID: propertyID}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		balance, err := domain.AddAmount(record.Balance, amount)
		if err != nil {
			return err
		}
		collected, err := domain.AddAmount(record.RentCollected, amount)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.RentRecord{}).Where("property_id = ?", propertyID).Updates(map[string]interface{}{
			"balance":        balance,
			"rent_collected": collected,
		}).Error; err != nil {
			return err
		}
		periodTotal, err := addPeriodRent(tx, propertyID, record.CurrentPeriod, amount)
		if err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "rent-deposited", propertyID, caller, map[string]interface{}{
			"amount":       amount,
			"period":       record.CurrentPeriod,
			"period_total": periodTotal,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("amount", amount).Str("actor", caller.String()).Msg("rent deposited")
	return nil
}

// Withdraw pays amount out of a property's vault balance to recipient. The caller
// must own the property or be an authorized principal.
func (s *Service) Withdraw(ctx context.Context, caller domain.Address, propertyID uint64, recipient domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if recipient.IsZero() {
		return ErrInvalidRecipient
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		allowed, err := s.canWithdraw(ctx, tx, caller, propertyID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrNotAuthorizedCaller
		}
		record, err := loadRecord(tx, propertyID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPropertyNotFound
		}
		if record.Balance < amount {
			return ErrInsufficientBalance
		}
		if err := tx.Model(&domain.RentRecord{}).Where("property_id = ?", propertyID).
			Update("balance", record.Balance-amount).Error; err != nil {
			return err
		}
		if s.Settlement != nil {
			if err := s.Settlement.Transfer(ctx, s.Self, amount, s.Self, recipient, nil); err != nil {
				return err
			}
		}
		return s.Events.Record(ctx, component, "rent-withdrawn", propertyID, caller, map[string]interface{}{
			"recipient": recipient,
			"amount":    amount,
			"balance":   record.Balance - amount,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("amount", amount).
		Str("actor", caller.String()).Str("recipient", recipient.String()).Msg("vault withdrawal")
	return nil
}

// ResetPeriod advances the vault's period counter. Earlier period buckets stay readable.
func (s *Service) ResetPeriod(ctx context.Context, caller domain.Address, propertyID uint64) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	return s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		record, err := loadRecord(tx, propertyID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPropertyNotFound
		}
		next, err := domain.AddAmount(record.CurrentPeriod, 1)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.RentRecord{}).Where("property_id = ?", propertyID).Update("current_period", next).Error; err != nil {
			return err
		}
		log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("period", next).Msg("vault period reset")
		return s.Events.Record(ctx, component, "period-reset", propertyID, caller, map[string]interface{}{"period": next})
	})
}

// RentRecord returns the full record of a property, or nil when nothing was deposited.
func (s *Service) RentRecord(ctx context.Context, propertyID uint64) (*domain.RentRecord, error) {
	return loadRecord(s.Runner.Conn(ctx), propertyID)
}

func (s *Service) Balance(ctx context.Context, propertyID uint64) (uint64, error) {
	record, err := s.RentRecord(ctx, propertyID)
	if err != nil || record == nil {
		return 0, err
	}
	return record.Balance, nil
}

func (s *Service) RentCollected(ctx context.Context, propertyID uint64) (uint64, error) {
	record, err := s.RentRecord(ctx, propertyID)
	if err != nil || record == nil {
		return 0, err
	}
	return record.RentCollected, nil
}

func (s *Service) CurrentPeriod(ctx context.Context, propertyID uint64) (uint64, error) {
	record, err := s.RentRecord(ctx, propertyID)
	if err != nil || record == nil {
		return 0, err
	}
	return record.CurrentPeriod, nil
}

// RentForPeriod returns rent deposited during a historical or current period.
func (s *Service) RentForPeriod(ctx context.Context, propertyID, period uint64) (uint64, error) {
	var row domain.PeriodRent
	err := s.Runner.Conn(ctx).Where("property_id = ? AND period = ?", propertyID, period).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

// CurrentPeriodRent reads the live current-period bucket.
func (s *Service) CurrentPeriodRent(ctx context.Context, propertyID uint64) (uint64, error) {
	period, err := s.CurrentPeriod(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return s.RentForPeriod(ctx, propertyID, period)
}

func (s *Service) canWithdraw(ctx context.Context, tx *gorm.DB, caller domain.Address, propertyID uint64) (bool, error) {
	ok, err := isAuthorized(tx, caller)
	if err != nil || ok {
		return ok, err
	}
	if s.Properties == nil {
		return false, nil
	}
	exists, err := s.Properties.Exists(ctx, propertyID)
	if err != nil || !exists {
		return false, err
	}
	owner, err := s.Properties.OwnerOf(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return owner == caller, nil
}

func isAuthorized(tx *gorm.DB, principal domain.Address) (bool, error) {
	var row domain.VaultAuthorization
	err := tx.Where("principal = ?", principal).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.Authorized, nil
}

func loadRecord(tx *gorm.DB, propertyID uint64) (*domain.RentRecord, error) {
	var record domain.RentRecord
	err := tx.Where("property_id = ?", propertyID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func addPeriodRent(tx *gorm.DB, propertyID, period, amount uint64) (uint64, error) {
	var row domain.PeriodRent
	err := tx.Where("property_id = ? AND period = ?", propertyID, period).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return amount, tx.Create(&domain.PeriodRent{PropertyID: propertyID, Period: period, Amount: amount}).Error
	}
	if err != nil {
		return 0, err
	}
	total, err := domain.AddAmount(row.Amount, amount)
	if err != nil {
		return 0, err
	}
	return total, tx.Model(&domain.PeriodRent{}).
		Where("property_id = ? AND period = ?", propertyID, period).
		Update("amount", total).Error
}
