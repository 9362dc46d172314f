package distributor

import (
	"context"
	"errors"
	"math/big"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const component = "distributor"

type PropertyDirectory interface {
	Exists(ctx context.Context, propertyID uint64) (bool, error)
	OwnerOf(ctx context.Context, propertyID uint64) (domain.Address, error)
}

type CashFlow interface {
	DistributableCashFlow(ctx context.Context, propertyID uint64) (uint64, error)
}

type ShareBalances interface {
	BalanceOf(ctx context.Context, propertyID uint64, holder domain.Address) (uint64, error)
	TotalSupply(ctx context.Context, propertyID uint64) (uint64, error)
}

// Vault pays claims out of the property's rent custody.
type Vault interface {
	Withdraw(ctx context.Context, caller domain.Address, propertyID uint64, recipient domain.Address, amount uint64) error
}

// Service is the YieldDistributor. A period is distributed at most once and the
// sum of claims against a distribution never exceeds its frozen total.
type Service struct {
	Runner     *database.Runner
	Events     *ledgerevents.Service
	Properties PropertyDirectory
	CashFlow   CashFlow
	Shares     ShareBalances
	Vault      Vault
	Self       domain.Address
}

// DistributeYield freezes the current distributable cash flow into a
// distribution for the distributor's current period. Owner only.
func (s *Service) DistributeYield(ctx context.Context, caller domain.Address, propertyID uint64) (*domain.Distribution, error) {
	var dist *domain.Distribution
	err := s.ownerAtomic(ctx, caller, propertyID, func(ctx context.Context, tx *gorm.DB) error {
		period, err := currentPeriod(tx, propertyID)
		if err != nil {
			return err
		}
		amount, err := s.CashFlow.DistributableCashFlow(ctx, propertyID)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNoDistributable
		}
		existing, err := loadDistribution(tx, propertyID, period)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyDistributed
		}
		dist = &domain.Distribution{PropertyID: propertyID, Period: period, TotalDistributable: amount}
		if err := tx.Create(dist).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "yield-distributed", propertyID, caller, map[string]interface{}{
			"period": period,
			"amount": amount,
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("period", dist.Period).
		Uint64("amount", dist.TotalDistributable).Str("actor", caller.String()).Msg("yield distributed")
	return dist, nil
}

// ClaimYield pays the caller's pro-rata share of a distribution out of the vault.
func (s *Service) ClaimYield(ctx context.Context, caller domain.Address, propertyID, period uint64) (uint64, error) {
	if propertyID == 0 {
		return 0, ErrInvalidPropertyID
	}
	var amount uint64
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.checkProperty(ctx, propertyID); err != nil {
			return err
		}
		dist, err := loadDistribution(tx, propertyID, period)
		if err != nil {
			return err
		}
		if dist == nil {
			return ErrDistributionNotFound
		}
		claim, err := loadClaim(tx, propertyID, period, caller)
		if err != nil {
			return err
		}
		if claim != nil {
			return ErrAlreadyClaimed
		}
		amount, err = s.claimable(ctx, dist, caller)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNothingToClaim
		}
		if err := s.Vault.Withdraw(ctx, s.Self, propertyID, caller, amount); err != nil {
			return err
		}
		if err := tx.Create(&domain.YieldClaim{PropertyID: propertyID, Period: period, Claimant: caller, Amount: amount}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Distribution{}).
			Where("property_id = ? AND period = ?", propertyID, period).
			Update("total_claimed", dist.TotalClaimed+amount).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "yield-claimed", propertyID, caller, map[string]interface{}{
			"period": period,
			"amount": amount,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("period", period).
		Uint64("amount", amount).Str("actor", caller.String()).Msg("yield claimed")
	return amount, nil
}

// GetClaimableYield is the read-only claim computation. It is zero when the period
// was never distributed or user already claimed.
func (s *Service) GetClaimableYield(ctx context.Context, propertyID, period uint64, user domain.Address) (uint64, error) {
	if user.IsContract() {
		return 0, ErrInvalidUser
	}
	tx := s.Runner.Conn(ctx)
	dist, err := loadDistribution(tx, propertyID, period)
	if err != nil || dist == nil {
		return 0, err
	}
	claim, err := loadClaim(tx, propertyID, period, user)
	if err != nil || claim != nil {
		return 0, err
	}
	return s.claimable(ctx, dist, user)
}

// ResetDistributionPeriod advances the distributor's own period counter. Owner only.
func (s *Service) ResetDistributionPeriod(ctx context.Context, caller domain.Address, propertyID uint64) (uint64, error) {
	var next uint64
	err := s.ownerAtomic(ctx, caller, propertyID, func(ctx context.Context, tx *gorm.DB) error {
		var state domain.DistributorState
		err := tx.Where("property_id = ?", propertyID).First(&state).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			next = 1
			err = tx.Create(&domain.DistributorState{PropertyID: propertyID, CurrentPeriod: next}).Error
		case err == nil:
			if next, err = domain.AddAmount(state.CurrentPeriod, 1); err != nil {
				return err
			}
			err = tx.Model(&domain.DistributorState{}).Where("property_id = ?", propertyID).Update("current_period", next).Error
		}
		if err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "period-reset", propertyID, caller, map[string]interface{}{"period": next})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("period", next).Msg("distribution period reset")
	return next, nil
}

// GetDistribution returns the distribution of a period or ErrDistributionNotFound.
func (s *Service) GetDistribution(ctx context.Context, propertyID, period uint64) (*domain.Distribution, error) {
	dist, err := loadDistribution(s.Runner.Conn(ctx), propertyID, period)
	if err != nil {
		return nil, err
	}
	if dist == nil {
		return nil, ErrDistributionNotFound
	}
	return dist, nil
}

func (s *Service) HasClaimed(ctx context.Context, propertyID, period uint64, user domain.Address) (bool, error) {
	claim, err := loadClaim(s.Runner.Conn(ctx), propertyID, period, user)
	return claim != nil, err
}

func (s *Service) ClaimedAmount(ctx context.Context, propertyID, period uint64, user domain.Address) (uint64, error) {
	claim, err := loadClaim(s.Runner.Conn(ctx), propertyID, period, user)
	if err != nil || claim == nil {
		return 0, err
	}
	return claim.Amount, nil
}

func (s *Service) CurrentPeriod(ctx context.Context, propertyID uint64) (uint64, error) {
	return currentPeriod(s.Runner.Conn(ctx), propertyID)
}

// claimable is floor(total * balance / supply), capped at what is left unclaimed.
func (s *Service) claimable(ctx context.Context, dist *domain.Distribution, holder domain.Address) (uint64, error) {
	supply, err := s.Shares.TotalSupply(ctx, dist.PropertyID)
	if err != nil || supply == 0 {
		return 0, err
	}
	balance, err := s.Shares.BalanceOf(ctx, dist.PropertyID, holder)
	if err != nil || balance == 0 {
		return 0, err
	}
	share, _ := toDecimal(dist.TotalDistributable).Mul(toDecimal(balance)).QuoRem(toDecimal(supply), 0)
	amount := share.BigInt().Uint64()
	if remaining := dist.TotalDistributable - dist.TotalClaimed; amount > remaining {
		amount = remaining
	}
	return amount, nil
}

func (s *Service) ownerAtomic(ctx context.Context, caller domain.Address, propertyID uint64, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	return s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.checkProperty(ctx, propertyID); err != nil {
			return err
		}
		owner, err := s.Properties.OwnerOf(ctx, propertyID)
		if err != nil {
			return err
		}
		if owner != caller {
			return ErrNotPropertyOwner
		}
		return fn(ctx, tx)
	})
}

func (s *Service) checkProperty(ctx context.Context, propertyID uint64) error {
	ok, err := s.Properties.Exists(ctx, propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidPropertyID
	}
	return nil
}

func toDecimal(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func currentPeriod(tx *gorm.DB, propertyID uint64) (uint64, error) {
	var state domain.DistributorState
	err := tx.Where("property_id = ?", propertyID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.CurrentPeriod, nil
}

func loadDistribution(tx *gorm.DB, propertyID, period uint64) (*domain.Distribution, error) {
	var dist domain.Distribution
	err := tx.Where("property_id = ? AND period = ?", propertyID, period).First(&dist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

func loadClaim(tx *gorm.DB, propertyID, period uint64, claimant domain.Address) (*domain.YieldClaim, error) {
	var claim domain.YieldClaim
	err := tx.Where("property_id = ? AND period = ? AND claimant = ?", propertyID, period, claimant).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}
