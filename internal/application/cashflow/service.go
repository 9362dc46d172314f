package cashflow

import (
	"context"
	"errors"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const component = "cashflow"

type PropertyDirectory interface {
	Exists(ctx context.Context, propertyID uint64) (bool, error)
	OwnerOf(ctx context.Context, propertyID uint64) (domain.Address, error)
}

// ProposalReader resolves the proposal a CapEx spend references.
type ProposalReader interface {
	GetProposal(ctx context.Context, propertyID, proposalID uint64) (*domain.Proposal, error)
}

// Vault is the rent vault as seen by the cash-flow ledger.
type Vault interface {
	CurrentPeriodRent(ctx context.Context, propertyID uint64) (uint64, error)
	Withdraw(ctx context.Context, caller domain.Address, propertyID uint64, recipient domain.Address, amount uint64) error
}

// Service is the CashFlowLedger: operating expenses, working-capital reserve and
// CapEx per property. The reserve never goes below zero.
type Service struct {
	Runner     *database.Runner
	Events     *ledgerevents.Service
	Properties PropertyDirectory
	Proposals  ProposalReader
	Vault      Vault
	Self       domain.Address // principal the ledger withdraws from the vault as
}

// RecordOperatingExpense adds to the cumulative operating expenses. Owner only.
func (s *Service) RecordOperatingExpense(ctx context.Context, caller domain.Address, propertyID, amount uint64) error {
	return s.mutate(ctx, caller, propertyID, "operating-expense", func(ctx context.Context, tx *gorm.DB, record *domain.AccountingRecord) (map[string]interface{}, error) {
		if amount == 0 {
			return nil, ErrInvalidAmount
		}
		total, err := domain.AddAmount(record.OperatingExpenses, amount)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"operating_expenses": total}, nil
	})
}

// AllocateWorkingCapital moves amount into the working-capital reserve. Owner only.
func (s *Service) AllocateWorkingCapital(ctx context.Context, caller domain.Address, propertyID, amount uint64) error {
	return s.mutate(ctx, caller, propertyID, "reserve-allocated", func(ctx context.Context, tx *gorm.DB, record *domain.AccountingRecord) (map[string]interface{}, error) {
		if amount == 0 {
			return nil, ErrInvalidAmount
		}
		reserve, err := domain.AddAmount(record.WorkingCapitalReserve, amount)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"working_capital_reserve":     reserve,
			"last_working_capital_change": int64(amount),
		}, nil
	})
}

// ReleaseWorkingCapital returns amount from the reserve. Owner only; never beyond the reserve.
func (s *Service) ReleaseWorkingCapital(ctx context.Context, caller domain.Address, propertyID, amount uint64) error {
	return s.mutate(ctx, caller, propertyID, "reserve-released", func(ctx context.Context, tx *gorm.DB, record *domain.AccountingRecord) (map[string]interface{}, error) {
		if amount == 0 {
			return nil, ErrInvalidAmount
		}
		if amount > record.WorkingCapitalReserve {
			return nil, ErrInsufficientReserve
		}
		return map[string]interface{}{
			"working_capital_reserve":     record.WorkingCapitalReserve - amount,
			"last_working_capital_change": -int64(amount),
		}, nil
	})
}

// RecordCapex spends amount against an approved proposal, paying it out of the
// vault to the proposal's proposer. Any caller may record spend once the
// proposal is approved.
func (s *Service) RecordCapex(ctx context.Context, caller domain.Address, propertyID, amount, proposalID uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		proposal, err := s.Proposals.GetProposal(ctx, propertyID, proposalID)
		if err != nil && !isLedgerError(err) {
			return err
		}
		if err != nil || !proposal.Approved {
			return ErrProposalNotApproved
		}
		spend, err := loadSpend(tx, propertyID, proposalID)
		if err != nil {
			return err
		}
		var spent uint64
		if spend != nil {
			spent = spend.Spent
		}
		newSpent, err := domain.AddAmount(spent, amount)
		if err != nil {
			return err
		}
		if newSpent > proposal.Amount {
			return ErrExceedsApprovedAmount
		}
		record, err := loadOrCreate(tx, propertyID)
		if err != nil {
			return err
		}
		capex, err := domain.AddAmount(record.CapexSpent, amount)
		if err != nil {
			return err
		}
		if err := s.Vault.Withdraw(ctx, s.Self, propertyID, proposal.Proposer, amount); err != nil {
			return err
		}
		if spend == nil {
			err = tx.Create(&domain.CapexSpend{PropertyID: propertyID, ProposalID: proposalID, Spent: newSpent}).Error
		} else {
			err = tx.Model(&domain.CapexSpend{}).
				Where("property_id = ? AND proposal_id = ?", propertyID, proposalID).
				Update("spent", newSpent).Error
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.AccountingRecord{}).Where("property_id = ?", propertyID).Updates(map[string]interface{}{
			"capex_spent":       capex,
			"last_capex_change": amount,
		}).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "capex-recorded", propertyID, caller, map[string]interface{}{
			"proposal_id": proposalID,
			"amount":      amount,
			"capex_spent": capex,
			"recipient":   proposal.Proposer,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("proposal_id", proposalID).
		Uint64("amount", amount).Str("actor", caller.String()).Msg("capex recorded")
	return nil
}

// ResetPeriod closes the accounting period: operating expenses and the last-change
// markers restart from zero, CapEx and the reserve carry over. Owner only.
func (s *Service) ResetPeriod(ctx context.Context, caller domain.Address, propertyID uint64) error {
	err := s.mutate(ctx, caller, propertyID, "period-reset", func(ctx context.Context, tx *gorm.DB, record *domain.AccountingRecord) (map[string]interface{}, error) {
		next, err := domain.AddAmount(record.CurrentPeriod, 1)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"operating_expenses":          uint64(0),
			"last_capex_change":           uint64(0),
			"last_working_capital_change": int64(0),
			"current_period":              next,
		}, nil
	})
	if errors.Is(err, ErrNotPropertyOwner) {
		return ErrNotAuthorized
	}
	return err
}

// DistributableCashFlow is current-period vault rent minus operating expenses minus
// the working-capital reserve, floored at zero. The vault bucket is read live.
func (s *Service) DistributableCashFlow(ctx context.Context, propertyID uint64) (uint64, error) {
	rent, err := s.Vault.CurrentPeriodRent(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	record, err := load(s.Runner.Conn(ctx), propertyID)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return rent, nil
	}
	return saturatingSub(saturatingSub(rent, record.OperatingExpenses), record.WorkingCapitalReserve), nil
}

// AccountingData returns the full record, or nil when nothing was recorded.
func (s *Service) AccountingData(ctx context.Context, propertyID uint64) (*domain.AccountingRecord, error) {
	return load(s.Runner.Conn(ctx), propertyID)
}

// ProposalSpend returns the CapEx already charged against a proposal.
func (s *Service) ProposalSpend(ctx context.Context, propertyID, proposalID uint64) (uint64, error) {
	spend, err := loadSpend(s.Runner.Conn(ctx), propertyID, proposalID)
	if err != nil || spend == nil {
		return 0, err
	}
	return spend.Spent, nil
}

type mutation func(ctx context.Context, tx *gorm.DB, record *domain.AccountingRecord) (map[string]interface{}, error)

// mutate runs an owner-only update of the accounting record.
func (s *Service) mutate(ctx context.Context, caller domain.Address, propertyID uint64, eventType string, fn mutation) error {
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		exists, err := s.Properties.Exists(ctx, propertyID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrInvalidPropertyID
		}
		owner, err := s.Properties.OwnerOf(ctx, propertyID)
		if err != nil {
			return err
		}
		if owner != caller {
			return ErrNotPropertyOwner
		}
		record, err := loadOrCreate(tx, propertyID)
		if err != nil {
			return err
		}
		updates, err := fn(ctx, tx, record)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.AccountingRecord{}).Where("property_id = ?", propertyID).Updates(updates).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, eventType, propertyID, caller, updates)
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Str("event", eventType).Str("actor", caller.String()).Msg("accounting updated")
	return nil
}

func loadSpend(tx *gorm.DB, propertyID, proposalID uint64) (*domain.CapexSpend, error) {
	var row domain.CapexSpend
	err := tx.Where("property_id = ? AND proposal_id = ?", propertyID, proposalID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func load(tx *gorm.DB, propertyID uint64) (*domain.AccountingRecord, error) {
	var record domain.AccountingRecord
	err := tx.Where("property_id = ?", propertyID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func loadOrCreate(tx *gorm.DB, propertyID uint64) (*domain.AccountingRecord, error) {
	record, err := load(tx, propertyID)
	if err != nil || record != nil {
		return record, err
	}
	record = &domain.AccountingRecord{PropertyID: propertyID}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func isLedgerError(err error) bool {
	_, ok := domain.AsError(err)
	return ok
}
