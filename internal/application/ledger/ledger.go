package ledger

import (
	"context"

	"rentledger-backend/internal/application/cashflow"
	"rentledger-backend/internal/application/distributor"
	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/application/proposals"
	"rentledger-backend/internal/application/registry"
	"rentledger-backend/internal/application/settlement"
	"rentledger-backend/internal/application/shares"
	"rentledger-backend/internal/application/vault"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"gorm.io/gorm"
)

// Ledger wires the six components and the settlement asset over one store.
type Ledger struct {
	Runner      *database.Runner
	Deployer    domain.Address
	Events      *ledgerevents.Service
	Settlement  *settlement.Service
	Registry    *registry.Service
	Shares      *shares.Service
	Vault       *vault.Service
	Proposals   *proposals.Service
	CashFlow    *cashflow.Service
	Distributor *distributor.Service
}

// New builds the components. deployer is the privileged principal of every
// component; each component's own principal is "<deployer>.<contract-name>".
func New(db *gorm.DB, locker database.Locker, deployer domain.Address) *Ledger {
	runner := &database.Runner{DB: db, Locker: locker}
	events := &ledgerevents.Service{Runner: runner}

	l := &Ledger{Runner: runner, Deployer: deployer, Events: events}
	l.Settlement = &settlement.Service{Runner: runner, Admin: deployer}
	l.Registry = &registry.Service{
		Runner: runner,
		Events: events,
		Admin:  deployer,
		Self:   domain.ContractAddress(deployer, domain.ContractRegistry),
	}
	l.Shares = &shares.Service{Runner: runner, Events: events, Properties: l.Registry, Admin: deployer}
	l.Vault = &vault.Service{
		Runner:     runner,
		Events:     events,
		Properties: l.Registry,
		Settlement: l.Settlement,
		Admin:      deployer,
		Self:       domain.ContractAddress(deployer, domain.ContractVault),
	}
	l.Proposals = &proposals.Service{Runner: runner, Events: events, Properties: l.Registry, Shares: l.Shares, Admin: deployer}
	l.CashFlow = &cashflow.Service{
		Runner:     runner,
		Events:     events,
		Properties: l.Registry,
		Proposals:  l.Proposals,
		Vault:      l.Vault,
		Self:       domain.ContractAddress(deployer, domain.ContractCashFlow),
	}
	l.Distributor = &distributor.Service{
		Runner:     runner,
		Events:     events,
		Properties: l.Registry,
		CashFlow:   l.CashFlow,
		Shares:     l.Shares,
		Vault:      l.Vault,
		Self:       domain.ContractAddress(deployer, domain.ContractDistributor),
	}
	return l
}

// Bootstrap authorizes the cash-flow ledger and the distributor to withdraw
// from the vault. It is safe to run on every start.
func (l *Ledger) Bootstrap(ctx context.Context) error {
	for _, principal := range []domain.Address{l.CashFlow.Self, l.Distributor.Self} {
		if err := l.Vault.SetAuthorized(ctx, l.Deployer, principal, true); err != nil {
			return err
		}
	}
	return nil
}

// DepositRent moves amount of the caller's settlement asset into vault custody
// and books it as rent, in one transaction.
func (l *Ledger) DepositRent(ctx context.Context, caller domain.Address, propertyID, amount uint64) error {
	return l.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := l.Vault.DepositRent(ctx, caller, propertyID, amount); err != nil {
			return err
		}
		return l.Settlement.Transfer(ctx, caller, amount, caller, l.Vault.Self, nil)
	})
}
