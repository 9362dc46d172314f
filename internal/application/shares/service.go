package shares

import (
	"context"
	"errors"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const component = "shares"

// PropertyDirectory answers existence checks against the property registry.
type PropertyDirectory interface {
	Exists(ctx context.Context, propertyID uint64) (bool, error)
}

// Service is the ShareLedger: per-property fungible share balances.
// For every property the balances sum to TotalSupply.
type Service struct {
	Runner     *database.Runner
	Events     *ledgerevents.Service
	Properties PropertyDirectory
	Admin      domain.Address
}

// Initialize binds a property's share token and credits initialHolder with the full supply.
// It runs at most once per property.
func (s *Service) Initialize(ctx context.Context, caller, nftContract domain.Address, propertyID, totalSupply uint64, initialHolder domain.Address) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	if totalSupply == 0 || totalSupply > domain.MaxAmount {
		return ErrInvalidSupply
	}
	if initialHolder.IsZero() {
		return ErrInvalidRecipient
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		ok, err := s.Properties.Exists(ctx, propertyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidPropertyID
		}
		supply, err := loadSupply(tx, propertyID)
		if err != nil {
			return err
		}
		if supply != nil {
			return ErrAlreadyInitialized
		}
		if err := tx.Create(&domain.ShareSupply{
			PropertyID:      propertyID,
			NFTContract:     nftContract,
			BoundPropertyID: propertyID,
			TotalSupply:     totalSupply,
			Initialized:     true,
		}).Error; err != nil {
			return err
		}
		if err := credit(tx, propertyID, initialHolder, totalSupply); err != nil {
			return err
		}
		if err := tx.Create(&domain.ShareTransfer{
			PropertyID: propertyID,
			Type:       domain.ShareTransferInitialize,
			Recipient:  initialHolder,
			Amount:     totalSupply,
		}).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "shares-initialized", propertyID, caller, map[string]interface{}{
			"nft_contract":   nftContract,
			"total_supply":   totalSupply,
			"initial_holder": initialHolder,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("total_supply", totalSupply).Msg("shares initialized")
	return nil
}

// Mint issues new shares to recipient, growing the total supply by the same amount.
func (s *Service) Mint(ctx context.Context, caller domain.Address, propertyID, amount uint64, recipient domain.Address) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if recipient.IsZero() {
		return ErrInvalidRecipient
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		supply, err := loadSupply(tx, propertyID)
		if err != nil {
			return err
		}
		if supply == nil || !supply.Initialized {
			return ErrNotFound
		}
		total, err := domain.AddAmount(supply.TotalSupply, amount)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.ShareSupply{}).Where("property_id = ?", propertyID).Update("total_supply", total).Error; err != nil {
			return err
		}
		if err := credit(tx, propertyID, recipient, amount); err != nil {
			return err
		}
		if err := tx.Create(&domain.ShareTransfer{
			PropertyID: propertyID,
			Type:       domain.ShareTransferMint,
			Recipient:  recipient,
			Amount:     amount,
		}).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "shares-minted", propertyID, caller, map[string]interface{}{
			"recipient":    recipient,
			"amount":       amount,
			"total_supply": total,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("amount", amount).Str("recipient", recipient.String()).Msg("shares minted")
	return nil
}

// Transfer moves amount shares of a property from sender to recipient. The caller must be sender.
func (s *Service) Transfer(ctx context.Context, caller domain.Address, propertyID, amount uint64, sender, recipient domain.Address, memo *string) error {
	if caller != sender {
		return ErrInvalidSender
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if recipient.IsZero() || recipient == sender {
		return ErrInvalidRecipient
	}
	if memo != nil && len(*memo) > MaxMemoLength {
		return ErrInvalidMemo
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		supply, err := loadSupply(tx, propertyID)
		if err != nil {
			return err
		}
		if supply == nil || !supply.Initialized {
			return ErrNotFound
		}
		balance, err := balanceOf(tx, propertyID, sender)
		if err != nil {
			return err
		}
		if balance < amount {
			return ErrInsufficientBalance
		}
		if err := tx.Model(&domain.ShareAccount{}).
			Where("property_id = ? AND holder = ?", propertyID, sender).
			Update("balance", balance-amount).Error; err != nil {
			return err
		}
		if err := credit(tx, propertyID, recipient, amount); err != nil {
			return err
		}
		if err := tx.Create(&domain.ShareTransfer{
			PropertyID: propertyID,
			Type:       domain.ShareTransferTransfer,
			Sender:     &sender,
			Recipient:  recipient,
			Amount:     amount,
			Memo:       memo,
		}).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "shares-transferred", propertyID, caller, map[string]interface{}{
			"sender":    sender,
			"recipient": recipient,
			"amount":    amount,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("amount", amount).
		Str("sender", sender.String()).Str("recipient", recipient.String()).Msg("shares transferred")
	return nil
}

// BalanceOf returns a holder's balance; unknown holders have zero.
func (s *Service) BalanceOf(ctx context.Context, propertyID uint64, holder domain.Address) (uint64, error) {
	return balanceOf(s.Runner.Conn(ctx), propertyID, holder)
}

// TotalSupply returns the circulating supply of a property's shares (zero before initialize).
func (s *Service) TotalSupply(ctx context.Context, propertyID uint64) (uint64, error) {
	supply, err := loadSupply(s.Runner.Conn(ctx), propertyID)
	if err != nil || supply == nil {
		return 0, err
	}
	return supply.TotalSupply, nil
}

// PropertySharesData returns the bound NFT reference, supply and initialized flag, or nil.
func (s *Service) PropertySharesData(ctx context.Context, propertyID uint64) (*domain.ShareSupply, error) {
	return loadSupply(s.Runner.Conn(ctx), propertyID)
}

// Holders lists accounts with a non-zero balance, largest first.
func (s *Service) Holders(ctx context.Context, propertyID uint64) ([]domain.ShareAccount, error) {
	var accounts []domain.ShareAccount
	if err := s.Runner.Conn(ctx).
		Where("property_id = ? AND balance > 0", propertyID).
		Order("balance DESC, holder ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Transfers returns the share movement history of a property, oldest first.
func (s *Service) Transfers(ctx context.Context, propertyID uint64) ([]domain.ShareTransfer, error) {
	var transfers []domain.ShareTransfer
	if err := s.Runner.Conn(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

func loadSupply(tx *gorm.DB, propertyID uint64) (*domain.ShareSupply, error) {
	var supply domain.ShareSupply
	err := tx.Where("property_id = ?", propertyID).First(&supply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supply, nil
}

func balanceOf(tx *gorm.DB, propertyID uint64, holder domain.Address) (uint64, error) {
	var account domain.ShareAccount
	err := tx.Where("property_id = ? AND holder = ?", propertyID, holder).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func credit(tx *gorm.DB, propertyID uint64, holder domain.Address, amount uint64) error {
	var account domain.ShareAccount
	err := tx.Where("property_id = ? AND holder = ?", propertyID, holder).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&domain.ShareAccount{PropertyID: propertyID, Holder: holder, Balance: amount}).Error
	}
	if err != nil {
		return err
	}
	balance, err := domain.AddAmount(account.Balance, amount)
	if err != nil {
		return err
	}
	return tx.Model(&domain.ShareAccount{}).
		Where("property_id = ? AND holder = ?", propertyID, holder).
		Update("balance", balance).Error
}
