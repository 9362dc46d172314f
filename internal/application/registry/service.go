package registry

import (
	"context"
	"errors"
	"strings"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	component   = "registry"
	sequenceKey = "property"
	lockKey     = "registry"
)

// Service is the PropertyRegistry: property identity, owner, valuation and rent schedule.
type Service struct {
	Runner *database.Runner
	Events *ledgerevents.Service
	Admin  domain.Address // deployer; the only principal allowed to mint
	Self   domain.Address // the registry's own contract principal
}

// MintInput carries the fields of a new property.
type MintInput struct {
	Owner       domain.Address
	Location    string
	Valuation   uint64
	MonthlyRent uint64
	MetadataURI string
}

// Mint registers a property and returns its id (dense, starting at 1).
func (s *Service) Mint(ctx context.Context, caller domain.Address, in MintInput) (uint64, error) {
	if caller != s.Admin {
		return 0, ErrNotAuthorized
	}
	if in.Owner.IsZero() || in.Owner == s.Self {
		return 0, ErrInvalidOwner
	}
	if strings.TrimSpace(in.Location) == "" || len(in.Location) > domain.MaxLocationLength {
		return 0, ErrInvalidLocation
	}
	if in.Valuation == 0 || in.Valuation > domain.MaxAmount {
		return 0, ErrInvalidValuation
	}
	if in.MonthlyRent == 0 || in.MonthlyRent > domain.MaxAmount {
		return 0, ErrInvalidRent
	}
	if strings.TrimSpace(in.MetadataURI) == "" || len(in.MetadataURI) > domain.MaxMetadataURILength {
		return 0, ErrInvalidMetadataURI
	}

	var id uint64
	err := s.Runner.Atomic(ctx, lockKey, func(ctx context.Context, tx *gorm.DB) error {
		next, err := database.NextSequence(tx, sequenceKey)
		if err != nil {
			return err
		}
		property := domain.Property{
			PropertyID:  next,
			Owner:       in.Owner,
			Location:    in.Location,
			Valuation:   in.Valuation,
			MonthlyRent: in.MonthlyRent,
			MetadataURI: in.MetadataURI,
		}
		if err := tx.Create(&property).Error; err != nil {
			return err
		}
		id = next
		return s.Events.Record(ctx, component, "property-minted", next, caller, map[string]interface{}{
			"owner":        in.Owner,
			"valuation":    in.Valuation,
			"monthly_rent": in.MonthlyRent,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", component).Uint64("property_id", id).Str("owner", in.Owner.String()).Msg("property minted")
	return id, nil
}

// Transfer moves ownership of a property from `from` to `to`. The caller must be `from`.
func (s *Service) Transfer(ctx context.Context, caller domain.Address, propertyID uint64, from, to domain.Address) error {
	if caller != from {
		return ErrNotAuthorized
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		property, err := s.load(tx, propertyID)
		if errors.Is(err, ErrNotFound) {
			return ErrPropertyNotExists
		}
		if err != nil {
			return err
		}
		if to.IsZero() || to == s.Self || to == from {
			return ErrInvalidRecipient
		}
		if property.Owner != from {
			return ErrNotTokenOwner
		}
		if err := tx.Model(&domain.Property{}).Where("property_id = ?", propertyID).Update("owner", to).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "property-transferred", propertyID, caller, map[string]interface{}{
			"from": from,
			"to":   to,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Str("from", from.String()).Str("to", to.String()).Msg("property transferred")
	return nil
}

// GetProperty returns a property or ErrNotFound.
func (s *Service) GetProperty(ctx context.Context, propertyID uint64) (*domain.Property, error) {
	return s.load(s.Runner.Conn(ctx), propertyID)
}

// OwnerOf returns the current owner of a property or ErrNotFound.
func (s *Service) OwnerOf(ctx context.Context, propertyID uint64) (domain.Address, error) {
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return "", err
	}
	return property.Owner, nil
}

// Exists reports whether propertyID was minted.
func (s *Service) Exists(ctx context.Context, propertyID uint64) (bool, error) {
	if propertyID == 0 {
		return false, nil
	}
	last, err := s.LastTokenID(ctx)
	if err != nil {
		return false, err
	}
	return propertyID <= last, nil
}

// LastTokenID returns the highest minted property id (0 before the first mint).
func (s *Service) LastTokenID(ctx context.Context) (uint64, error) {
	return database.CurrentSequence(s.Runner.Conn(ctx), sequenceKey)
}

// TokenURI returns the metadata pointer of a property.
func (s *Service) TokenURI(ctx context.Context, propertyID uint64) (string, error) {
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return "", err
	}
	return property.MetadataURI, nil
}

// List returns all properties, or only those held by owner when it is set.
func (s *Service) List(ctx context.Context, owner domain.Address) ([]domain.Property, error) {
	q := s.Runner.Conn(ctx).Order("property_id ASC")
	if !owner.IsZero() {
		q = q.Where("owner = ?", owner)
	}
	var properties []domain.Property
	if err := q.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *Service) load(tx *gorm.DB, propertyID uint64) (*domain.Property, error) {
	var property domain.Property
	if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}
