package auth

import (
	"context"
	"errors"
	"strings"

	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credentials is the register and login request body.
type Credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	Address      string `json:"address"`
	RegisteredAt string `json:"registered_at"`
}

// Accounts abstracts account registration and login (GORM in production, doubles in tests).
type Accounts interface {
	Register(ctx context.Context, in Credentials) (*domain.Account, error)
	Login(ctx context.Context, in Credentials) (*domain.Account, error)
}

// Service stores accounts with bcrypt password hashes.
type Service struct {
	DB *gorm.DB
}

func (s *Service) Register(ctx context.Context, in Credentials) (*domain.Account, error) {
	addr, err := checkAddress(in)
	if err != nil {
		return nil, err
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acct := &domain.Account{Address: addr, PasswordHash: string(hash)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Account
		err := tx.Where("address = ?", addr).First(&existing).Error
		if err == nil {
			return ErrAddressTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(acct).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("address", addr.String()).Msg("account registered")
	return acct, nil
}

// Login finds the account by address and verifies the password.
func (s *Service) Login(ctx context.Context, in Credentials) (*domain.Account, error) {
	addr, err := checkAddress(in)
	if err != nil {
		return nil, err
	}
	var acct domain.Account
	if err := s.DB.WithContext(ctx).Where("address = ?", addr).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, err
	}
	if acct.PasswordHash == "" {
		return nil, ErrUnknownAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &acct, nil
}

func checkAddress(in Credentials) (domain.Address, error) {
	addr := domain.Address(strings.TrimSpace(in.Address))
	if addr.IsZero() || in.Password == "" {
		return "", ErrAddressPasswordRequired
	}
	if !validation.IsValidAddress(addr.String()) {
		return "", ErrInvalidAddress
	}
	if addr.IsContract() {
		return "", ErrContractPrincipal
	}
	return addr, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	addr, _ := m["address"].(string)
	if addr == "" {
		return nil, ErrNotAuthenticated
	}
	registered, _ := m["registered_at"].(string)
	return &SessionUserShape{Address: addr, RegisteredAt: registered}, nil
}
