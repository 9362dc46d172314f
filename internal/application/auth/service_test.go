package auth

import (
	"context"
	"testing"

	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alice = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"

func setupAuth(t *testing.T) *Service {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	return &Service{DB: db}
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupAuth(t)
	ctx := context.Background()

	acct, err := s.Register(ctx, Credentials{Address: alice, Password: "s3cret!pass"})
	require.NoError(t, err)
	assert.Equal(t, domain.Address(alice), acct.Address)
	assert.NotEqual(t, "s3cret!pass", acct.PasswordHash)

	got, err := s.Login(ctx, Credentials{Address: alice, Password: "s3cret!pass"})
	require.NoError(t, err)
	assert.Equal(t, domain.Address(alice), got.Address)
}

func TestRegister_Duplicate(t *testing.T) {
	s := setupAuth(t)
	ctx := context.Background()
	_, err := s.Register(ctx, Credentials{Address: alice, Password: "s3cret!pass"})
	require.NoError(t, err)

	_, err = s.Register(ctx, Credentials{Address: alice, Password: "other!pass1"})
	assert.Equal(t, ErrAddressTaken, err)
}

func TestRegister_Rejects(t *testing.T) {
	s := setupAuth(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Credentials{Address: "", Password: "s3cret!pass"})
	assert.Equal(t, ErrAddressPasswordRequired, err)

	_, err = s.Register(ctx, Credentials{Address: alice + ".rent-vault", Password: "s3cret!pass"})
	assert.Equal(t, ErrContractPrincipal, err)

	_, err = s.Register(ctx, Credentials{Address: "has space", Password: "s3cret!pass"})
	assert.Equal(t, ErrInvalidAddress, err)

	_, err = s.Register(ctx, Credentials{Address: alice, Password: "short"})
	assert.Equal(t, ErrWeakPassword, err)
}

func TestLogin_Failures(t *testing.T) {
	s := setupAuth(t)
	ctx := context.Background()

	_, err := s.Login(ctx, Credentials{Address: alice, Password: "s3cret!pass"})
	assert.Equal(t, ErrUnknownAccount, err)

	_, err = s.Register(ctx, Credentials{Address: alice, Password: "s3cret!pass"})
	require.NoError(t, err)
	_, err = s.Login(ctx, Credentials{Address: alice, Password: "wrong!pass1"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoAddress(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{"registered_at": "2026-01-01T00:00:00Z"})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"address":       alice,
		"registered_at": "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, alice, u.Address)
	assert.Equal(t, "2026-01-01T00:00:00Z", u.RegisteredAt)
}
