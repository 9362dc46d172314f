package shares_test

import (
	"context"
	"strings"
	"testing"

	"rentledger-backend/internal/application/ledger"
	"rentledger-backend/internal/application/registry"
	"rentledger-backend/internal/application/shares"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"
	"rentledger-backend/internal/infrastructure/sequencer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	deployer = domain.Address("ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM")
	owner    = domain.Address("ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG")
	holderB  = domain.Address("ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC")
	holderC  = domain.Address("ST3AM1A56AK2C1XAFJ4115ZSV26EB49BVQ10MGCS0")
)

func setupShares(t *testing.T) (*ledger.Ledger, uint64) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	l := ledger.New(db, sequencer.NewLocal(), deployer)
	id, err := l.Registry.Mint(context.Background(), deployer, registry.MintInput{
		Owner:       owner,
		Location:    "4 Rue de Rivoli, Paris",
		Valuation:   500000,
		MonthlyRent: 3000,
		MetadataURI: "ipfs://bafy-rivoli-4",
	})
	require.NoError(t, err)
	return l, id
}

func assertConserved(t *testing.T, s *shares.Service, propertyID uint64) {
	t.Helper()
	ctx := context.Background()
	holders, err := s.Holders(ctx, propertyID)
	require.NoError(t, err)
	var sum uint64
	for _, h := range holders {
		sum += h.Balance
	}
	supply, err := s.TotalSupply(ctx, propertyID)
	require.NoError(t, err)
	assert.Equal(t, supply, sum)
}

func TestInitialize(t *testing.T) {
	l, id := setupShares(t)
	s := l.Shares
	ctx := context.Background()

	assert.ErrorIs(t, s.Initialize(ctx, owner, l.Registry.Self, id, 1_000_000, owner), shares.ErrNotAuthorized)
	assert.ErrorIs(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 0, owner), shares.ErrInvalidSupply)
	assert.ErrorIs(t, s.Initialize(ctx, deployer, l.Registry.Self, 77, 100, owner), shares.ErrInvalidPropertyID)

	require.NoError(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 1_000_000, owner))
	assert.ErrorIs(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 5, holderB), shares.ErrAlreadyInitialized)

	data, err := s.PropertySharesData(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.True(t, data.Initialized)
	assert.Equal(t, l.Registry.Self, data.NFTContract)
	assert.Equal(t, id, data.BoundPropertyID)

	balance, err := s.BalanceOf(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), balance)
}

func TestBalanceOf_UnknownHolderIsZero(t *testing.T) {
	l, id := setupShares(t)
	balance, err := l.Shares.BalanceOf(context.Background(), id, holderC)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestMint(t *testing.T) {
	l, id := setupShares(t)
	s := l.Shares
	ctx := context.Background()

	assert.ErrorIs(t, s.Mint(ctx, deployer, id, 10, holderB), shares.ErrNotFound)
	require.NoError(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 1_000_000, owner))
	assert.ErrorIs(t, s.Mint(ctx, owner, id, 10, holderB), shares.ErrNotAuthorized)

	require.NoError(t, s.Mint(ctx, deployer, id, 250_000, holderB))
	supply, err := s.TotalSupply(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_250_000), supply)
	assertConserved(t, s, id)

	assert.ErrorIs(t, s.Mint(ctx, deployer, id, domain.MaxAmount, holderB), domain.ErrAmountOverflow)
}

func TestTransfer_ReferenceScenario(t *testing.T) {
	l, id := setupShares(t)
	s := l.Shares
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 1_000_000, owner))

	require.NoError(t, s.Transfer(ctx, owner, id, 100_000, owner, holderB, nil))

	a, err := s.BalanceOf(ctx, id, owner)
	require.NoError(t, err)
	b, err := s.BalanceOf(ctx, id, holderB)
	require.NoError(t, err)
	supply, err := s.TotalSupply(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(900_000), a)
	assert.Equal(t, uint64(100_000), b)
	assert.Equal(t, uint64(1_000_000), supply)
}

func TestTransfer_Rejections(t *testing.T) {
	l, id := setupShares(t)
	s := l.Shares
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 1000, owner))

	long := strings.Repeat("m", shares.MaxMemoLength+1)
	assert.ErrorIs(t, s.Transfer(ctx, holderB, id, 10, owner, holderB, nil), shares.ErrInvalidSender)
	assert.ErrorIs(t, s.Transfer(ctx, owner, id, 0, owner, holderB, nil), shares.ErrInvalidAmount)
	assert.ErrorIs(t, s.Transfer(ctx, owner, id, 10, owner, owner, nil), shares.ErrInvalidRecipient)
	assert.ErrorIs(t, s.Transfer(ctx, owner, id, 10, owner, holderB, &long), shares.ErrInvalidMemo)
	assert.ErrorIs(t, s.Transfer(ctx, owner, id, 1001, owner, holderB, nil), shares.ErrInsufficientBalance)
	assert.ErrorIs(t, s.Transfer(ctx, owner, id+1, 10, owner, holderB, nil), shares.ErrNotFound)

	balance, err := s.BalanceOf(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balance)
}

func TestTransfer_ConservesSupply(t *testing.T) {
	l, id := setupShares(t)
	s := l.Shares
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx, deployer, l.Registry.Self, id, 1_000_000, owner))

	steps := []struct {
		from, to domain.Address
		amount   uint64
	}{
		{owner, holderB, 300_000},
		{holderB, holderC, 120_000},
		{owner, holderC, 1},
		{holderC, owner, 60_000},
		{holderB, owner, 180_000},
	}
	for _, st := range steps {
		require.NoError(t, s.Transfer(ctx, st.from, id, st.amount, st.from, st.to, nil))
		assertConserved(t, s, id)
	}
	require.NoError(t, s.Mint(ctx, deployer, id, 5, holderB))
	assertConserved(t, s, id)

	history, err := s.Transfers(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, len(steps)+2)
}
