package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rentledger-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingLocker struct {
	mu    sync.Mutex
	locks []string
}

func (l *countingLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	l.locks = append(l.locks, key)
	l.mu.Unlock()
	return func() {}, nil
}

func setupRunner(t *testing.T) (*Runner, *countingLocker) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	locker := &countingLocker{}
	return &Runner{DB: db, Locker: locker}, locker
}

func TestNextSequence_StartsAtOne(t *testing.T) {
	r, _ := setupRunner(t)
	ctx := context.Background()

	var ids []uint64
	for i := 0; i < 3; i++ {
		err := r.Atomic(ctx, "registry", func(ctx context.Context, tx *gorm.DB) error {
			id, err := NextSequence(tx, "property")
			ids = append(ids, id)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	current, err := CurrentSequence(r.Conn(ctx), "property")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), current)

	other, err := CurrentSequence(r.Conn(ctx), "proposal:1")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	r, _ := setupRunner(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.Atomic(ctx, PropertyKey(1), func(ctx context.Context, tx *gorm.DB) error {
		if _, err := NextSequence(tx, "property"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	current, err := CurrentSequence(r.Conn(ctx), "property")
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestAtomic_NestedCallJoinsOuterTransaction(t *testing.T) {
	r, locker := setupRunner(t)
	ctx := context.Background()

	err := r.Atomic(ctx, PropertyKey(7), func(ctx context.Context, tx *gorm.DB) error {
		assert.True(t, InTx(ctx))
		return r.Atomic(ctx, PropertyKey(7), func(inner context.Context, innerTx *gorm.DB) error {
			assert.Same(t, tx, innerTx)
			return innerTx.Create(&domain.Sequence{Name: "nested", Value: 1}).Error
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"property:7"}, locker.locks)
	assert.False(t, InTx(ctx))
}
