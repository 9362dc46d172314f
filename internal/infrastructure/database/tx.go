package database

import (
	"context"
	"errors"
	"fmt"

	"rentledger-backend/internal/domain"

	"gorm.io/gorm"
)

type txKey struct{}

// Locker serializes transactions that share a key.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Runner executes ledger operations as single serialized transactions.
type Runner struct {
	DB     *gorm.DB
	Locker Locker
}

// PropertyKey is the sequencer key of every operation touching one property.
func PropertyKey(propertyID uint64) string {
	return fmt.Sprintf("property:%d", propertyID)
}

// Conn returns the transaction bound to ctx, or the base DB.
func (r *Runner) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.DB.WithContext(ctx)
}

// InTx reports whether ctx already carries a ledger transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// Atomic runs fn in one transaction holding the sequencer lock for key. When ctx
// already carries a transaction, fn joins it and the outer lock covers it.
func (r *Runner) Atomic(ctx context.Context, key string, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx, tx)
	}
	if r.Locker != nil {
		release, err := r.Locker.Lock(ctx, key)
		if err != nil {
			return err
		}
		defer release()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx), tx)
	})
}

// NextSequence increments the named counter and returns the new value.
func NextSequence(tx *gorm.DB, name string) (uint64, error) {
	var seq domain.Sequence
	err := tx.Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, tx.Create(&domain.Sequence{Name: name, Value: 1}).Error
	}
	if err != nil {
		return 0, err
	}
	next, err := domain.AddAmount(seq.Value, 1)
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&domain.Sequence{}).Where("name = ?", name).Update("value", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// CurrentSequence returns the named counter, zero when it was never incremented.
func CurrentSequence(tx *gorm.DB, name string) (uint64, error) {
	var seq domain.Sequence
	err := tx.Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
