package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockPrefix = "ledger:lock:"

// ErrBusy is returned when a key stays locked past the retry budget.
var ErrBusy = errors.New("ledger is busy, retry the transaction")

// Redis orders transactions per key across API instances with redislock.
type Redis struct {
	locker  *redislock.Client
	ttl     time.Duration
	backoff time.Duration
	retries int
}

// NewRedis builds a Redis sequencer. ttl bounds how long a crashed holder can block a key.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{
		locker:  redislock.New(rdb),
		ttl:     ttl,
		backoff: 25 * time.Millisecond,
		retries: int(ttl / (25 * time.Millisecond)),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := r.locker.Obtain(ctx, lockPrefix+key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(r.backoff), r.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		log.Warn().Str("key", key).Msg("sequencer: lock not obtained")
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(lock, key, stop, done)
	return func() {
		close(stop)
		<-done
		// Release with a fresh context so a cancelled request still frees the key.
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Error().Err(err).Str("key", key).Msg("sequencer: release failed")
		}
	}, nil
}

// keepAlive extends the lock every third of its TTL until stop is closed, so a
// transaction that outlives LOCK_TTL keeps its key.
func (r *Redis) keepAlive(lock *redislock.Lock, key string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := lock.Refresh(context.Background(), r.ttl, nil); err != nil {
				log.Error().Err(err).Str("key", key).Msg("sequencer: lock refresh failed")
				return
			}
		}
	}
}

// Local orders transactions per key inside one process.
type Local struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]chan struct{})}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
