package service

import (
	"context"
	"sync"
	"time"

	apperrors "arcadia/internal/errors"
)

// keyedMutex serializes settlement operations that share a key, e.g. all
// reservations for one station on one date. Entries are created on demand
// and dropped once the last waiter leaves.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

// Acquire blocks until the key's lock is held, the timeout fires or ctx is
// done. On success the returned func releases the lock; on timeout the call
// fails with apperrors.ErrContended.
func (k *keyedMutex) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case entry.ch <- struct{}{}:
		return func() {
			<-entry.ch
			k.release(key, entry)
		}, nil
	case <-timer.C:
		k.release(key, entry)
		return nil, apperrors.ErrContended
	case <-ctx.Done():
		k.release(key, entry)
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(key string, entry *lockEntry) {
	k.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
