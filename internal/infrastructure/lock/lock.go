// Package lock serializes work on a key, either inside one process or across
// every instance sharing a Redis server.
package lock

import (
	"context"
	"errors"
	"sync"

	"github.com/dokan/papershop/internal/domain/shared"
)

// ErrNotObtained is returned when a lock could not be acquired before the
// caller gave up
var ErrNotObtained = shared.NewDomainError(shared.CodeConcurrencyConflict, "Resource is busy, please retry")

// MemoryLocker holds one mutex per key. It only serializes callers in the
// same process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates a new MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// WithLock runs fn while holding key. It gives up with ctx.Err() if the
// context ends while waiting.
func (l *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	kl := l.acquire(key)
	defer l.release(key, kl)

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		return errors.Join(ErrNotObtained, ctx.Err())
	}
	defer func() { <-kl.ch }()

	return fn(ctx)
}

func (l *MemoryLocker) acquire(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *MemoryLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// Len returns the number of keys currently held or waited on
func (l *MemoryLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
