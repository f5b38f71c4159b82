package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps Idempotency-Keys in process memory. It is
// the fallback when Redis is disabled, so keys are only deduplicated per
// replica.
type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	deadline map[string]time.Time
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// MemoryStoreOption configures an InMemoryIdempotencyStore
type MemoryStoreOption func(*memoryStoreOptions)

type memoryStoreOptions struct {
	sweep time.Duration
	now   func() time.Time
}

// WithSweepInterval sets how often expired keys are purged
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(o *memoryStoreOptions) { o.sweep = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(o *memoryStoreOptions) { o.now = now }
}

// NewInMemoryIdempotencyStore starts the store and its sweeper. Close stops
// the sweeper.
func NewInMemoryIdempotencyStore(opts ...MemoryStoreOption) *InMemoryIdempotencyStore {
	o := memoryStoreOptions{sweep: defaultSweepInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &InMemoryIdempotencyStore{
		deadline: make(map[string]time.Time),
		now:      o.now,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.sweepEvery(ctx, o.sweep)
	return s
}

// MarkProcessed claims key for ttl. It returns false while an earlier claim
// is still live.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.deadline[key]; ok && now.Before(until) {
		return false, nil
	}
	s.deadline[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.deadline[key]
	return ok && s.now().Before(until), nil
}

func (s *InMemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadline, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper; calling it again is a no-op
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepEvery(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, until := range s.deadline {
		if !now.Before(until) {
			delete(s.deadline, key)
		}
	}
}

// Size is the number of keys held, expired or not
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadline)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
