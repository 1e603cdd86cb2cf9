package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fleet/backend/internal/domain/cart"
	"github.com/google/uuid"
)

type cartEntry struct {
	data      []byte
	expiresAt time.Time
}

// defaultCartCleanupInterval caps how long an abandoned cart outlives its ttl
const defaultCartCleanupInterval = 5 * time.Minute

// InMemoryCartStore implements cart.Store in process memory.
// Carts are kept encoded so callers never share a mutable cart.
// Suitable for tests and single-instance development.
type InMemoryCartStore struct {
	mu      sync.Mutex
	entries map[string]cartEntry
	ttl     time.Duration
	now     func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates an in-memory cart store and starts the
// goroutine that evicts expired carts. Call Close to stop it.
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	interval := defaultCartCleanupInterval
	if ttl > 0 && ttl < interval {
		interval = ttl
	}
	return newInMemoryCartStore(ttl, interval)
}

func newInMemoryCartStore(ttl, cleanupInterval time.Duration) *InMemoryCartStore {
	store := &InMemoryCartStore{
		entries:  make(map[string]cartEntry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(cleanupInterval)

	return store
}

// Add selects ids in the session's cart
func (s *InMemoryCartStore) Add(_ context.Context, sessionID string, ids ...uuid.UUID) (*cart.Cart, error) {
	return s.update(sessionID, func(c *cart.Cart) error {
		_, err := c.Add(ids...)
		return err
	})
}

// Remove deselects id
func (s *InMemoryCartStore) Remove(_ context.Context, sessionID string, id uuid.UUID) (*cart.Cart, error) {
	return s.update(sessionID, func(c *cart.Cart) error {
		c.Remove(id)
		return nil
	})
}

// Clear deletes the session's cart
func (s *InMemoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// List returns the session's cart, empty when none is stored or it expired
func (s *InMemoryCartStore) List(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if e, ok := s.entries[sessionID]; ok {
		e.expiresAt = s.now().Add(s.ttl)
		s.entries[sessionID] = e
	}
	return c, nil
}

func (s *InMemoryCartStore) update(sessionID string, mutate func(*cart.Cart) error) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(c); err != nil {
		return nil, err
	}
	data, err := cart.Encode(c)
	if err != nil {
		return nil, err
	}
	s.entries[sessionID] = cartEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return c, nil
}

// load must be called with mu held
func (s *InMemoryCartStore) load(sessionID string) (*cart.Cart, error) {
	e, ok := s.entries[sessionID]
	if !ok {
		return cart.New(sessionID), nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return cart.New(sessionID), nil
	}
	return cart.Decode(e.data)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryCartStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup drops every expired cart, read or not
func (s *InMemoryCartStore) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for sessionID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, sessionID)
			removed++
		}
	}
	return removed
}

// Size returns the number of stored carts, expired ones included
func (s *InMemoryCartStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ cart.Store = (*InMemoryCartStore)(nil)
