// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
)

// Manager owns the open cart stores, one per logged-in user. A store is
// opened on login and dropped on logout or after it has been idle.
type Manager struct {
	persister Persister
	cfg       StoreConfig
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu     sync.Mutex
	stores map[string]*Store

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a cart manager
func NewManager(p Persister, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) *Manager {
	return &Manager{
		persister: p,
		cfg: StoreConfig{
			MaxQuantity: cfg.Storefront.CartMaxQuantity,
			ClampMerged: cfg.Storefront.ClampMergedQuantity,
		},
		logger:  logger,
		metrics: m,
		now:     time.Now,
		stores:  make(map[string]*Store),
	}
}

// Open returns the store of userID, loading the saved cart the first time.
// A corrupted saved cart is discarded. If loading fails the store is still
// returned, together with a *PersistenceError; it keeps changes in memory
// and the load is retried on the next Open.
func (m *Manager) Open(ctx context.Context, userID string) (*Store, error) {
	if store := m.lookup(userID); store != nil {
		store.touch(m.now())
		return store, m.load(ctx, store)
	}

	store := newStore(userID, m.cfg, m.persister, m.logger, m.metrics)
	store.pending = true
	store.lastUsed = m.now()
	loadErr := m.load(ctx, store)

	m.mu.Lock()
	existing, ok := m.stores[userID]
	if !ok {
		m.stores[userID] = store
	}
	m.mu.Unlock()

	// another request may have opened the cart while we were loading
	if ok {
		return existing, m.load(ctx, existing)
	}
	return store, loadErr
}

// load reads the saved cart into a store that has not got it yet
func (m *Manager) load(ctx context.Context, store *Store) error {
	if !store.isPending() {
		return nil
	}

	snap, err := m.persister.Load(ctx, store.userID)
	switch {
	case errors.Is(err, ErrCorrupted):
		m.logger.WithError(err).WithField("user_id", store.userID).Warn("Discarding corrupted saved cart")
		if derr := m.persister.Delete(ctx, store.userID); derr != nil {
			m.logger.WithError(derr).WithField("user_id", store.userID).Error("Failed to delete corrupted cart")
		}
		return store.adopt(ctx, nil)
	case err != nil:
		m.logger.WithError(err).WithField("user_id", store.userID).Error("Failed to load saved cart")
		return &PersistenceError{Op: "load", Err: err}
	default:
		return store.adopt(ctx, snap)
	}
}

func (m *Manager) lookup(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stores[userID]
}

// Close drops the in-memory store of userID. The saved cart is kept.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}

// For returns the cart of an authenticated user, opening it if needed.
// An empty userID is rejected with an *AuthorizationError carrying resumePath.
// A *PersistenceError comes back with a usable store.
func (m *Manager) For(ctx context.Context, userID, resumePath string) (*Store, error) {
	if userID == "" {
		return nil, &AuthorizationError{
			Message:    "Please login to add items to your cart",
			ResumePath: resumePath,
		}
	}
	return m.Open(ctx, userID)
}

// OpenCount returns the number of stores currently held in memory
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Sweep drops stores that have not been used for idle. Stores holding
// changes that were never saved are kept.
func (m *Manager) Sweep(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, store := range m.stores {
		if store.evictable(now, idle) {
			delete(m.stores, userID)
			evicted++
		}
	}
	return evicted
}

// Start sweeps idle stores every interval until Stop is called or ctx is
// cancelled
func (m *Manager) Start(ctx context.Context, interval, idle time.Duration) {
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				if n := m.Sweep(idle); n > 0 {
					m.logger.WithField("evicted", n).Debug("Evicted idle carts")
				}
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit
func (m *Manager) Stop() {
	if m.stop == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}
