// internal/domain/product/catalog.go
package product

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
)

// Lister fetches the full catalog in catalog order
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

// Catalog keeps an in-memory snapshot of the product catalog.
//
// Each Refresh takes a new generation; a fetch that completes after a
// newer refresh has started is discarded, so the snapshot never moves
// backwards. Loaded distinguishes "not fetched yet" from an empty catalog.
type Catalog struct {
	source  Lister
	logger  logrus.FieldLogger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	products   []Product
	loaded     bool
	generation uint64
	loadedAt   time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCatalog creates an empty, not yet loaded catalog backed by source
func NewCatalog(source Lister, logger logrus.FieldLogger, m *metrics.Metrics) *Catalog {
	return &Catalog{
		source:  source,
		logger:  logger,
		metrics: m,
	}
}

// Refresh fetches the catalog and installs it unless a newer refresh
// started in the meantime. It reports whether the result was installed.
func (c *Catalog) Refresh(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	products, err := c.source.List(ctx)
	if err != nil {
		c.metrics.CatalogRefresh("error")
		c.logger.WithError(err).WithField("generation", gen).Warn("Catalog refresh failed")
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.metrics.CatalogRefresh("stale")
		c.logger.WithFields(logrus.Fields{
			"generation": gen,
			"current":    c.generation,
		}).Debug("Discarding stale catalog fetch")
		return false, nil
	}

	c.products = products
	c.loaded = true
	c.loadedAt = time.Now()
	c.metrics.CatalogRefresh("installed")
	c.logger.WithFields(logrus.Fields{
		"generation": gen,
		"products":   len(products),
	}).Debug("Catalog refreshed")
	return true, nil
}

// Loaded reports whether any refresh has been installed
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Products returns a copy of the current snapshot
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter applies criteria to the current snapshot. The second result is
// false while the catalog has not been loaded.
func (c *Catalog) Filter(criteria FilterCriteria) ([]Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	return Filter(c.products, criteria), true
}

// Get returns the product with the given id from the snapshot
func (c *Catalog) Get(id string) (*Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p, true
		}
	}
	return nil, false
}

// Invalidate starts a new generation so that in-flight fetches are
// discarded, then refreshes. Admin writes call it.
func (c *Catalog) Invalidate(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil {
		c.logger.WithError(err).Error("Failed to reload catalog after change")
	}
}

// Start refreshes the catalog every interval until Stop is called or
// ctx is cancelled. An initial refresh runs immediately.
func (c *Catalog) Start(ctx context.Context, interval time.Duration) {
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.refreshOnce(ctx, interval)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				c.refreshOnce(ctx, interval)
			}
		}
	}()
}

// Stop halts the background refresher and waits for it to exit
func (c *Catalog) Stop() {
	if c.stop == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Catalog) refreshOnce(ctx context.Context, timeout time.Duration) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _ = c.Refresh(rctx)
}
