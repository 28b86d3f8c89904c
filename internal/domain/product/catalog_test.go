package product

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fashion-storefront/internal/pkg/logger"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedLister returns one scripted response per call; a response
// with a release channel blocks until the channel is closed
type scriptedLister struct {
	mu        sync.Mutex
	calls     int
	responses []scriptedResponse
}

type scriptedResponse struct {
	products []Product
	err      error
	release  chan struct{}
}

func (l *scriptedLister) List(ctx context.Context) ([]Product, error) {
	l.mu.Lock()
	r := l.responses[l.calls%len(l.responses)]
	l.calls++
	l.mu.Unlock()

	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.products, r.err
}

func TestCatalog_NotLoadedIsDistinctFromEmpty(t *testing.T) {
	c := NewCatalog(&scriptedLister{responses: []scriptedResponse{{products: []Product{}}}}, logger.Discard(), nil)

	_, loaded := c.Filter(FilterCriteria{PriceRange: fullRange()})
	assert.False(t, loaded)
	assert.False(t, c.Loaded())

	installed, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, installed)

	got, loaded := c.Filter(FilterCriteria{PriceRange: fullRange()})
	assert.True(t, loaded)
	assert.Empty(t, got)
}

func TestCatalog_StaleFetchIsDiscarded(t *testing.T) {
	slow := make(chan struct{})
	older := []Product{{ID: "old", Category: CategoryMen}}
	newer := []Product{{ID: "new", Category: CategoryMen}}

	lister := &scriptedLister{responses: []scriptedResponse{
		{products: older, release: slow},
		{products: newer},
	}}
	c := NewCatalog(lister, logger.Discard(), nil)

	type result struct {
		installed bool
		err       error
	}
	first := make(chan result)
	go func() {
		installed, err := c.Refresh(context.Background())
		first <- result{installed, err}
	}()

	// wait until the first fetch is in flight
	require.Eventually(t, func() bool {
		lister.mu.Lock()
		defer lister.mu.Unlock()
		return lister.calls == 1
	}, time.Second, time.Millisecond)

	installed, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, installed)

	close(slow)
	r := <-first
	require.NoError(t, r.err)
	assert.False(t, r.installed)

	assert.Equal(t, []string{"new"}, ids(c.Products()))
}

func TestCatalog_FailedRefreshKeepsSnapshot(t *testing.T) {
	lister := &scriptedLister{responses: []scriptedResponse{
		{products: []Product{{ID: "a"}}},
		{err: errors.New("connection refused")},
	}}
	c := NewCatalog(lister, logger.Discard(), nil)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	_, err = c.Refresh(context.Background())
	require.Error(t, err)

	assert.True(t, c.Loaded())
	assert.Equal(t, []string{"a"}, ids(c.Products()))
}

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog(&scriptedLister{responses: []scriptedResponse{{products: sampleCatalog()}}}, logger.Discard(), nil)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	p, ok := c.Get("p4")
	require.True(t, ok)
	assert.Equal(t, "Silk Dress", p.Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

type countingLister struct {
	calls atomic.Int32
}

func (l *countingLister) List(ctx context.Context) ([]Product, error) {
	l.calls.Add(1)
	return sampleCatalog(), nil
}

func TestCatalog_StartStop(t *testing.T) {
	lister := &countingLister{}
	c := NewCatalog(lister, logger.Discard(), nil)

	c.Start(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return lister.calls.Load() >= 3 }, time.Second, time.Millisecond)
	c.Stop()
	c.Stop()

	assert.True(t, c.Loaded())
	assert.Len(t, c.Products(), 8)
}

func TestCatalog_StopsOnContextCancel(t *testing.T) {
	c := NewCatalog(&countingLister{}, logger.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, time.Hour)
	require.Eventually(t, c.Loaded, time.Second, time.Millisecond)
	cancel()
	c.Stop()
}
