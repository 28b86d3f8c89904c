package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/pkg/logger"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
	"github.com/your-org/fashion-storefront/internal/testutil"
	"go.uber.org/goleak"
)

func testConfig() *config.Config {
	return &config.Config{Storefront: config.StorefrontConfig{CartMaxQuantity: 10}}
}

func newTestManager(t *testing.T) (*Manager, *RedisPersister) {
	t.Helper()
	_, client := testutil.NewRedis(t)
	p := NewRedisPersister(client, 0)
	return NewManager(p, testConfig(), logger.Discard(), metrics.New()), p
}

func TestManager_ForRejectsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)

	store, err := m.For(context.Background(), "", "/product/p1")
	assert.Nil(t, store)

	var aerr *AuthorizationError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "/product/p1", aerr.ResumePath)
	assert.Contains(t, aerr.Message, "login")
	assert.Zero(t, m.OpenCount())
}

func TestManager_CartSurvivesLogoutAndLogin(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	store, err := m.Open(ctx, "alice")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, input("p1", "30", "M", "Navy", 2))
	require.NoError(t, err)

	m.Close("alice")
	assert.Zero(t, m.OpenCount())

	reopened, err := m.Open(ctx, "alice")
	require.NoError(t, err)
	assert.NotSame(t, store, reopened)

	items := reopened.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(30)))
}

func TestManager_UsersHaveSeparateCarts(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	alice, err := m.For(ctx, "alice", "/cart")
	require.NoError(t, err)
	bob, err := m.For(ctx, "bob", "/cart")
	require.NoError(t, err)

	_, err = alice.AddItem(ctx, input("p1", "30", "M", "Navy", 1))
	require.NoError(t, err)

	assert.Equal(t, 1, alice.TotalItems())
	assert.Zero(t, bob.TotalItems())

	again, err := m.For(ctx, "alice", "/cart")
	require.NoError(t, err)
	assert.Same(t, alice, again)
}

func TestManager_DropsCorruptedCart(t *testing.T) {
	ctx := context.Background()
	mr, client := testutil.NewRedis(t)
	m := NewManager(NewRedisPersister(client, 0), testConfig(), logger.Discard(), nil)

	require.NoError(t, mr.Set("cart:user:carol", "{not json"))

	store, err := m.Open(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, store.Items())
	assert.False(t, mr.Exists("cart:user:carol"))
}

func TestManager_LoadFailureIsReportedAndRetried(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersister()
	saved := &Snapshot{UserID: "dave", Items: []LineItem{{
		ID: "saved-1", ProductID: "p1", Name: "Tee", UnitPrice: decimal.RequireFromString("30"),
		Size: "M", Color: "Navy", Quantity: 2,
	}}}
	p.saved["dave"] = saved
	p.fail = errors.New("timeout")
	m := NewManager(p, testConfig(), logger.Discard(), nil)

	store, err := m.For(ctx, "dave", "/cart")
	require.NotNil(t, store)
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "load", perr.Op)
	assert.Empty(t, store.Items())

	// changes stay in memory and never overwrite the unread saved cart
	p.fail = nil
	_, err = store.AddItem(ctx, input("p2", "50", "L", "Black", 1))
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, ErrCartNotLoaded)
	assert.Same(t, saved, p.saved["dave"])
	assert.Zero(t, p.saves)

	_, err = store.BeginCheckout()
	assert.ErrorIs(t, err, ErrCartNotLoaded)

	again, err := m.For(ctx, "dave", "/cart")
	require.NoError(t, err)
	assert.Same(t, store, again)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "saved-1", items[0].ID)
	assert.Equal(t, "p2", items[1].ProductID)
	require.Len(t, p.saved["dave"].Items, 2)
}

func TestManager_RetriedLoadMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersister()
	p.saved["dave"] = &Snapshot{UserID: "dave", Items: []LineItem{{
		ID: "saved-1", ProductID: "p1", UnitPrice: decimal.RequireFromString("30"),
		Size: "M", Color: "Navy", Quantity: 2,
	}}}
	p.fail = errors.New("timeout")
	m := NewManager(p, testConfig(), logger.Discard(), nil)

	store, _ := m.Open(ctx, "dave")
	p.fail = nil
	_, err := store.AddItem(ctx, input("p1", "30", "M", "Navy", 3))
	require.ErrorIs(t, err, ErrCartNotLoaded)

	_, err = m.Open(ctx, "dave")
	require.NoError(t, err)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "saved-1", items[0].ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestManager_SweepEvictsIdleStores(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersister()
	m := NewManager(p, testConfig(), logger.Discard(), nil)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err := m.Open(ctx, "alice")
	require.NoError(t, err)
	bob, err := m.Open(ctx, "bob")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = m.Open(ctx, "alice")
	require.NoError(t, err)

	// bob has a change that never reached storage
	p.fail = errors.New("redis down")
	_, err = bob.AddItem(ctx, input("p1", "30", "M", "Navy", 1))
	require.Error(t, err)

	now = now.Add(45 * time.Minute)
	assert.Zero(t, m.Sweep(time.Hour))
	assert.Equal(t, 2, m.OpenCount())

	p.fail = nil
	require.NoError(t, bob.Clear(ctx))
	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Nil(t, m.lookup("bob"))
	assert.NotNil(t, m.lookup("alice"))

	now = now.Add(time.Hour)
	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Zero(t, m.OpenCount())
}

func TestManager_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager(newMemoryPersister(), testConfig(), logger.Discard(), nil)
	m.Start(context.Background(), time.Millisecond, time.Hour)
	m.Stop()
	m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	other := NewManager(newMemoryPersister(), testConfig(), logger.Discard(), nil)
	other.Start(ctx, time.Millisecond, time.Hour)
	cancel()
	other.Stop()
}

func TestRedisPersister_RoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := testutil.NewRedis(t)
	p := NewRedisPersister(client, time.Hour)

	snap, err := p.Load(ctx, "erin")
	require.NoError(t, err)
	assert.Nil(t, snap)

	saved := &Snapshot{
		UserID: "erin",
		Items: []LineItem{{
			ID: "l1", ProductID: "p1", Name: "Tee", UnitPrice: decimal.RequireFromString("19.99"),
			Size: "S", Color: "White", Quantity: 3,
		}},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, p.Save(ctx, saved))
	assert.Equal(t, time.Hour, mr.TTL("cart:user:erin"))

	loaded, err := p.Load(ctx, "erin")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "19.99", loaded.Items[0].UnitPrice.String())
	assert.True(t, saved.UpdatedAt.Equal(loaded.UpdatedAt))

	require.NoError(t, p.Delete(ctx, "erin"))
	assert.False(t, mr.Exists("cart:user:erin"))
}

func TestRedisPersister_InvalidLineIsCorrupt(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	p := NewRedisPersister(client, 0)

	require.NoError(t, mr.Set("cart:user:frank", `{"user_id":"frank","items":[{"id":"l1","product_id":"p1","quantity":0}]}`))

	_, err := p.Load(context.Background(), "frank")
	assert.ErrorIs(t, err, ErrCorrupted)
}
