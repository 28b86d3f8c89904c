package order

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t, &Order{}, &OrderItem{})
	return NewService(db, &config.Config{})
}

func newOrder(userID string) *Order {
	return &Order{
		UserID:   userID,
		Email:    userID + "@example.com",
		Subtotal: decimal.RequireFromString("110"),
		Tax:      decimal.RequireFromString("11"),
		Shipping: decimal.Zero,
		Total:    decimal.RequireFromString("121"),
		ShippingAddress: Address{
			FullName: "Jane Doe", Street: "1 Main St", City: "Austin", ZipCode: "78701", Country: "United States",
		},
		CardLast4: "4242",
		Items: []OrderItem{
			{ProductID: "p1", Name: "Tee", Size: "M", Color: "White", Quantity: 2,
				UnitPrice: decimal.RequireFromString("30"), LineTotal: decimal.RequireFromString("60")},
			{ProductID: "p2", Name: "Cap", Size: "One Size", Color: "Black", Quantity: 1,
				UnitPrice: decimal.RequireFromString("50"), LineTotal: decimal.RequireFromString("50")},
		},
	}
}

func TestService_CreateAndGet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o := newOrder("u1")
	require.NoError(t, s.CreateOrder(ctx, o))
	require.NotEmpty(t, o.ID)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
	assert.Equal(t, OrderStatusProcessing, o.Status)

	got, err := s.GetUserOrder(ctx, "u1", o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Tee", got.Items[0].Name)
	assert.Equal(t, 3, got.ItemCount())
	assert.True(t, got.Total.Equal(decimal.NewFromInt(121)))

	_, err = s.GetUserOrder(ctx, "someone-else", o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_CreateRejectsEmptyOrder(t *testing.T) {
	s := newTestService(t)
	o := newOrder("u1")
	o.Items = nil
	assert.Error(t, s.CreateOrder(context.Background(), o))
}

func TestService_GetUserOrders(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateOrder(ctx, newOrder("u1")))
	}
	require.NoError(t, s.CreateOrder(ctx, newOrder("u2")))

	resp, err := s.GetUserOrders(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	for _, o := range resp.Orders {
		assert.Equal(t, "u1", o.UserID)
		assert.Len(t, o.Items, 2)
	}
}

func TestService_StatusTransitions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o := newOrder("u1")
	require.NoError(t, s.CreateOrder(ctx, o))

	_, err := s.UpdateOrderStatus(ctx, o.ID, OrderStatusDelivered)
	assert.Error(t, err)

	shipped, err := s.UpdateOrderStatus(ctx, o.ID, OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, shipped.Status)
	assert.NotNil(t, shipped.ShippedAt)

	_, err = s.CancelOrder(ctx, "u1", o.ID)
	assert.Error(t, err)

	delivered, err := s.UpdateOrderStatus(ctx, o.ID, OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, delivered.IsCompleted())
}

func TestService_CancelOrder(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o := newOrder("u1")
	require.NoError(t, s.CreateOrder(ctx, o))

	_, err := s.CancelOrder(ctx, "u2", o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	cancelled, err := s.CancelOrder(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
}

func TestService_GetStats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.True(t, stats.Revenue.IsZero())

	kept := newOrder("u1")
	require.NoError(t, s.CreateOrder(ctx, kept))
	cancelled := newOrder("u1")
	require.NoError(t, s.CreateOrder(ctx, cancelled))
	_, err = s.CancelOrder(ctx, "u1", cancelled.ID)
	require.NoError(t, err)

	stats, err = s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, "121.00", stats.Revenue.StringFixed(2))
}
