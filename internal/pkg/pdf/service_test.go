package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/domain/order"
)

func TestRenderReceiptHTML(t *testing.T) {
	cfg := &config.Config{
		App:   config.AppConfig{Name: "Fashion Storefront", BaseURL: "https://shop.example.com"},
		Email: config.EmailConfig{FromEmail: "orders@shop.example.com"},
	}
	s := NewService(cfg)

	o := &order.Order{
		OrderNumber: "ORD-20261016-ABCDEF12",
		Email:       "jane@example.com",
		Status:      order.OrderStatusProcessing,
		Subtotal:    decimal.RequireFromString("110"),
		Tax:         decimal.RequireFromString("11"),
		Shipping:    decimal.Zero,
		Total:       decimal.RequireFromString("121"),
		ShippingAddress: order.Address{
			FullName: "Jane <Doe>",
			Street:   "1 Main St",
			City:     "Toronto",
			ZipCode:  "M5V 1A1",
			Country:  "Canada",
		},
		CardLast4: "4242",
		CreatedAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		Items: []order.OrderItem{{
			Name:      "Wool Coat",
			Size:      "M",
			Color:     "Camel",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("55"),
			LineTotal: decimal.RequireFromString("110"),
		}},
	}

	html, err := s.RenderReceiptHTML(o)
	require.NoError(t, err)

	assert.Contains(t, html, "ORD-20261016-ABCDEF12")
	assert.Contains(t, html, "October 16, 2026")
	assert.Contains(t, html, "$110.00")
	assert.Contains(t, html, "$11.00")
	assert.Contains(t, html, "$121.00")
	assert.Contains(t, html, "Free")
	assert.Contains(t, html, "card ending in 4242")
	assert.Contains(t, html, "Jane &lt;Doe&gt;")
	assert.NotContains(t, html, "Jane <Doe>")
}
