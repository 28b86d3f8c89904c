package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/fashion-storefront/internal/domain/cart"
)

func line(price string, qty int) cart.LineItem {
	return cart.LineItem{UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name     string
		calc     Calculator
		items    []cart.LineItem
		subtotal string
		tax      string
		shipping string
		total    string
		count    int
	}{
		{
			name:     "ten percent and free shipping",
			calc:     Calculator{TaxRate: decimal.RequireFromString("0.10"), ShippingCost: decimal.Zero},
			items:    []cart.LineItem{line("30.00", 2), line("50.00", 1)},
			subtotal: "110", tax: "11", shipping: "0", total: "121", count: 3,
		},
		{
			name:     "tax rounds half up to cents",
			calc:     Calculator{TaxRate: decimal.RequireFromString("0.10"), ShippingCost: decimal.Zero},
			items:    []cart.LineItem{line("10.05", 1)},
			subtotal: "10.05", tax: "1.01", shipping: "0", total: "11.06", count: 1,
		},
		{
			name:     "flat shipping",
			calc:     Calculator{TaxRate: decimal.RequireFromString("0.10"), ShippingCost: decimal.RequireFromString("5.99")},
			items:    []cart.LineItem{line("20", 1)},
			subtotal: "20", tax: "2", shipping: "5.99", total: "27.99", count: 1,
		},
		{
			name:     "empty cart",
			calc:     Calculator{TaxRate: decimal.RequireFromString("0.10"), ShippingCost: decimal.Zero},
			subtotal: "0", tax: "0", shipping: "0", total: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.calc.Calculate(tt.items)
			assert.Equal(t, tt.count, got.Items)
			assert.True(t, got.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.Tax.Equal(decimal.RequireFromString(tt.tax)), "tax %s", got.Tax)
			assert.True(t, got.Shipping.Equal(decimal.RequireFromString(tt.shipping)), "shipping %s", got.Shipping)
			assert.True(t, got.Total.Equal(decimal.RequireFromString(tt.total)), "total %s", got.Total)
		})
	}
}

func TestCalculator_DoesNotMutateItems(t *testing.T) {
	items := []cart.LineItem{line("30", 2)}
	Calculator{TaxRate: decimal.RequireFromString("0.10")}.Calculate(items)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(30)))
}
