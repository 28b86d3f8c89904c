// internal/domain/checkout/calculator.go
package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/domain/cart"
)

// Calculator derives the payable amounts of a cart snapshot
type Calculator struct {
	TaxRate      decimal.Decimal
	ShippingCost decimal.Decimal
}

// NewCalculator builds a calculator from the storefront pricing policy
func NewCalculator(cfg *config.Config) Calculator {
	return Calculator{
		TaxRate:      cfg.Storefront.TaxRate,
		ShippingCost: cfg.Storefront.ShippingCost,
	}
}

// Summary is the pricing breakdown shown at checkout
type Summary struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate prices a snapshot of line items. Tax is rounded half-up to cents.
func (c Calculator) Calculate(items []cart.LineItem) Summary {
	var s Summary
	s.Subtotal = decimal.Zero
	for _, item := range items {
		s.Items += item.Quantity
		s.Subtotal = s.Subtotal.Add(item.LineTotal())
	}

	s.Shipping = c.ShippingCost
	s.Tax = s.Subtotal.Mul(c.TaxRate).Round(2)
	s.Total = s.Subtotal.Add(s.Tax).Add(s.Shipping)
	return s
}
