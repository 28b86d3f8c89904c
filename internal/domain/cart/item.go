// internal/domain/cart/item.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/fashion-storefront/internal/domain/product"
)

// ItemInput is a request to add a product variant to a cart
type ItemInput struct {
	ProductID string
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Size      string
	Color     string
	Quantity  int
}

// NewItemInput snapshots p for the cart after checking that size and
// color are among the product's options. Quantity is checked by the store.
func NewItemInput(p *product.Product, size, color string, quantity int) (ItemInput, error) {
	if size == "" {
		return ItemInput{}, &ValidationError{Field: "size", Message: "Please select a size"}
	}
	if color == "" {
		return ItemInput{}, &ValidationError{Field: "color", Message: "Please select a color"}
	}
	if !p.Sizes.Contains(size) {
		return ItemInput{}, &ValidationError{Field: "size", Message: "Size " + size + " is not offered for this product"}
	}
	if !p.Colors.Contains(color) {
		return ItemInput{}, &ValidationError{Field: "color", Message: "Color " + color + " is not offered for this product"}
	}

	return ItemInput{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.PrimaryImage(),
		UnitPrice: p.EffectivePrice(),
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	}, nil
}
