// internal/domain/product/entity.go
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is one of the fixed storefront departments
type Category string

const (
	CategoryMen         Category = "men"
	CategoryWomen       Category = "women"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// Categories lists the departments in navigation order
var Categories = []Category{CategoryMen, CategoryWomen, CategoryShoes, CategoryAccessories}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns the navigation label of the category
func (c Category) DisplayName() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Option is a named color or size choice
type Option struct {
	Name      string `json:"name" validate:"required"`
	Available bool   `json:"available"`
}

// UnmarshalJSON accepts both stored shapes: a bare name ("Navy") and
// an object ({"name": "Navy", "available": false}). Bare names are available.
func (o *Option) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*o = Option{Name: name, Available: true}
		return nil
	}

	var obj struct {
		Name      string `json:"name"`
		Available *bool  `json:"available"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("option must be a string or an object with a name: %w", err)
	}
	o.Name = obj.Name
	o.Available = obj.Available == nil || *obj.Available
	return nil
}

// Options is an ordered list of color or size choices
type Options []Option

// Names returns the option names in order
func (opts Options) Names() []string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return names
}

// Contains reports whether an option with the given name exists
func (opts Options) Contains(name string) bool {
	for _, o := range opts {
		if o.Name == name {
			return true
		}
	}
	return false
}

// Product represents the product entity
type Product struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	Name        string              `gorm:"not null;size:255" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	Category    Category            `gorm:"not null;size:32;index" json:"category"`
	Images      []string            `gorm:"serializer:json" json:"images"`
	Colors      Options             `gorm:"serializer:json" json:"colors"`
	Sizes       Options             `gorm:"serializer:json" json:"sizes"`
	Featured    bool                `gorm:"default:false;index" json:"featured"`
	New         bool                `gorm:"column:is_new;default:false;index" json:"new"`
	OnSale      bool                `gorm:"column:on_sale;default:false;index" json:"sale"`
	Details     string              `gorm:"type:text" json:"details"`
	Care        string              `gorm:"type:text" json:"care"`
	Shipping    string              `gorm:"type:text" json:"shipping"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string { return "products" }

// BeforeCreate assigns an id to new products
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// EffectivePrice is the sale price when one is set, otherwise the base price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// PrimaryImage returns the first image, or "" when the product has none
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// GetDiscountPercentage returns the whole-percent markdown of the sale price
func (p *Product) GetDiscountPercentage() int {
	if !p.SalePrice.Valid || !p.Price.IsPositive() || !p.SalePrice.Decimal.LessThan(p.Price) {
		return 0
	}
	return int(p.Price.Sub(p.SalePrice.Decimal).Mul(decimal.NewFromInt(100)).Div(p.Price).IntPart())
}

// CheckPricing validates the price invariants of the product
func (p *Product) CheckPricing() error {
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if p.SalePrice.Valid {
		if p.SalePrice.Decimal.IsNegative() {
			return fmt.Errorf("sale price cannot be negative")
		}
		if !p.SalePrice.Decimal.LessThan(p.Price) {
			return fmt.Errorf("sale price must be less than price")
		}
	}
	if p.OnSale && !p.SalePrice.Valid {
		return fmt.Errorf("products on sale need a sale price")
	}
	return nil
}
