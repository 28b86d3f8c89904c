// internal/domain/product/filter.go
package product

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey selects the order of a filtered product list
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps a query value to a SortKey; empty means default
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc, SortPriceDesc:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

// PriceRange is an inclusive [Min, Max] bound on effective price
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price lies within the range
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// FilterCriteria describes which products are visible and in what order
type FilterCriteria struct {
	Category     Category   `json:"category,omitempty"`
	Search       string     `json:"search,omitempty"`
	FeaturedOnly bool       `json:"featured_only"`
	NewOnly      bool       `json:"new_only"`
	SaleOnly     bool       `json:"sale_only"`
	PriceRange   PriceRange `json:"price_range"`
	Sort         SortKey    `json:"sort"`
}

// Filter returns the products visible under c, in display order.
// The input slice is never modified. Bounds with Min > Max simply match nothing.
func Filter(products []Product, c FilterCriteria) []Product {
	query := strings.ToLower(c.Search)

	out := make([]Product, 0, len(products))
	for i := range products {
		if c.matches(&products[i], query) {
			out = append(out, products[i])
		}
	}

	switch c.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().LessThan(out[j].EffectivePrice())
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice())
		})
	}

	return out
}

func (c FilterCriteria) matches(p *Product, query string) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if query != "" &&
		!strings.Contains(strings.ToLower(p.Name), query) &&
		!strings.Contains(strings.ToLower(p.Description), query) &&
		!strings.Contains(strings.ToLower(string(p.Category)), query) {
		return false
	}
	if c.FeaturedOnly && !p.Featured {
		return false
	}
	if c.NewOnly && !p.New {
		return false
	}
	if c.SaleOnly && !p.OnSale {
		return false
	}
	return c.PriceRange.Contains(p.EffectivePrice())
}

// Title returns the listing heading for the criteria
func (c FilterCriteria) Title() string {
	switch {
	case c.Search != "":
		return fmt.Sprintf("Search Results: \"%s\"", c.Search)
	case c.Category != "":
		if !c.Category.Valid() {
			return "Products"
		}
		return c.Category.DisplayName()
	case c.FeaturedOnly:
		return "Featured Products"
	case c.NewOnly:
		return "New Arrivals"
	case c.SaleOnly:
		return "Sale Items"
	default:
		return "All Products"
	}
}
