// internal/interfaces/http/handlers/product.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/domain/product"
)

// ProductHandler handles the public catalog endpoints. Listing and detail
// read the in-memory catalog and fall back to the database until it loads.
type ProductHandler struct {
	productService *product.Service
	catalog        *product.Catalog
	config         *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service, catalog *product.Catalog, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: products,
		catalog:        catalog,
		config:         cfg,
	}
}

type productListQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Featured bool   `form:"featured"`
	New      bool   `form:"new"`
	Sale     bool   `form:"sale"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	Sort     string `form:"sort"`
}

// criteria turns query parameters into filter criteria, applying the
// configured default price range
func (q productListQuery) criteria(cfg *config.Config) (product.FilterCriteria, error) {
	sortKey, err := product.ParseSortKey(q.Sort)
	if err != nil {
		return product.FilterCriteria{}, err
	}

	bound := func(name, raw string, def decimal.Decimal) (decimal.Decimal, error) {
		if raw == "" {
			return def, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s must be a number", name)
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s cannot be negative", name)
		}
		return d, nil
	}

	min, err := bound("min_price", q.MinPrice, cfg.Storefront.DefaultPriceMin)
	if err != nil {
		return product.FilterCriteria{}, err
	}
	max, err := bound("max_price", q.MaxPrice, cfg.Storefront.DefaultPriceMax)
	if err != nil {
		return product.FilterCriteria{}, err
	}
	if min.GreaterThan(max) {
		return product.FilterCriteria{}, fmt.Errorf("min_price must not exceed max_price")
	}

	return product.FilterCriteria{
		Category:     product.Category(q.Category),
		Search:       q.Search,
		FeaturedOnly: q.Featured,
		NewOnly:      q.New,
		SaleOnly:     q.Sale,
		PriceRange:   product.PriceRange{Min: min, Max: max},
		Sort:         sortKey,
	}, nil
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var query productListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	criteria, err := query.criteria(h.config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	products, loaded := h.catalog.Filter(criteria)
	if !loaded {
		products, err = h.productService.Search(c.Request.Context(), criteria)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve products",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"title":    criteria.Title(),
			"criteria": criteria,
			"products": products,
			"total":    len(products),
		},
	})
}

// GetProduct handles GET /products/:id with related products of the same category
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()

	p, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		var err error
		p, err = h.productService.GetProduct(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Product not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve product",
			})
			return
		}
	}

	related, err := h.productService.Related(ctx, p, h.config.Storefront.RailLimit)
	if err != nil {
		related = []product.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data": gin.H{
			"product":             p,
			"effective_price":     p.EffectivePrice(),
			"discount_percentage": p.GetDiscountPercentage(),
			"related":             related,
		},
	})
}

// GetFeatured handles GET /products/featured
func (h *ProductHandler) GetFeatured(c *gin.Context) {
	h.rail(c, "Featured Products", h.productService.Featured)
}

// GetNewArrivals handles GET /products/new-arrivals
func (h *ProductHandler) GetNewArrivals(c *gin.Context) {
	h.rail(c, "New Arrivals", h.productService.NewArrivals)
}

func (h *ProductHandler) rail(c *gin.Context, title string, fetch func(ctx context.Context, limit int) ([]product.Product, error)) {
	products, err := fetch(c.Request.Context(), h.config.Storefront.RailLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"title":    title,
			"products": products,
		},
	})
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories := make([]gin.H, 0, len(product.Categories))
	for _, cat := range product.Categories {
		categories = append(categories, gin.H{
			"slug": cat,
			"name": cat.DisplayName(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}
