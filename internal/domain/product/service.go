// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/fashion-storefront/internal/config"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = errors.New("product not found")

// catalogOrder is the order products are shown in when no sort is requested
const catalogOrder = "created_at ASC, id ASC"

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductInput represents the admin product form
type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Category    Category         `json:"category" validate:"required,oneof=men women shoes accessories"`
	Images      []string         `json:"images" validate:"min=1,dive,required,url"`
	Colors      Options          `json:"colors" validate:"min=1,dive"`
	Sizes       Options          `json:"sizes" validate:"min=1,dive"`
	Featured    bool             `json:"featured"`
	New         bool             `json:"new"`
	OnSale      bool             `json:"sale"`
	Details     string           `json:"details" validate:"required"`
	Care        string           `json:"care" validate:"required"`
	Shipping    string           `json:"shipping" validate:"required"`
}

// Stats holds the admin dashboard counters
type Stats struct {
	Total    int64 `json:"total"`
	Featured int64 `json:"featured"`
	New      int64 `json:"new"`
	OnSale   int64 `json:"sale"`
}

// List returns the whole catalog in catalog order
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Order(catalogOrder).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// Search runs the filter criteria in the database. Results match Filter over List.
func (s *Service) Search(ctx context.Context, c FilterCriteria) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{})

	if c.Category != "" {
		query = query.Where("category = ?", c.Category)
	}

	if c.Search != "" {
		search := "%" + escapeLike(strings.ToLower(c.Search)) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'",
			search, search, search,
		)
	}

	if c.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if c.NewOnly {
		query = query.Where("is_new = ?", true)
	}
	if c.SaleOnly {
		query = query.Where("on_sale = ?", true)
	}

	query = query.Where("COALESCE(sale_price, price) BETWEEN ? AND ?",
		c.PriceRange.Min.InexactFloat64(), c.PriceRange.Max.InexactFloat64())

	switch c.Sort {
	case SortPriceAsc:
		query = query.Order("COALESCE(sale_price, price) ASC")
	case SortPriceDesc:
		query = query.Order("COALESCE(sale_price, price) DESC")
	}
	query = query.Order(catalogOrder)

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// Featured returns up to limit featured products for the home page rail
func (s *Service) Featured(ctx context.Context, limit int) ([]Product, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Where("featured = ?", true).
		Order(catalogOrder).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve featured products: %w", err)
	}
	return products, nil
}

// NewArrivals returns up to limit products flagged as new
func (s *Service) NewArrivals(ctx context.Context, limit int) ([]Product, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Where("is_new = ?", true).
		Order(catalogOrder).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve new arrivals: %w", err)
	}
	return products, nil
}

// Related returns up to limit other products from the same category
func (s *Service) Related(ctx context.Context, p *Product, limit int) ([]Product, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Where("category = ? AND id <> ?", p.Category, p.ID).
		Order(catalogOrder).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve related products: %w", err)
	}
	return products, nil
}

// AdminSearch lists products whose name or category contains the query
func (s *Service) AdminSearch(ctx context.Context, q string) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{})
	if q != "" {
		search := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'", search, search)
	}

	var products []Product
	if err := query.Order("created_at DESC, id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new product from the admin form
func (s *Service) CreateProduct(ctx context.Context, in *ProductInput) (*Product, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	var product Product
	in.apply(&product)

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct replaces the editable fields of an existing product
func (s *Service) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*Product, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(product)

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product. Cart lines referring to it keep their snapshot.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetStats counts the catalog for the admin dashboard
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	count := func(dest *int64, column string) func() error {
		return func() error {
			query := s.db.WithContext(gctx).Model(&Product{})
			if column != "" {
				query = query.Where(column+" = ?", true)
			}
			return query.Count(dest).Error
		}
	}

	g.Go(count(&stats.Total, ""))
	g.Go(count(&stats.Featured, "featured"))
	g.Go(count(&stats.New, "is_new"))
	g.Go(count(&stats.OnSale, "on_sale"))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &stats, nil
}

func (in *ProductInput) apply(p *Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.SalePrice = decimal.NullDecimal{}
	if in.SalePrice != nil {
		p.SalePrice = decimal.NewNullDecimal(*in.SalePrice)
	}
	p.Category = in.Category
	p.Images = in.Images
	p.Colors = in.Colors
	p.Sizes = in.Sizes
	p.Featured = in.Featured
	p.New = in.New
	p.OnSale = in.OnSale
	p.Details = in.Details
	p.Care = in.Care
	p.Shipping = in.Shipping
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
