// internal/domain/product/seed.go
package product

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	SalePrice   string   `yaml:"sale_price"`
	Category    Category `yaml:"category"`
	Images      []string `yaml:"images"`
	Colors      Options  `yaml:"colors"`
	Sizes       Options  `yaml:"sizes"`
	Featured    bool     `yaml:"featured"`
	New         bool     `yaml:"new"`
	Sale        bool     `yaml:"sale"`
	Details     string   `yaml:"details"`
	Care        string   `yaml:"care"`
	Shipping    string   `yaml:"shipping"`
}

// UnmarshalYAML accepts the same two option shapes as UnmarshalJSON
func (o *Option) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*o = Option{Name: value.Value, Available: true}
		return nil
	}

	var obj struct {
		Name      string `yaml:"name"`
		Available *bool  `yaml:"available"`
	}
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("option must be a string or a mapping with a name: %w", err)
	}
	o.Name = obj.Name
	o.Available = obj.Available == nil || *obj.Available
	return nil
}

// LoadSeed parses a YAML catalog and validates every entry like the admin form
func LoadSeed(r io.Reader) ([]ProductInput, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	inputs := make([]ProductInput, 0, len(file.Products))
	for i, sp := range file.Products {
		in, err := sp.toInput()
		if err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, sp.Name, err)
		}
		if err := ValidateInput(in); err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, sp.Name, err)
		}
		inputs = append(inputs, *in)
	}
	return inputs, nil
}

// LoadSeedFile reads a YAML catalog from disk
func LoadSeedFile(path string) ([]ProductInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed catalog: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// Seed inserts the given products when the catalog is empty and
// returns how many were inserted
func (s *Service) Seed(ctx context.Context, inputs []ProductInput) (int, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	products := make([]Product, len(inputs))
	for i := range inputs {
		inputs[i].apply(&products[i])
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// one row at a time keeps created_at increasing in file order
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}

func (sp *seedProduct) toInput() (*ProductInput, error) {
	price, err := decimal.NewFromString(sp.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", sp.Price, err)
	}

	in := &ProductInput{
		Name:        sp.Name,
		Description: sp.Description,
		Price:       price,
		Category:    sp.Category,
		Images:      sp.Images,
		Colors:      sp.Colors,
		Sizes:       sp.Sizes,
		Featured:    sp.Featured,
		New:         sp.New,
		OnSale:      sp.Sale,
		Details:     sp.Details,
		Care:        sp.Care,
		Shipping:    sp.Shipping,
	}

	if sp.SalePrice != "" {
		sale, err := decimal.NewFromString(sp.SalePrice)
		if err != nil {
			return nil, fmt.Errorf("invalid sale price %q: %w", sp.SalePrice, err)
		}
		in.SalePrice = &sale
	}
	return in, nil
}
