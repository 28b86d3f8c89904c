// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/your-org/fashion-storefront/internal/domain/order"
	"github.com/your-org/fashion-storefront/internal/domain/product"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"gorm.io/gorm"
)

// AdminSeeder creates the administrator account
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// CatalogSeeder loads the initial catalog
type CatalogSeeder interface {
	Seed(ctx context.Context, inputs []product.ProductInput) (int, error)
}

// SeedOptions describes the initial data
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	CatalogFile   string
}

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// models in dependency order
func models() []interface{} {
	return []interface{}{
		&user.User{},
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the composite indexes the storefront queries rely on
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_created ON products(category, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured_created ON products(featured, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_products_new_created ON products(is_new, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	var failed int
	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failed++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", len(indexes)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d indexes could not be created", failed)
	}
	return nil
}

// SeedInitialData creates the admin account and loads the catalog file
// into an empty products table. A missing catalog file is skipped.
func (m *Migration) SeedInitialData(ctx context.Context, opts SeedOptions, admins AdminSeeder, catalog CatalogSeeder) error {
	log.Println("🌱 Seeding initial data...")

	if opts.AdminEmail != "" {
		created, err := admins.EnsureAdmin(ctx, opts.AdminEmail, opts.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		if created {
			log.Printf("✅ Created admin user: %s", opts.AdminEmail)
		} else {
			log.Println("⏭️ Admin user already exists")
		}
	}

	if opts.CatalogFile != "" {
		inputs, err := product.LoadSeedFile(opts.CatalogFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("⏭️ Catalog file %s not found", opts.CatalogFile)
		case err != nil:
			return fmt.Errorf("failed to load catalog file: %w", err)
		default:
			n, err := catalog.Seed(ctx, inputs)
			if err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
			if n == 0 {
				log.Println("⏭️ Products already exist")
			} else {
				log.Printf("✅ Created %d products", n)
			}
		}
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	all := models()
	for i := len(all) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", all[i], err)
		}
		log.Printf("🗑️ Dropped table for %T", all[i])
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// TableCounts returns the row count of every storefront table
func (m *Migration) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, model := range models() {
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		var n int64
		if err := m.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stmt.Schema.Table, err)
		}
		counts[stmt.Schema.Table] = n
	}
	return counts, nil
}
