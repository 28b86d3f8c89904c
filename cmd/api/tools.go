// cmd/api/tools.go
package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/domain/product"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"github.com/your-org/fashion-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/fashion-storefront/internal/pkg/auth"
	"github.com/your-org/fashion-storefront/internal/pkg/email"
	"github.com/your-org/fashion-storefront/internal/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if reset && cfg.IsProduction() {
				return fmt.Errorf("refusing to drop tables in production")
			}

			db, err := postgres.NewConnection(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			migration := postgres.NewMigration(db.GetDB())
			if reset {
				if err := migration.DropAllTables(); err != nil {
					return err
				}
			}
			if err := migration.RunAutoMigrations(); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}
			if err := migration.CreateIndexes(); err != nil {
				log.Printf("Warning: Index creation failed: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop all tables before migrating")
	return cmd
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and load the seed catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			gdb := a.db.GetDB()

			opts := seedOptions(a)
			if file != "" {
				opts.CatalogFile = file
			}

			users := user.NewService(gdb, a.redis.Redis, a.cfg, nil, a.logger)
			migration := postgres.NewMigration(gdb)
			if err := migration.SeedInitialData(ctx, opts, users, product.NewService(gdb, a.cfg)); err != nil {
				return err
			}

			counts, err := migration.TableCounts(ctx)
			if err != nil {
				return err
			}
			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Fprintf(cmd.OutOrStdout(), "📊 %-12s %d rows\n", table, counts[table])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file (defaults to CATALOG_SEED_FILE)")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm := auth.NewPasswordManager(&config.Config{
				Security: config.SecurityConfig{BcryptCost: cost},
			})

			hash, err := pm.HashPassword(args[0])
			if err != nil {
				return err
			}
			if err := pm.VerifyPassword(args[0], hash); err != nil {
				return fmt.Errorf("hash verification failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Hash: %s\n", hash)
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Hash verified successfully!")
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}

func testEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-email <address>",
		Short: "Send a test email through the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc := email.NewEmailService(cfg, logger.New(cfg))
			err = svc.SendEmail(cmd.Context(), &email.Email{
				To:          []string{args[0]},
				Subject:     "Test email from " + cfg.App.Name,
				HTMLContent: "<h1>Success!</h1><p>Email delivery is configured correctly.</p>",
				Type:        "test",
			})
			if err != nil {
				return fmt.Errorf("failed to send test email: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Test email sent to %s via %s\n", args[0], cfg.Email.Provider)
			return nil
		},
	}
}
