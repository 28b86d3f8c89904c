// cmd/api/serve.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/fashion-storefront/internal/domain/cart"
	"github.com/your-org/fashion-storefront/internal/domain/checkout"
	"github.com/your-org/fashion-storefront/internal/domain/order"
	"github.com/your-org/fashion-storefront/internal/domain/product"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"github.com/your-org/fashion-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/fashion-storefront/internal/interfaces/http"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/routes"
	"github.com/your-org/fashion-storefront/internal/pkg/auth"
	"github.com/your-org/fashion-storefront/internal/pkg/email"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
	"github.com/your-org/fashion-storefront/internal/pkg/pdf"
)

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	log.Printf("🚀 Starting %s v%s in %s mode", a.cfg.App.Name, a.cfg.App.Version, a.cfg.App.Environment)

	if err := a.db.Health(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if err := a.redis.Health(ctx); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	migration := postgres.NewMigration(a.db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.Printf("Warning: Index creation failed: %v", err)
	}

	m := metrics.New()
	gdb := a.db.GetDB()

	mailer := email.NewEmailService(a.cfg, a.logger.WithField("component", "email"))

	productService := product.NewService(gdb, a.cfg)
	userService := user.NewService(gdb, a.redis.Redis, a.cfg, mailer, a.logger.WithField("component", "user"))
	orderService := order.NewService(gdb, a.cfg)

	if a.cfg.IsDevelopment() {
		if err := migration.SeedInitialData(ctx, seedOptions(a), userService, productService); err != nil {
			log.Printf("Warning: Data seeding failed: %v", err)
		}
	}

	catalog := product.NewCatalog(productService, a.logger.WithField("component", "catalog"), m)
	catalog.Start(ctx, a.cfg.Storefront.CatalogRefreshInterval)
	defer catalog.Stop()

	carts := cart.NewManager(
		cart.NewRedisPersister(a.redis.Redis, a.cfg.Storefront.CartTTL),
		a.cfg,
		a.logger.WithField("component", "cart"),
		m,
	)
	carts.Start(ctx, a.cfg.Storefront.CartIdleTimeout/4, a.cfg.Storefront.CartIdleTimeout)
	defer carts.Stop()

	checkoutService := checkout.NewService(orderService, mailer, a.cfg, a.logger.WithField("component", "checkout"), m)

	httpLogger := a.logger.WithField("component", "http")
	server := http.NewServer(a.cfg, http.Dependencies{
		Handlers: &routes.Handlers{
			Auth:     handlers.NewAuthHandler(userService, carts, httpLogger),
			Profile:  handlers.NewUserProfileHandler(userService),
			Product:  handlers.NewProductHandler(productService, catalog, a.cfg),
			Cart:     handlers.NewCartHandler(carts, catalog, productService, httpLogger),
			Checkout: handlers.NewCheckoutHandler(checkoutService, userService, carts, httpLogger),
			Order:    handlers.NewOrderHandler(orderService, pdf.NewService(a.cfg), httpLogger),
			Admin:    handlers.NewAdminHandler(productService, catalog, userService, orderService, httpLogger),
			Users:    handlers.NewUserAdminHandler(userService, httpLogger),
		},
		JWT:     auth.NewJWTManager(a.cfg),
		Limiter: a.redis,
		Checks: map[string]http.HealthChecker{
			"database": a.db,
			"redis":    a.redis,
		},
		Catalog: catalog,
		Logger:  httpLogger,
		Metrics: m,
	})

	log.Println("✅ All systems operational!")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
	return nil
}
