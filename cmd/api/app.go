// cmd/api/app.go
package main

import (
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/fashion-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/fashion-storefront/internal/pkg/logger"
)

// app holds the connections shared by every command
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *postgres.DB
	redis  *redis.Client
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redis.NewConnection(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger.New(cfg),
		db:     db,
		redis:  rdb,
	}, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		log.Printf("Failed to close Redis connection: %v", err)
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}
}

func seedOptions(a *app) postgres.SeedOptions {
	return postgres.SeedOptions{
		AdminEmail:    a.cfg.Storefront.AdminEmail,
		AdminPassword: a.cfg.Storefront.AdminPassword,
		CatalogFile:   a.cfg.Storefront.CatalogSeedFile,
	}
}
