package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Storefront.TaxRate.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, cfg.Storefront.ShippingCost.IsZero())
	assert.Equal(t, 10, cfg.Storefront.CartMaxQuantity)
	assert.False(t, cfg.Storefront.ClampMergedQuantity)
	assert.True(t, cfg.Storefront.DefaultPriceMax.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 4, cfg.Storefront.RailLimit)
	assert.Equal(t, 2*time.Hour, cfg.Storefront.CartIdleTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("SHIPPING_COST", "4.99")
	t.Setenv("CART_CLAMP_MERGED_QUANTITY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.2", cfg.Storefront.TaxRate.String())
	assert.Equal(t, "4.99", cfg.Storefront.ShippingCost.String())
	assert.True(t, cfg.Storefront.ClampMergedQuantity)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Name: "db", User: "u"},
			Redis:    RedisConfig{Host: "localhost"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Storefront: StorefrontConfig{
				TaxRate:         decimal.NewFromFloat(0.1),
				CartMaxQuantity: 10,
				CartIdleTimeout: time.Hour,
				DefaultPriceMax: decimal.NewFromInt(500),
			},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "JWT_SECRET"},
		{"negative tax", func(c *Config) { c.Storefront.TaxRate = decimal.NewFromInt(-1) }, "TAX_RATE"},
		{"zero max quantity", func(c *Config) { c.Storefront.CartMaxQuantity = 0 }, "CART_MAX_QUANTITY"},
		{"inverted price range", func(c *Config) { c.Storefront.DefaultPriceMin = decimal.NewFromInt(600) }, "DEFAULT_PRICE_MIN"},
		{"no idle timeout", func(c *Config) { c.Storefront.CartIdleTimeout = 0 }, "CART_IDLE_TIMEOUT"},
		{"missing redis", func(c *Config) { c.Redis.Host = "" }, "REDIS_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
