package config

import (
	"testing"
	"time"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, models.Cents(5000), cfg.Policy.FreeShippingThreshold)
	assert.Equal(t, models.Cents(999), cfg.Policy.FlatShippingFee)
	assert.Equal(t, 24*time.Hour, cfg.CartIdleTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)

	rate, ok := cfg.PromoRegistry().Lookup("welcome10")
	require.True(t, ok)
	assert.Equal(t, "0.1", rate.String())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":              "s",
		"SHIPPING_POLICY":         "checkout",
		"FLAT_SHIPPING_FEE":       "5.50",
		"TAX_RATE":                "0.0725",
		"PROMO_CODES":             "SPRING=0.2, VIP=0.15",
		"CART_IDLE_TTL":           "2h",
		"CORS_ALLOW_ORIGINS":      "https://thrills.shop, http://localhost:3000",
		"DB_HOST":                 "db",
		"DB_USER":                 "u",
		"DB_NAME":                 "thrills",
		"FREE_SHIPPING_THRESHOLD": "75",
	}))
	require.NoError(t, err)

	assert.Equal(t, models.Cents(7500), cfg.Policy.FreeShippingThreshold)
	assert.Equal(t, models.Cents(550), cfg.Policy.FlatShippingFee)
	assert.Equal(t, "0.0725", cfg.Policy.TaxRate.String())
	assert.Equal(t, 2*time.Hour, cfg.CartIdleTTL)
	assert.Equal(t, []string{"https://thrills.shop", "http://localhost:3000"}, cfg.CORSAllowOrigins)
	assert.Contains(t, cfg.DatabaseDSN, "host=db")
	assert.Contains(t, cfg.DatabaseDSN, "port=5432")

	_, ok := cfg.PromoRegistry().Lookup("WELCOME10")
	assert.False(t, ok)
	_, ok = cfg.PromoRegistry().Lookup("vip")
	assert.True(t, ok)
}

func TestFromEnv_Errors(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"SHIPPING_POLICY": "overnight",
		"TAX_RATE":        "lots",
		"PROMO_CODES":     "BROKEN",
		"CART_IDLE_TTL":   "soon",
	}))
	require.Error(t, err)
	for _, want := range []string{"SHIPPING_POLICY", "TAX_RATE", "PROMO_CODES", "CART_IDLE_TTL", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), want)
	}
}
