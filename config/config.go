// Package config loads settings from .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port   string
	AppEnv string

	DatabaseDSN string // empty: no database, the catalog cache stays in memory

	JWTSecret   string
	AdminAPIKey string

	PrintifyToken   string
	PrintifyBaseURL string

	PayPalClientID string
	PayPalSecret   string
	PayPalBaseURL  string

	Policy pricing.Policy
	Promos map[string]decimal.Decimal

	CartIdleTTL      time.Duration
	CORSAllowOrigins []string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            or(getenv("PORT"), "8080"),
		AppEnv:          or(getenv("APP_ENV"), "development"),
		DatabaseDSN:     databaseDSN(getenv),
		JWTSecret:       getenv("JWT_SECRET"),
		AdminAPIKey:     getenv("ADMIN_API_KEY"),
		PrintifyToken:   getenv("PRINTIFY_API_TOKEN"),
		PrintifyBaseURL: getenv("PRINTIFY_API_BASE"),
		PayPalClientID:  getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:    getenv("PAYPAL_CLIENT_SECRET"),
		PayPalBaseURL:   getenv("PAYPAL_API_BASE"),
		CartIdleTTL:     24 * time.Hour,
	}

	var errs []error

	policy, ok := pricing.PolicyByName(getenv("SHIPPING_POLICY"))
	if !ok {
		errs = append(errs, fmt.Errorf("SHIPPING_POLICY must be cart or checkout"))
	}
	if v := getenv("FREE_SHIPPING_THRESHOLD"); v != "" {
		c, err := models.ParseCents(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FREE_SHIPPING_THRESHOLD: %w", err))
		}
		policy.FreeShippingThreshold = c
	}
	if v := getenv("FLAT_SHIPPING_FEE"); v != "" {
		c, err := models.ParseCents(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FLAT_SHIPPING_FEE: %w", err))
		}
		policy.FlatShippingFee = c
	}
	if v := getenv("TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			errs = append(errs, fmt.Errorf("TAX_RATE: invalid rate %q", v))
		} else {
			policy.TaxRate = rate
		}
	}
	cfg.Policy = policy

	promos, err := parsePromos(getenv("PROMO_CODES"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Promos = promos

	if v := getenv("CART_IDLE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("CART_IDLE_TTL: invalid duration %q", v))
		} else {
			cfg.CartIdleTTL = d
		}
	}

	cfg.CORSAllowOrigins = splitList(or(getenv("CORS_ALLOW_ORIGINS"), "*"))

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return cfg, errors.Join(errs...)
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// PromoRegistry returns the configured promo codes, or the default set.
func (c *Config) PromoRegistry() *pricing.PromoRegistry {
	if len(c.Promos) == 0 {
		return pricing.DefaultPromos()
	}
	return pricing.NewPromoRegistry(c.Promos)
}

func databaseDSN(getenv func(string) string) string {
	if u := getenv("DATABASE_URL"); u != "" {
		return u
	}
	host := getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, getenv("DB_USER"), getenv("DB_PASSWORD"), getenv("DB_NAME"), or(getenv("DB_PORT"), "5432"),
	)
}

// parsePromos reads "CODE=rate,CODE2=rate".
func parsePromos(raw string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, entry := range splitList(raw) {
		code, rate, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("PROMO_CODES: %q is not CODE=rate", entry)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("PROMO_CODES: invalid rate for %s", code)
		}
		out[strings.TrimSpace(code)] = d
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
