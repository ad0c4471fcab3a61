// Package pricing derives order totals from cart lines.
package pricing

import (
	"strings"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/shopspring/decimal"
)

// Policy is the shipping and tax rule set.
type Policy struct {
	FreeShippingThreshold models.Cents
	FlatShippingFee       models.Cents
	TaxRate               decimal.Decimal
}

// DefaultPolicy: free shipping from $50, $9.99 otherwise, 8% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: 5000,
		FlatShippingFee:       999,
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// CheckoutPagePolicy: free shipping from $70, $6 otherwise, 8% tax.
func CheckoutPagePolicy() Policy {
	return Policy{
		FreeShippingThreshold: 7000,
		FlatShippingFee:       600,
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// PolicyByName maps the SHIPPING_POLICY setting to a policy.
func PolicyByName(name string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cart":
		return DefaultPolicy(), true
	case "checkout":
		return CheckoutPagePolicy(), true
	}
	return Policy{}, false
}

// Shipping returns the shipping charge for subtotal. An empty cart ships free.
func (p Policy) Shipping(subtotal models.Cents) models.Cents {
	if subtotal <= 0 || subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingFee
}

// FreeShippingRemaining is how much more the shopper must spend to ship free.
func (p Policy) FreeShippingRemaining(subtotal models.Cents) models.Cents {
	if subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.FreeShippingThreshold - subtotal
}

// PromoRegistry holds the recognized promo codes and their discount rates.
type PromoRegistry struct {
	rates map[string]decimal.Decimal
}

func NewPromoRegistry(rates map[string]decimal.Decimal) *PromoRegistry {
	r := &PromoRegistry{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		r.rates[normalizeCode(code)] = rate
	}
	return r
}

func DefaultPromos() *PromoRegistry {
	return NewPromoRegistry(map[string]decimal.Decimal{
		"WELCOME10": decimal.RequireFromString("0.10"),
	})
}

// Lookup is case-insensitive and ignores surrounding whitespace.
func (r *PromoRegistry) Lookup(code string) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Zero, false
	}
	rate, ok := r.rates[normalizeCode(code)]
	return rate, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
