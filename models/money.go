package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in minor currency units (USD cents).
type Cents int64

// MaxAmount bounds every parsed amount. Larger inputs are rejected instead
// of wrapping around int64.
const MaxAmount Cents = 1_000_000_000_00

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(int64(MaxAmount))
)

// ParseCents parses a dollar amount such as "9.99" or "12" into cents,
// rounding half-up to the nearest cent.
func ParseCents(raw string) (Cents, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if d.Mul(hundred).Round(0).Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("amount %q out of range", raw)
	}
	return FromDecimal(d), nil
}

// FromDecimal converts a dollar decimal into cents. d must lie within
// MaxAmount; ParseCents checks that before calling it.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns the amount in dollars.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// MulRate multiplies the amount by rate and rounds half-up to the cent.
func (c Cents) MulRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// String renders the amount with two decimals, e.g. "54.00".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*c = 0
		return nil
	}
	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
