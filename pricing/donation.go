package pricing

import (
	"fmt"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
)

// MinStandaloneDonation is the smallest amount the donation form accepts.
const MinStandaloneDonation models.Cents = 200

// DefaultCheckoutDonation is prefilled on the checkout page.
const DefaultCheckoutDonation models.Cents = 200

// ValidationError reports a rejected user input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseDonation parses the donation field. Blank means no donation.
func ParseDonation(raw string) (models.Cents, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	c, err := models.ParseCents(raw)
	if err != nil {
		return 0, &ValidationError{Field: "donation", Message: "must be a valid amount"}
	}
	if c < 0 {
		return 0, &ValidationError{Field: "donation", Message: "cannot be negative"}
	}
	return c, nil
}

func ValidateStandaloneDonation(amount models.Cents) error {
	if amount < MinStandaloneDonation {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("minimum donation is $%s", MinStandaloneDonation),
		}
	}
	return nil
}
