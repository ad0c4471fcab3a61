package pricing

import (
	"github.com/brianmwiruki/Thrills/models"
)

type Input struct {
	Items              []models.LineItem
	PromoCode          string
	Donation           models.Cents
	DestinationCountry string
}

// Summary is the derived order breakdown.
type Summary struct {
	Subtotal              models.Cents `json:"subtotal"`
	Shipping              models.Cents `json:"shipping"`
	Discount              models.Cents `json:"discount"`
	Tax                   models.Cents `json:"tax"`
	Donation              models.Cents `json:"donation"`
	Total                 models.Cents `json:"total"`
	AppliedPromo          string       `json:"applied_promo,omitempty"`
	FreeShippingRemaining models.Cents `json:"free_shipping_remaining"`
	ItemCount             int          `json:"item_count"`
}

// Calculator has no state besides its configuration; Calculate never mutates
// its input.
type Calculator struct {
	Policy Policy
	Promos *PromoRegistry
}

func NewCalculator(policy Policy, promos *PromoRegistry) *Calculator {
	return &Calculator{Policy: policy, Promos: promos}
}

// Calculate prices the cart:
//
//	total = subtotal + shipping - discount + tax + donation
//
// Tax is charged on the discounted subtotal; the donation is never taxed.
func (c *Calculator) Calculate(in Input) Summary {
	var s Summary
	for _, it := range in.Items {
		s.Subtotal += it.LineTotal()
		s.ItemCount += it.Quantity
	}
	if s.Subtotal <= 0 || s.ItemCount == 0 {
		return Summary{}
	}

	s.Shipping = c.Policy.Shipping(s.Subtotal)
	s.FreeShippingRemaining = c.Policy.FreeShippingRemaining(s.Subtotal)

	if rate, ok := c.Promos.Lookup(in.PromoCode); ok {
		s.Discount = s.Subtotal.MulRate(rate)
		s.AppliedPromo = normalizeCode(in.PromoCode)
	}

	s.Tax = (s.Subtotal - s.Discount).MulRate(c.Policy.TaxRate)

	if in.Donation > 0 {
		s.Donation = in.Donation
	}

	s.Total = s.Subtotal + s.Shipping - s.Discount + s.Tax + s.Donation
	return s
}
