// Package paypal creates and captures PayPal checkout orders.
package paypal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/pricing"
)

const (
	Currency = "USD"

	IntentCapture    = "CAPTURE"
	CategoryPhysical = "PHYSICAL_GOODS"
	CategoryDonation = "DONATION"
)

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

func usd(c models.Cents) Money {
	return Money{CurrencyCode: Currency, Value: c.String()}
}

func (m Money) cents() (models.Cents, error) {
	return models.ParseCents(m.Value)
}

type Breakdown struct {
	ItemTotal Money  `json:"item_total"`
	Shipping  *Money `json:"shipping,omitempty"`
	TaxTotal  *Money `json:"tax_total,omitempty"`
	Discount  *Money `json:"discount,omitempty"`
}

type Amount struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

type Item struct {
	Name       string `json:"name"`
	UnitAmount Money  `json:"unit_amount"`
	Quantity   string `json:"quantity"`
	SKU        string `json:"sku,omitempty"`
	Category   string `json:"category,omitempty"`
}

type Address struct {
	AddressLine1 string `json:"address_line_1"`
	AdminArea2   string `json:"admin_area_2"`
	AdminArea1   string `json:"admin_area_1"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

type Shipping struct {
	Address Address `json:"address"`
}

type PurchaseUnit struct {
	Description string    `json:"description,omitempty"`
	Amount      Amount    `json:"amount"`
	Items       []Item    `json:"items,omitempty"`
	Shipping    *Shipping `json:"shipping,omitempty"`
}

type PayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

type Payer struct {
	Name         PayerName `json:"name"`
	EmailAddress string    `json:"email_address"`
}

// OrderDetails is the body of a create-order request.
type OrderDetails struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Payer         *Payer         `json:"payer,omitempty"`
}

// NewCheckoutOrder builds the order for a priced cart. The donation, when
// present, is sent as its own DONATION item so that item_total matches the
// item list.
func NewCheckoutOrder(s pricing.Summary, items []models.LineItem, form models.CheckoutForm) OrderDetails {
	unit := PurchaseUnit{
		Amount: Amount{
			CurrencyCode: Currency,
			Value:        s.Total.String(),
			Breakdown: &Breakdown{
				ItemTotal: usd(s.Subtotal + s.Donation),
				Shipping:  ptr(usd(s.Shipping)),
				TaxTotal:  ptr(usd(s.Tax)),
			},
		},
		Shipping: &Shipping{Address: Address{
			AddressLine1: form.Address,
			AdminArea2:   form.City,
			AdminArea1:   form.State,
			PostalCode:   form.ZipCode,
			CountryCode:  countryCode(form.Country),
		}},
	}
	if s.Discount > 0 {
		unit.Amount.Breakdown.Discount = ptr(usd(s.Discount))
	}

	for _, it := range items {
		name := it.ProductName
		if it.VariantTitle != "" {
			name += " (" + it.VariantTitle + ")"
		}
		unit.Items = append(unit.Items, Item{
			Name:       truncate(name, 127),
			UnitAmount: usd(it.UnitPrice),
			Quantity:   strconv.Itoa(it.Quantity),
			SKU:        it.Key,
			Category:   CategoryPhysical,
		})
	}
	if s.Donation > 0 {
		unit.Items = append(unit.Items, Item{
			Name:       "Green donation",
			UnitAmount: usd(s.Donation),
			Quantity:   "1",
			Category:   CategoryDonation,
		})
	}

	return OrderDetails{
		Intent:        IntentCapture,
		PurchaseUnits: []PurchaseUnit{unit},
		Payer: &Payer{
			Name:         PayerName{GivenName: form.FirstName, Surname: form.LastName},
			EmailAddress: form.Email,
		},
	}
}

// NewDonationOrder builds a standalone donation order.
func NewDonationOrder(amount models.Cents) OrderDetails {
	return OrderDetails{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{{
			Description: "Green donation",
			Amount: Amount{
				CurrencyCode: Currency,
				Value:        amount.String(),
				Breakdown:    &Breakdown{ItemTotal: usd(amount)},
			},
			Items: []Item{{
				Name:       "Green donation",
				UnitAmount: usd(amount),
				Quantity:   "1",
				Category:   CategoryDonation,
			}},
		}},
	}
}

// Verify checks that every purchase unit is internally consistent: the items
// add up to item_total and the breakdown adds up to the amount.
func (o OrderDetails) Verify() error {
	if len(o.PurchaseUnits) == 0 {
		return fmt.Errorf("paypal: order has no purchase units")
	}
	for i, u := range o.PurchaseUnits {
		total, err := u.Amount.cents()
		if err != nil {
			return fmt.Errorf("paypal: unit %d amount: %w", i, err)
		}
		if u.Amount.Breakdown == nil {
			continue
		}
		b := u.Amount.Breakdown
		itemTotal, err := b.ItemTotal.cents()
		if err != nil {
			return fmt.Errorf("paypal: unit %d item_total: %w", i, err)
		}

		var items models.Cents
		for _, it := range u.Items {
			price, err := it.UnitAmount.cents()
			if err != nil {
				return fmt.Errorf("paypal: unit %d item %q: %w", i, it.Name, err)
			}
			qty, err := strconv.Atoi(it.Quantity)
			if err != nil || qty <= 0 {
				return fmt.Errorf("paypal: unit %d item %q: bad quantity %q", i, it.Name, it.Quantity)
			}
			items += price * models.Cents(qty)
		}
		if len(u.Items) > 0 && items != itemTotal {
			return fmt.Errorf("paypal: unit %d items sum to %s, item_total is %s", i, items, itemTotal)
		}

		sum := itemTotal
		for _, m := range []*Money{b.Shipping, b.TaxTotal} {
			if m == nil {
				continue
			}
			v, err := m.cents()
			if err != nil {
				return fmt.Errorf("paypal: unit %d breakdown: %w", i, err)
			}
			sum += v
		}
		if b.Discount != nil {
			v, err := b.Discount.cents()
			if err != nil {
				return fmt.Errorf("paypal: unit %d discount: %w", i, err)
			}
			sum -= v
		}
		if sum != total {
			return fmt.Errorf("paypal: unit %d breakdown sums to %s, amount is %s", i, sum, total)
		}
	}
	return nil
}

func (a Amount) cents() (models.Cents, error) {
	return models.ParseCents(a.Value)
}

var countryCodes = map[string]string{
	"":               "US",
	"USA":            "US",
	"UNITED STATES":  "US",
	"UNITED KINGDOM": "GB",
	"GERMANY":        "DE",
}

func countryCode(country string) string {
	c := strings.ToUpper(strings.TrimSpace(country))
	if code, ok := countryCodes[c]; ok {
		return code
	}
	if len(c) == 2 {
		return c
	}
	return "US"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func ptr[T any](v T) *T { return &v }
