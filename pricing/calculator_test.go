package pricing

import (
	"testing"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price models.Cents, qty int) models.LineItem {
	return models.LineItem{Key: "p", ProductID: "p", UnitPrice: price, Quantity: qty}
}

func defaultCalc() *Calculator {
	return NewCalculator(DefaultPolicy(), DefaultPromos())
}

func TestDefaultPolicyIsCartPagePair(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, models.Cents(5000), p.FreeShippingThreshold)
	assert.Equal(t, models.Cents(999), p.FlatShippingFee)
	assert.True(t, decimal.RequireFromString("0.08").Equal(p.TaxRate))
}

func TestPolicyByName(t *testing.T) {
	p, ok := PolicyByName("Checkout")
	require.True(t, ok)
	assert.Equal(t, models.Cents(7000), p.FreeShippingThreshold)
	assert.Equal(t, models.Cents(600), p.FlatShippingFee)

	p, ok = PolicyByName("")
	require.True(t, ok)
	assert.Equal(t, DefaultPolicy().FlatShippingFee, p.FlatShippingFee)

	_, ok = PolicyByName("express")
	assert.False(t, ok)
}

func TestShipping_BelowAndAboveThreshold(t *testing.T) {
	c := defaultCalc()

	below := c.Calculate(Input{Items: []models.LineItem{line(4000, 1)}})
	assert.Equal(t, models.Cents(999), below.Shipping)
	assert.Equal(t, models.Cents(1000), below.FreeShippingRemaining)

	above := c.Calculate(Input{Items: []models.LineItem{line(8000, 1)}})
	assert.Equal(t, models.Cents(0), above.Shipping)
	assert.Equal(t, models.Cents(0), above.FreeShippingRemaining)
}

func TestCheckoutPagePolicy(t *testing.T) {
	c := NewCalculator(CheckoutPagePolicy(), DefaultPromos())
	s := c.Calculate(Input{Items: []models.LineItem{line(6000, 1)}})
	assert.Equal(t, models.Cents(600), s.Shipping)
}

func TestScenario_AtThreshold(t *testing.T) {
	s := defaultCalc().Calculate(Input{Items: []models.LineItem{line(2500, 2)}})

	assert.Equal(t, "50.00", s.Subtotal.String())
	assert.Equal(t, "0.00", s.Shipping.String())
	assert.Equal(t, "4.00", s.Tax.String())
	assert.Equal(t, "54.00", s.Total.String())
	assert.Equal(t, 2, s.ItemCount)
}

func TestPromo(t *testing.T) {
	c := defaultCalc()

	s := c.Calculate(Input{Items: []models.LineItem{line(10000, 1)}, PromoCode: " welcome10 "})
	assert.Equal(t, "10.00", s.Discount.String())
	assert.Equal(t, "WELCOME10", s.AppliedPromo)
	assert.Equal(t, "7.20", s.Tax.String(), "tax is charged after discount")
	assert.Equal(t, "97.20", s.Total.String())

	s = c.Calculate(Input{Items: []models.LineItem{line(10000, 1)}, PromoCode: "BOGUS"})
	assert.Equal(t, models.Cents(0), s.Discount)
	assert.Empty(t, s.AppliedPromo)
}

func TestDonation_AdditiveAndUntaxed(t *testing.T) {
	c := defaultCalc()
	items := []models.LineItem{line(2000, 1)}

	without := c.Calculate(Input{Items: items})
	with := c.Calculate(Input{Items: items, Donation: 500})

	assert.Equal(t, without.Tax, with.Tax)
	assert.Equal(t, without.Total+500, with.Total)

	negative := c.Calculate(Input{Items: items, Donation: -300})
	assert.Equal(t, models.Cents(0), negative.Donation)
	assert.Equal(t, without.Total, negative.Total)
}

func TestEmptyCartIsAllZero(t *testing.T) {
	s := defaultCalc().Calculate(Input{PromoCode: "WELCOME10", Donation: 200})
	assert.Equal(t, Summary{}, s)
}

func TestRoundingHalfUp(t *testing.T) {
	// 8% of 0.56 = 0.0448 -> 0.04; 8% of 0.69 = 0.0552 -> 0.06
	c := defaultCalc()
	assert.Equal(t, models.Cents(4), c.Calculate(Input{Items: []models.LineItem{line(56, 1)}}).Tax)
	assert.Equal(t, models.Cents(6), c.Calculate(Input{Items: []models.LineItem{line(69, 1)}}).Tax)
}

func TestCalculate_DoesNotMutateInput(t *testing.T) {
	items := []models.LineItem{line(1234, 3)}
	defaultCalc().Calculate(Input{Items: items})
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, models.Cents(1234), items[0].UnitPrice)
}

func TestParseDonation(t *testing.T) {
	c, err := ParseDonation("")
	require.NoError(t, err)
	assert.Equal(t, models.Cents(0), c)

	c, err = ParseDonation("2.50")
	require.NoError(t, err)
	assert.Equal(t, models.Cents(250), c)

	_, err = ParseDonation("abc")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "donation", verr.Field)

	_, err = ParseDonation("-1")
	require.ErrorAs(t, err, &verr)

	for _, huge := range []string{"184467440737095516.17", "1e20"} {
		_, err = ParseDonation(huge)
		require.ErrorAs(t, err, &verr, huge)
		assert.Equal(t, "donation", verr.Field)
	}
}

func TestValidateStandaloneDonation(t *testing.T) {
	assert.NoError(t, ValidateStandaloneDonation(200))
	err := ValidateStandaloneDonation(199)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum donation is $2.00")
}
