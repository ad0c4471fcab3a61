package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutForm() models.CheckoutForm {
	return models.CheckoutForm{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+1 555 123 4567",
		Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
	}
}

func priced(t *testing.T, promo string, donation models.Cents, items ...models.LineItem) pricing.Summary {
	t.Helper()
	calc := pricing.NewCalculator(pricing.DefaultPolicy(), pricing.DefaultPromos())
	return calc.Calculate(pricing.Input{Items: items, PromoCode: promo, Donation: donation})
}

func TestNewCheckoutOrder_BreakdownMatchesSummary(t *testing.T) {
	items := []models.LineItem{
		{Key: "a:1", ProductName: "Tee", VariantTitle: "Black / M", UnitPrice: 2599, Quantity: 2},
		{Key: "b", ProductName: "Mug", UnitPrice: 1333, Quantity: 1},
	}
	cases := []struct {
		name     string
		promo    string
		donation models.Cents
	}{
		{"plain", "", 0},
		{"promo", "WELCOME10", 0},
		{"donation", "", 250},
		{"promo and donation", "welcome10", 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := priced(t, tc.promo, tc.donation, items...)
			order := NewCheckoutOrder(s, items, checkoutForm())

			require.NoError(t, order.Verify())
			unit := order.PurchaseUnits[0]
			assert.Equal(t, s.Total.String(), unit.Amount.Value)
			assert.Equal(t, IntentCapture, order.Intent)
			assert.Equal(t, "US", unit.Shipping.Address.CountryCode)
			assert.Equal(t, "ada@example.com", order.Payer.EmailAddress)
			if tc.donation > 0 {
				last := unit.Items[len(unit.Items)-1]
				assert.Equal(t, CategoryDonation, last.Category)
			}
			if tc.promo != "" {
				require.NotNil(t, unit.Amount.Breakdown.Discount)
			}
		})
	}
}

func TestNewCheckoutOrder_ItemNames(t *testing.T) {
	items := []models.LineItem{{Key: "a:1", ProductName: "Tee", VariantTitle: "Black / M", UnitPrice: 2500, Quantity: 1}}
	order := NewCheckoutOrder(priced(t, "", 0, items...), items, checkoutForm())
	assert.Equal(t, "Tee (Black / M)", order.PurchaseUnits[0].Items[0].Name)
}

func TestVerify_DetectsMismatch(t *testing.T) {
	items := []models.LineItem{{Key: "a", ProductName: "Tee", UnitPrice: 2500, Quantity: 2}}
	order := NewCheckoutOrder(priced(t, "", 0, items...), items, checkoutForm())

	order.PurchaseUnits[0].Amount.Value = "55.00"
	assert.Error(t, order.Verify())

	order = NewCheckoutOrder(priced(t, "", 0, items...), items, checkoutForm())
	order.PurchaseUnits[0].Items[0].Quantity = "3"
	assert.Error(t, order.Verify())

	assert.Error(t, OrderDetails{}.Verify())
}

func TestNewDonationOrder(t *testing.T) {
	order := NewDonationOrder(500)
	require.NoError(t, order.Verify())
	assert.Equal(t, "5.00", order.PurchaseUnits[0].Amount.Value)
	assert.Equal(t, CategoryDonation, order.PurchaseUnits[0].Items[0].Category)
}

type fakePayPal struct {
	tokenCalls   int32
	createCalls  int32
	captureCalls int32
	captureFail  bool
	requestIDs   []string
	lastOrder    OrderDetails
}

func (f *fakePayPal) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", id)
		assert.Equal(t, "secret", secret)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.createCalls, 1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		f.requestIDs = append(f.requestIDs, r.Header.Get("PayPal-Request-Id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastOrder))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"CREATED"}`))
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-1/capture", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.captureCalls, 1)
		if f.captureFail {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"name":"INSTRUMENT_DECLINED"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"COMPLETED"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CreateAndCapture(t *testing.T) {
	fake := &fakePayPal{}
	srv := fake.server(t)
	c, err := NewClient("id", "secret", WithBaseURL(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	id, err := c.CreateOrder(ctx, NewDonationOrder(300))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", id)
	assert.Equal(t, "3.00", fake.lastOrder.PurchaseUnits[0].Amount.Value)

	res, err := c.CaptureOrder(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Completed())

	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.tokenCalls), "token is cached")
	require.Len(t, fake.requestIDs, 1)
	assert.NotEmpty(t, fake.requestIDs[0])
}

func TestClient_CaptureFailureIsNotRetried(t *testing.T) {
	fake := &fakePayPal{captureFail: true}
	srv := fake.server(t)
	c, err := NewClient("id", "secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.CaptureOrder(context.Background(), "ORDER-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.captureCalls))
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient("", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
