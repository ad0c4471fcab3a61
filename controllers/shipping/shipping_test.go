package shippingControllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianmwiruki/Thrills/printify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoter struct {
	err   error
	items []printify.ShippingLineItem
	to    printify.Address
}

func (f *fakeQuoter) CalculateShipping(_ context.Context, items []printify.ShippingLineItem, to printify.Address) (*printify.ShippingCost, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items, f.to = items, to
	return &printify.ShippingCost{Standard: 499, Express: 1299}, nil
}

func estimate(q Quoter, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/shipping/estimate", EstimateShipping(q))
	req := httptest.NewRequest(http.MethodPost, "/shipping/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"line_items": [{"product_id": "tee", "variant_id": 2, "quantity": 1}],
	"address": {"first_name": "Ada", "country": "US", "address1": "1 Main St", "zip": "62701"}
}`

func TestEstimateShipping(t *testing.T) {
	q := &fakeQuoter{}
	w := estimate(q, validBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"standard":499,"express":1299}`, w.Body.String())
	require.Len(t, q.items, 1)
	assert.Equal(t, int64(2), q.items[0].VariantID)
	assert.Equal(t, "62701", q.to.Zip)
}

func TestEstimateShipping_Rejects(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, estimate(&fakeQuoter{}, `{"line_items": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, estimate(&fakeQuoter{}, `{"address": {"zip": "1"}}`).Code)
	assert.Equal(t, http.StatusBadRequest, estimate(&fakeQuoter{}, `nope`).Code)

	w := estimate(&fakeQuoter{err: errors.New("provider down")}, validBody)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
