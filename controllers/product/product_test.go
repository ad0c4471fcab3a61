package productcontroller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/printify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type fakeSource struct {
	products []printify.Product
	err      error
}

func (f *fakeSource) ListProducts(_ context.Context, _, _ int, _ string) ([]printify.Product, error) {
	return f.products, f.err
}

func (f *fakeSource) GetProduct(_ context.Context, id string) (*printify.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func shop() *fakeSource {
	tee := printify.Product{
		ID:    "tee",
		Title: "Recycled Tee",
		Tags:  []string{"T-shirts", "Eco"},
		Options: []printify.Option{
			{Name: "Colors", Type: "color", Values: []printify.OptionValue{{ID: 1, Title: "Black"}, {ID: 2, Title: "White"}}},
			{Name: "Sizes", Type: "size", Values: []printify.OptionValue{{ID: 10, Title: "S"}, {ID: 11, Title: "M"}}},
		},
		Variants: []printify.Variant{
			{ID: 1, Title: "Black / S", Price: 2000, IsEnabled: true},
			{ID: 2, Title: "Black / M", Price: 2000, IsEnabled: true},
			{ID: 3, Title: "White / S", Price: 2000, IsEnabled: false},
		},
		Images: []printify.Image{{Src: "black.png", VariantIDs: []int64{1, 2}}},
	}
	mug := printify.Product{
		ID:       "mug",
		Title:    "Bamboo Mug",
		Tags:     []string{"Home", "Eco"},
		Variants: []printify.Variant{{ID: 9, Title: "Default", Price: 1000, IsEnabled: true}},
	}
	return &fakeSource{products: []printify.Product{tee, mug}}
}

func router(src *fakeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := catalog.NewService(src, nil, nil)
	r := gin.New()
	r.GET("/products", GetProducts(svc))
	r.GET("/products/:id", GetProductByID(svc))
	r.GET("/products/:id/variant", ResolveVariant(svc))
	r.GET("/admin/products/export-excel", ExportProductsToExcel(svc))
	return r
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestGetProducts(t *testing.T) {
	r := router(shop())

	w := get(r, "/products?sort_by=price-low")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products   []models.Product `json:"products"`
		Stale      bool             `json:"stale"`
		Categories []string         `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
	assert.Equal(t, "mug", body.Products[0].ID)
	assert.Equal(t, models.Cents(1300), body.Products[0].Price)
	assert.False(t, body.Stale)
	assert.ElementsMatch(t, []string{"T-shirts", "Home"}, body.Categories)

	w = get(r, "/products?min_price=20")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "tee", body.Products[0].ID)
}

func TestGetProducts_BadQuery(t *testing.T) {
	r := router(shop())
	assert.Equal(t, http.StatusBadRequest, get(r, "/products?min_price=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/products?page=x").Code)
}

func TestGetProducts_ProviderDown(t *testing.T) {
	r := router(&fakeSource{err: errors.New("boom")})
	w := get(r, "/products")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch products")
}

func TestGetProductByID(t *testing.T) {
	r := router(shop())

	w := get(r, "/products/tee")
	require.Equal(t, http.StatusOK, w.Code)
	var detail ProductDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Recycled Tee", detail.Product.Name)
	require.Len(t, detail.Matrix.Colors, 1)
	assert.Equal(t, "Black", detail.Matrix.Colors[0].Title)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "mug", detail.Related[0].ID)

	assert.Equal(t, http.StatusNotFound, get(r, "/products/nope").Code)
}

func TestResolveVariant(t *testing.T) {
	r := router(shop())

	w := get(r, "/products/tee/variant?color=Black&size=M")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Variant models.Variant `json:"variant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Variant.ID)
	assert.Equal(t, models.Cents(2600), body.Variant.Price)

	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/products/tee/variant?color=White&size=S").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/products/mug/variant?color=Black&size=S").Code)
}

func TestExportProductsToExcel(t *testing.T) {
	r := router(shop())

	w := get(r, "/admin/products/export-excel")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=products.xlsx", w.Header().Get("Content-Disposition"))

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0].Cells[1].Value)
	assert.Equal(t, "Bamboo Mug", rows[1].Cells[1].Value)
	assert.Equal(t, "26.00", rows[2].Cells[3].Value)
}
