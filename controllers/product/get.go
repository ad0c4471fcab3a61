package productcontroller

import (
	"net/http"

	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/variants"
	"github.com/gin-gonic/gin"
)

const relatedCount = 4

// ProductDetail is the product page payload.
type ProductDetail struct {
	Product            models.Product   `json:"product"`
	DiscountPercentage int              `json:"discount_percentage"`
	Matrix             variants.Matrix  `json:"matrix"`
	Related            []models.Product `json:"related"`
}

// GetProductByID returns a product with its color/size matrix and related
// products.
// URL param: /products/:id
func GetProductByID(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(c, svc)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, ProductDetail{
			Product:            *product,
			DiscountPercentage: product.DiscountPercentage(),
			Matrix:             variants.New(*product).Matrix(),
			Related:            svc.Related(c.Request.Context(), *product, relatedCount),
		})
	}
}

// GET /products/:id/variant?color=&size=
func ResolveVariant(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(c, svc)
		if !ok {
			return
		}
		r := variants.New(*product)
		if !r.HasVariants() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Product has no color or size options"})
			return
		}

		color := c.Query("color")
		v, found := r.ResolveVariant(color, c.Query("size"))
		if !found {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":           "Selected combination is not available",
				"available_sizes": r.EnabledSizesForColor(color),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"variant": v,
			"images":  r.ImagesForColor(color),
		})
	}
}

func loadProduct(c *gin.Context, svc *catalog.Service) (*models.Product, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return nil, false
	}
	product, err := svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to retrieve product"})
		return nil, false
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil, false
	}
	return product, true
}
