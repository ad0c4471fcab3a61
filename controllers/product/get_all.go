package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/gin-gonic/gin"
)

// GET /products
func GetProducts(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := catalog.Query{
			Tag:      c.Query("tag"),
			Search:   c.Query("search"),
			Category: c.Query("category"),
			SortBy:   c.DefaultQuery("sort_by", catalog.SortName),
		}

		var err error
		if q.Page, err = intParam(c, "page", 1); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		if q.Limit, err = intParam(c, "limit", 20); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if v := c.Query("min_price"); v != "" {
			if q.MinPrice, err = models.ParseCents(v); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
		}
		if v := c.Query("max_price"); v != "" {
			if q.MaxPrice, err = models.ParseCents(v); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
		}

		listing, err := svc.ListProducts(c.Request.Context(), q)
		if err != nil {
			_ = c.Error(err)
			// the shop page still renders, with a notice
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":    "Failed to fetch products",
				"products": listing.Products,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":   listing.Products,
			"stale":      listing.Stale,
			"categories": catalog.Categories(listing.Products),
		})
	}
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
