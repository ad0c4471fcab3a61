package shippingControllers

import (
	"context"
	"net/http"

	"github.com/brianmwiruki/Thrills/printify"
	"github.com/gin-gonic/gin"
)

// Quoter prices shipping with the fulfillment provider.
type Quoter interface {
	CalculateShipping(ctx context.Context, items []printify.ShippingLineItem, to printify.Address) (*printify.ShippingCost, error)
}

type EstimateInput struct {
	LineItems []printify.ShippingLineItem `json:"line_items"`
	Address   *printify.Address           `json:"address"`
}

// POST /shipping/estimate
func EstimateShipping(q Quoter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input EstimateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if len(input.LineItems) == 0 || input.Address == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing line_items or address"})
			return
		}

		cost, err := q.CalculateShipping(c.Request.Context(), input.LineItems, *input.Address)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to calculate shipping"})
			return
		}
		c.JSON(http.StatusOK, cost)
	}
}
