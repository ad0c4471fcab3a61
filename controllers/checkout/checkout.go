package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/brianmwiruki/Thrills/cart"
	"github.com/brianmwiruki/Thrills/checkout"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/gin-gonic/gin"
)

// POST /session/checkout
func BeginCheckout(carts *cart.Registry, svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		res, err := svc.Begin(c.Request.Context(), sessionID, carts.Get(sessionID), req)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// POST /session/checkout/:orderID/capture
func CaptureCheckout(carts *cart.Registry, svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		capture, err := svc.Complete(c.Request.Context(), sessionID, carts.Get(sessionID), c.Param("orderID"))
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, capture)
	}
}

// RespondError maps checkout failures to a status and a message the
// checkout page can show as is.
func RespondError(c *gin.Context, err error) {
	var (
		fieldErrs checkout.ValidationErrors
		fieldErr  *pricing.ValidationError
		stale     *checkout.StaleCartError
		payment   *checkout.PaymentError
	)
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErrs[0].Message, "fields": fieldErrs})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErr.Message, "fields": []*pricing.ValidationError{fieldErr}})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.As(err, &stale):
		c.JSON(http.StatusConflict, gin.H{"error": stale.Message, "product_id": stale.ProductID})
	case errors.Is(err, checkout.ErrUnknownOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.As(err, &payment):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment could not be processed. Please try again."})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
