package donationControllers

import (
	"net/http"

	"github.com/brianmwiruki/Thrills/checkout"
	checkoutControllers "github.com/brianmwiruki/Thrills/controllers/checkout"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/gin-gonic/gin"
)

// DonationInput accepts the amount as a number or a string, in dollars.
type DonationInput struct {
	Amount models.Cents `json:"amount"`
}

// POST /donations
func CreateDonation(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DonationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation amount"})
			return
		}

		orderID, err := svc.BeginDonation(c.Request.Context(), input.Amount)
		if err != nil {
			checkoutControllers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID, "amount": input.Amount})
	}
}

// POST /donations/:orderID/capture
func CaptureDonation(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		capture, err := svc.CompleteDonation(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			checkoutControllers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id": capture.OrderID,
			"status":   capture.Status,
			"message":  "Thank you for supporting green initiatives!",
		})
	}
}
