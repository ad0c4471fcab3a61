package routes

import (
	donationControllers "github.com/brianmwiruki/Thrills/controllers/donation"
	shippingControllers "github.com/brianmwiruki/Thrills/controllers/shipping"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the endpoints that need no cart: standalone
// donations and shipping quotes.
func SetupOrderRoutes(r *gin.Engine, d *Deps) {
	donations := r.Group("/donations")
	{
		donations.POST("", donationControllers.CreateDonation(d.Checkout))
		donations.POST("/:orderID/capture", donationControllers.CaptureDonation(d.Checkout))
	}

	r.POST("/shipping/estimate", shippingControllers.EstimateShipping(d.Shipping))
}
