package routes

import (
	"net/http"

	"github.com/brianmwiruki/Thrills/auth"
	"github.com/brianmwiruki/Thrills/cart"
	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/checkout"
	shippingControllers "github.com/brianmwiruki/Thrills/controllers/shipping"
	"github.com/gin-gonic/gin"
)

// Deps are the services the handlers are built from.
type Deps struct {
	Issuer      *auth.Issuer
	Carts       *cart.Registry
	Catalog     *catalog.Service
	Checkout    *checkout.Service
	Shipping    shippingControllers.Quoter
	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// public
	SetupAuthRoutes(r, d)
	SetupProductRoutes(r, d)

	// guest session token
	SetupSessionRoutes(r, d)

	// payments and fulfillment
	SetupOrderRoutes(r, d)

	// API key
	SetupAdminRoutes(r, d)
}
