package routes

import (
	cartControllers "github.com/brianmwiruki/Thrills/controllers/cart"
	checkoutControllers "github.com/brianmwiruki/Thrills/controllers/checkout"
	"github.com/brianmwiruki/Thrills/middleware"
	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes registers all "/session/*" endpoints. Requires a guest
// session token.
func SetupSessionRoutes(r *gin.Engine, d *Deps) {
	sessionGroup := r.Group("/session")
	sessionGroup.Use(middleware.ValidateToken(d.Issuer))
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := sessionGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetSessionCart(d.Carts))                                  // GET /session/cart
			cartGroup.POST("", cartControllers.AddCartItem(d.Carts, d.Catalog))                         // POST /session/cart
			cartGroup.DELETE("", cartControllers.ClearSessionCart(d.Carts))                             // DELETE /session/cart
			cartGroup.GET("/summary", cartControllers.GetCartSummary(d.Carts, d.Checkout.Calculator())) // GET /session/cart/summary
			cartGroup.GET("/ws", cartControllers.CartWebSocketHandler(d.Carts))                         // GET /session/cart/ws
			cartGroup.POST("/validate", cartControllers.ValidateSessionCart(d.Carts, d.Catalog))        // POST /session/cart/validate
			cartGroup.PUT("/:key", cartControllers.UpdateCartItem(d.Carts))                             // PUT /session/cart/:key
			cartGroup.DELETE("/:key", cartControllers.DeleteCartItem(d.Carts))                          // DELETE /session/cart/:key
		}

		// ──────────────── Checkout ────────────────
		checkoutGroup := sessionGroup.Group("/checkout")
		{
			checkoutGroup.POST("", checkoutControllers.BeginCheckout(d.Carts, d.Checkout))                    // POST /session/checkout
			checkoutGroup.POST("/:orderID/capture", checkoutControllers.CaptureCheckout(d.Carts, d.Checkout)) // POST /session/checkout/:orderID/capture
		}
	}
}
