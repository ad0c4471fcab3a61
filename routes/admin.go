package routes

import (
	cartControllers "github.com/brianmwiruki/Thrills/controllers/cart"
	productcontroller "github.com/brianmwiruki/Thrills/controllers/product"
	"github.com/brianmwiruki/Thrills/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d *Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		adminGroup.GET("/products/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
		adminGroup.GET("/carts/:session_id", cartControllers.GetAdminSessionCart(d.Carts))
	}
}
