package routes

import (
	productcontroller "github.com/brianmwiruki/Thrills/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes registers the public catalog.
func SetupProductRoutes(r *gin.Engine, d *Deps) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Catalog))                // GET /products
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))         // GET /products/:id
		products.GET("/:id/variant", productcontroller.ResolveVariant(d.Catalog)) // GET /products/:id/variant
	}
}
