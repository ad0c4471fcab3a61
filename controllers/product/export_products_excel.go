package productcontroller

import (
	"net/http"
	"strings"

	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// GET /admin/products/export-excel
func ExportProductsToExcel(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := svc.ListProducts(c.Request.Context(), catalog.Query{Page: 1, Limit: 50, SortBy: catalog.SortName})
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Category", "Price", "OriginalPrice", "DiscountPercent",
			"InStock", "Tags", "Variants", "EnabledVariants", "Image",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range listing.Products {
			enabled := 0
			for _, v := range p.Variants {
				if v.IsEnabled {
					enabled++
				}
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Price.String())
			row.AddCell().SetValue(p.OriginalPrice.String())
			row.AddCell().SetValue(p.DiscountPercentage())
			row.AddCell().SetValue(p.InStock)
			row.AddCell().SetValue(strings.Join(p.Tags, ","))
			row.AddCell().SetValue(len(p.Variants))
			row.AddCell().SetValue(enabled)
			row.AddCell().SetValue(p.PrimaryImage())
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		if listing.Stale {
			c.Header("X-Catalog-Stale", "true")
		}

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
			return
		}
	}
}
