package cartControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/brianmwiruki/Thrills/cart"
	"github.com/brianmwiruki/Thrills/catalog"
	"github.com/brianmwiruki/Thrills/checkout"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/brianmwiruki/Thrills/variants"
	"github.com/gin-gonic/gin"
)

// AddItemInput picks a product line. A variant is chosen either by id or by
// color and size; with neither, the first purchasable variant is used.
type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID int64  `json:"variant_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// UpdateItemInput sets a line quantity; 0 or less removes the line.
type UpdateItemInput struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

var quantityLimitMessage = fmt.Sprintf("Quantity must be between 1 and %d.", cart.MaxQuantity)

func sessionCart(c *gin.Context, carts *cart.Registry) (*cart.Store, bool) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return carts.Get(sessionID), true
}

// GET /session/cart
func GetSessionCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// POST /session/cart
func AddCartItem(carts *cart.Registry, svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		product, err := svc.GetProduct(c.Request.Context(), input.ProductID)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to retrieve product"})
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		sel, msg := selectionFor(*product, input)
		if msg != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
			return
		}
		if err := store.AddItems(sel, input.Quantity); err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": quantityLimitMessage})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, store.Snapshot())
	}
}

func selectionFor(p models.Product, input AddItemInput) (cart.Selection, string) {
	sel := cart.Selection{Product: p}
	r := variants.New(p)

	if !r.HasVariants() {
		if input.VariantID != 0 {
			v, found := p.FindVariant(input.VariantID)
			if !found || !v.IsEnabled {
				return sel, "Selected variant is not available"
			}
			sel.Variant = &v
			return sel, ""
		}
		if !p.InStock {
			return sel, "This product is currently out of stock."
		}
		return sel, ""
	}

	// colors without an image are never offered, so they cannot be bought
	offered := map[string]bool{}
	for _, color := range r.AvailableColors() {
		offered[color] = true
	}
	purchasable := func(v models.Variant) bool {
		color, _, ok := r.Describe(v.ID)
		return ok && v.IsEnabled && offered[color]
	}

	var (
		v     models.Variant
		found bool
	)
	switch {
	case input.VariantID != 0:
		v, found = p.FindVariant(input.VariantID)
		if !found || !purchasable(v) {
			return sel, "Selected variant is not available"
		}
	case input.Color != "" || input.Size != "":
		v, found = r.ResolveVariant(input.Color, input.Size)
		if !found || !purchasable(v) {
			return sel, "Please select a valid color and size"
		}
	default:
		for _, candidate := range p.Variants {
			if purchasable(candidate) {
				v, found = candidate, true
				break
			}
		}
		if !found {
			return sel, "This product is currently out of stock."
		}
	}

	sel.Variant = &v
	sel.Color, sel.Size, _ = r.Describe(v.ID)
	return sel, ""
}

// PUT /session/cart/:key
func UpdateCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		key := c.Param("key")
		if _, found := store.Item(key); !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if err := store.UpdateQuantity(key, *input.Quantity); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": quantityLimitMessage})
			return
		}

		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /session/cart/:key
func DeleteCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}
		store.RemoveItem(c.Param("key"))
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /session/cart
func ClearSessionCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}
		store.ClearCart()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}

// GET /session/cart/summary?promo_code=&donation=
func GetCartSummary(carts *cart.Registry, calc *pricing.Calculator) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}

		donation, err := pricing.ParseDonation(c.Query("donation"))
		if err != nil {
			var verr *pricing.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field": verr.Field})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation"})
			return
		}

		code := c.Query("promo_code")
		summary := calc.Calculate(pricing.Input{
			Items:     store.Items(),
			PromoCode: code,
			Donation:  donation,
		})
		c.JSON(http.StatusOK, gin.H{
			"summary":     summary,
			"promo_valid": code == "" || summary.AppliedPromo != "",
		})
	}
}

// POST /session/cart/validate
func ValidateSessionCart(carts *cart.Registry, svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}
		v, err := checkout.ValidateCart(c.Request.Context(), svc, store.Items())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to validate cart"})
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// GET /admin/carts/:session_id
func GetAdminSessionCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := carts.Lookup(c.Param("session_id"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart":          store.Snapshot(),
			"last_activity": store.LastActivity(),
		})
	}
}
