package checkout

import (
	"context"
	"fmt"

	"github.com/brianmwiruki/Thrills/models"
)

// ProductFetcher reads a product straight from the fulfillment provider.
// It returns nil, nil when the product no longer exists.
type ProductFetcher interface {
	FetchProduct(ctx context.Context, id string) (*models.Product, error)
}

// Validation is the outcome of re-checking a cart against the catalog.
type Validation struct {
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

// ValidateCart re-fetches every product in items and confirms the selected
// variant still exists and is enabled. It stops at the first offending line.
// Lines without a variant only need the product to be in stock.
func ValidateCart(ctx context.Context, products ProductFetcher, items []models.LineItem) (Validation, error) {
	fetched := map[string]*models.Product{}
	for _, it := range items {
		p, seen := fetched[it.ProductID]
		if !seen {
			var err error
			p, err = products.FetchProduct(ctx, it.ProductID)
			if err != nil {
				return Validation{}, fmt.Errorf("validate cart: %w", err)
			}
			fetched[it.ProductID] = p
		}
		if p == nil {
			return Validation{
				Message:   fmt.Sprintf("Product %s not found.", it.ProductID),
				ProductID: it.ProductID,
			}, nil
		}

		available := p.InStock
		if it.VariantID != 0 {
			v, ok := p.FindVariant(it.VariantID)
			available = ok && v.IsEnabled
		}
		if !available {
			return Validation{
				Message:   fmt.Sprintf("Selected variant is not available for %s.", p.Name),
				ProductID: p.ID,
			}, nil
		}
	}
	return Validation{Valid: true}, nil
}
