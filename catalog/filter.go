package catalog

import (
	"sort"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
)

const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Query is a shop listing request. Zero values disable a filter; MaxPrice 0
// means no upper bound.
type Query struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Tag      string `form:"tag"`
	Search   string `form:"search"`
	Category string `form:"category"`
	MinPrice models.Cents
	MaxPrice models.Cents
	SortBy   string `form:"sort_by"`
}

// Apply filters and sorts products without modifying the input slice.
func (q Query) Apply(products []models.Product) []models.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matches(p, search) {
			continue
		}
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch q.SortBy {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func matches(p models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func hasTag(p models.Product, tag string) bool {
	return tag == "" || tag == "all" || p.HasTag(tag)
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []models.Product) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
