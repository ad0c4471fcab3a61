package printify

import (
	"github.com/brianmwiruki/Thrills/models"
	"github.com/shopspring/decimal"
)

// Markup is applied to every provider price to get the retail price.
var Markup = decimal.RequireFromString("1.3")

const uncategorized = "Uncategorized"

func retail(price int64) models.Cents {
	return models.Cents(decimal.NewFromInt(price).Mul(Markup).Round(0).IntPart())
}

// Adapt converts a provider product into the storefront product. The flat
// price comes from the first variant.
func Adapt(p Product) models.Product {
	out := models.Product{
		ID:          p.ID,
		Name:        p.Title,
		Description: p.Description,
		Tags:        append([]string{}, p.Tags...),
		Category:    uncategorized,
	}
	if len(p.Tags) > 0 && p.Tags[0] != "" {
		out.Category = p.Tags[0]
	}
	if len(p.Variants) > 0 {
		out.Price = retail(p.Variants[0].Price)
		out.OriginalPrice = models.Cents(p.Variants[0].Price)
	}

	for _, v := range p.Variants {
		if v.IsEnabled {
			out.InStock = true
		}
		out.Variants = append(out.Variants, models.Variant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     retail(v.Price),
			IsEnabled: v.IsEnabled,
		})
	}

	out.Images = make([]models.Image, 0, len(p.Images))
	for _, img := range p.Images {
		out.Images = append(out.Images, models.Image{
			Src:                     img.Src,
			VariantIDs:              img.VariantIDs,
			Position:                img.Position,
			IsDefault:               img.IsDefault,
			IsSelectedForPublishing: img.IsSelectedForPublishing,
		})
	}

	for _, o := range p.Options {
		axis := models.OptionAxis{Name: o.Name, Type: o.Type}
		for _, v := range o.Values {
			axis.Values = append(axis.Values, models.OptionValue{ID: v.ID, Title: v.Title, Colors: v.Colors})
		}
		out.Options = append(out.Options, axis)
	}
	return out
}

// AdaptAll adapts a page of products.
func AdaptAll(ps []Product) []models.Product {
	out := make([]models.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, Adapt(p))
	}
	return out
}
