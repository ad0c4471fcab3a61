package models

import "math"

// Product is the storefront view of a catalog product. Prices are already
// marked up for retail.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         Cents        `json:"price"`
	OriginalPrice Cents        `json:"original_price,omitempty"`
	InStock       bool         `json:"in_stock"`
	Images        []Image      `json:"images"`
	Tags          []string     `json:"tags"`
	Category      string       `json:"category"`
	Variants      []Variant    `json:"variants,omitempty"`
	Options       []OptionAxis `json:"options,omitempty"`
}

// Variant is one purchasable option combination. Title encodes one value per
// option axis, e.g. "Black / M".
type Variant struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     Cents  `json:"price"`
	IsEnabled bool   `json:"is_enabled"`
}

// OptionAxis declares one option dimension of a product (color, size, ...).
type OptionAxis struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []OptionValue `json:"values"`
}

type OptionValue struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Colors []string `json:"colors,omitempty"` // display hues (hex)
}

// Image is a product mockup. An empty VariantIDs list means the image is not
// tied to any variant.
type Image struct {
	Src                     string  `json:"src"`
	VariantIDs              []int64 `json:"variant_ids"`
	Position                string  `json:"position"`
	IsDefault               bool    `json:"is_default"`
	IsSelectedForPublishing bool    `json:"is_selected_for_publishing"`
}

// PrimaryImage returns the first image with a source, or "".
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.Src != "" {
			return img.Src
		}
	}
	return ""
}

// FindVariant looks a variant up by id.
func (p Product) FindVariant(id int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// HasTag reports whether the product carries tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DiscountPercentage is the "% OFF" badge value relative to OriginalPrice.
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice <= 0 {
		return 0
	}
	diff := float64(p.OriginalPrice-p.Price) / float64(p.OriginalPrice) * 100
	return int(math.Round(diff))
}
