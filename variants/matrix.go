package variants

import "github.com/brianmwiruki/Thrills/models"

// SizeOption is one size button for a color.
type SizeOption struct {
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}

// ColorOption is one purchasable color with its images and sizes.
type ColorOption struct {
	Title  string         `json:"title"`
	Hues   []string       `json:"hues,omitempty"`
	Images []models.Image `json:"images"`
	Sizes  []SizeOption   `json:"sizes"`
}

// Matrix is the selectable color/size grid of a product. An empty Colors list
// means the product is sold without variant selection.
type Matrix struct {
	Colors []ColorOption `json:"colors"`
}

// Matrix builds the grid over AvailableColors.
func (r *Resolver) Matrix() Matrix {
	m := Matrix{Colors: []ColorOption{}}
	for _, c := range r.AvailableColors() {
		enabled := map[string]bool{}
		for _, s := range r.EnabledSizesForColor(c) {
			enabled[s] = true
		}
		opt := ColorOption{
			Title:  c,
			Hues:   r.ColorHues(c),
			Images: r.ImagesForColor(c),
		}
		for _, s := range r.SizesForColor(c) {
			opt.Sizes = append(opt.Sizes, SizeOption{Title: s, Enabled: enabled[s]})
		}
		m.Colors = append(m.Colors, opt)
	}
	return m
}
