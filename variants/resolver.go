// Package variants turns a product's flat variant list and option metadata
// into the color/size matrix shown on the product page.
package variants

import (
	"math/rand"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
)

// DefaultSeparator joins option values in a variant title ("Black / M").
const DefaultSeparator = " / "

const (
	AxisTypeColor = "color"
	AxisTypeSize  = "size"
)

// AxisValues holds the distinct values seen at title positions 0 and 1.
type AxisValues struct {
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

// ExtractAxisValues splits the title of every enabled variant and collects the
// distinct values at position 0 (colors) and position 1 (sizes), in the order
// they are first seen.
func ExtractAxisValues(vs []models.Variant, sep string) AxisValues {
	if sep == "" {
		sep = DefaultSeparator
	}
	var out AxisValues
	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, v := range vs {
		if !v.IsEnabled {
			continue
		}
		parts := splitTitle(v.Title, sep, 2)
		if !seenColor[parts[0]] {
			seenColor[parts[0]] = true
			out.Colors = append(out.Colors, parts[0])
		}
		if !seenSize[parts[1]] {
			seenSize[parts[1]] = true
			out.Sizes = append(out.Sizes, parts[1])
		}
	}
	return out
}

// splitTitle returns exactly n components; missing ones are "".
func splitTitle(title, sep string, n int) []string {
	out := make([]string, n)
	for i, p := range strings.Split(title, sep) {
		if i >= n {
			break
		}
		out[i] = strings.TrimSpace(p)
	}
	return out
}

type parsedVariant struct {
	variant models.Variant
	values  map[string]string // axis name -> value
	color   string
	size    string
}

// Resolver answers selection questions for one product. Variant titles are
// parsed once, when the resolver is built.
type Resolver struct {
	product   models.Product
	colorAxis int // -1 when the product has no color axis
	sizeAxis  int // -1 when the product has no size axis
	parsed    []parsedVariant
}

// New builds a resolver using DefaultSeparator.
func New(p models.Product) *Resolver {
	return NewWithSeparator(p, DefaultSeparator)
}

func NewWithSeparator(p models.Product, sep string) *Resolver {
	if sep == "" {
		sep = DefaultSeparator
	}
	r := &Resolver{product: p, colorAxis: -1, sizeAxis: -1}

	for i, axis := range p.Options {
		if r.colorAxis < 0 && strings.EqualFold(axis.Type, AxisTypeColor) {
			r.colorAxis = i
		}
	}
	for i, axis := range p.Options {
		if r.sizeAxis < 0 && strings.EqualFold(axis.Type, AxisTypeSize) {
			r.sizeAxis = i
		}
	}
	if r.sizeAxis < 0 {
		for i := range p.Options {
			if i != r.colorAxis {
				r.sizeAxis = i
				break
			}
		}
	}
	if r.colorAxis < 0 {
		return r
	}

	n := len(p.Options)
	for _, v := range p.Variants {
		parts := splitTitle(v.Title, sep, n)
		pv := parsedVariant{variant: v, values: make(map[string]string, n)}
		for i, axis := range p.Options {
			pv.values[axis.Name] = parts[i]
		}
		pv.color = parts[r.colorAxis]
		if r.sizeAxis >= 0 {
			pv.size = parts[r.sizeAxis]
		}
		r.parsed = append(r.parsed, pv)
	}
	return r
}

// HasVariants reports whether the product has a usable color axis. Products
// without one are sold at their flat price.
func (r *Resolver) HasVariants() bool {
	return r.colorAxis >= 0 && len(r.parsed) > 0
}

// Values returns the parsed axis values of a variant (axis name -> value).
func (r *Resolver) Values(variantID int64) (map[string]string, bool) {
	for _, pv := range r.parsed {
		if pv.variant.ID == variantID {
			return pv.values, true
		}
	}
	return nil, false
}

// Colors returns the distinct colors of enabled variants.
func (r *Resolver) Colors() []string {
	var out []string
	seen := map[string]bool{}
	for _, pv := range r.parsed {
		if pv.variant.IsEnabled && !seen[pv.color] {
			seen[pv.color] = true
			out = append(out, pv.color)
		}
	}
	return out
}

// Sizes returns the distinct sizes of enabled variants.
func (r *Resolver) Sizes() []string {
	var out []string
	seen := map[string]bool{}
	for _, pv := range r.parsed {
		if pv.variant.IsEnabled && !seen[pv.size] {
			seen[pv.size] = true
			out = append(out, pv.size)
		}
	}
	return out
}

// SizesForColor returns every size offered for color, enabled or not, so the
// UI can render disabled options.
func (r *Resolver) SizesForColor(color string) []string {
	var out []string
	seen := map[string]bool{}
	for _, pv := range r.parsed {
		if pv.color == color && !seen[pv.size] {
			seen[pv.size] = true
			out = append(out, pv.size)
		}
	}
	return out
}

// EnabledSizesForColor returns the sizes of color that can be bought.
func (r *Resolver) EnabledSizesForColor(color string) []string {
	var out []string
	seen := map[string]bool{}
	for _, pv := range r.parsed {
		if pv.color == color && pv.variant.IsEnabled && !seen[pv.size] {
			seen[pv.size] = true
			out = append(out, pv.size)
		}
	}
	return out
}

// ResolveVariant returns the first enabled variant matching (color, size).
func (r *Resolver) ResolveVariant(color, size string) (models.Variant, bool) {
	for _, pv := range r.parsed {
		if pv.variant.IsEnabled && pv.color == color && pv.size == size {
			return pv.variant, true
		}
	}
	return models.Variant{}, false
}

// ImagesForColor returns the images mapped to any variant of color, enabled
// or not. Images without a source are skipped.
func (r *Resolver) ImagesForColor(color string) []models.Image {
	ids := map[int64]bool{}
	for _, pv := range r.parsed {
		if pv.color == color {
			ids[pv.variant.ID] = true
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var out []models.Image
	for _, img := range r.product.Images {
		if img.Src == "" {
			continue
		}
		for _, id := range img.VariantIDs {
			if ids[id] {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

// AvailableColors returns the colors that have at least one enabled variant
// and at least one image. Colors failing either check are never offered.
func (r *Resolver) AvailableColors() []string {
	var out []string
	for _, c := range r.Colors() {
		if len(r.ImagesForColor(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ColorHues returns the display hues declared for color on the color axis.
func (r *Resolver) ColorHues(color string) []string {
	if r.colorAxis < 0 {
		return nil
	}
	for _, v := range r.product.Options[r.colorAxis].Values {
		if v.Title == color {
			return v.Colors
		}
	}
	return nil
}

// PickThumbnail returns a random image of color. rng is injected so callers
// can seed it; a nil rng picks the first image.
func (r *Resolver) PickThumbnail(color string, rng *rand.Rand) (models.Image, bool) {
	imgs := r.ImagesForColor(color)
	if len(imgs) == 0 {
		return models.Image{}, false
	}
	if rng == nil {
		return imgs[0], true
	}
	return imgs[rng.Intn(len(imgs))], true
}

// DefaultSelection returns the first enabled variant, used by quick-add.
func (r *Resolver) DefaultSelection() (models.Variant, bool) {
	for _, v := range r.product.Variants {
		if v.IsEnabled {
			return v, true
		}
	}
	return models.Variant{}, false
}

// Describe returns the color and size parsed from a variant.
func (r *Resolver) Describe(variantID int64) (color, size string, ok bool) {
	for _, pv := range r.parsed {
		if pv.variant.ID == variantID {
			return pv.color, pv.size, true
		}
	}
	return "", "", false
}
