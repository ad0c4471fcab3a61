package models

import "time"

// LineItem is one cart line. UnitPrice is captured when the item is added and
// is never refreshed from the catalog.
type LineItem struct {
	Key           string    `json:"key"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Image         string    `json:"image,omitempty"`
	VariantID     int64     `json:"variant_id,omitempty"` // 0 when no variant was selected
	VariantTitle  string    `json:"variant_title,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	UnitPrice     Cents     `json:"unit_price"`
	Quantity      int       `json:"quantity"`
	AddedAt       time.Time `json:"added_at"`
}

// LineTotal is UnitPrice × Quantity.
func (li LineItem) LineTotal() Cents {
	return li.UnitPrice * Cents(li.Quantity)
}
