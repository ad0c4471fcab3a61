// Package printify talks to the Printify fulfillment API.
package printify

// Shop is an entry of /shops.json.
type Shop struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

type Image struct {
	Src                     string  `json:"src"`
	VariantIDs              []int64 `json:"variant_ids"`
	Position                string  `json:"position"`
	IsDefault               bool    `json:"is_default"`
	IsSelectedForPublishing bool    `json:"is_selected_for_publishing"`
}

// Variant prices are in cents, before the retail markup.
type Variant struct {
	ID        int64  `json:"id"`
	Price     int64  `json:"price"`
	IsEnabled bool   `json:"is_enabled"`
	Title     string `json:"title"`
}

type OptionValue struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Colors []string `json:"colors,omitempty"`
}

type Option struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []OptionValue `json:"values"`
}

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
	Options     []Option  `json:"options"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type productPage struct {
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
	Data        []Product `json:"data"`
}

// ShippingLineItem identifies a variant to ship.
type ShippingLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// Address is the destination of a shipping quote.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Region    string `json:"region,omitempty"`
	City      string `json:"city,omitempty"`
	Address1  string `json:"address1"`
	Zip       string `json:"zip"`
}

// ShippingCost holds the quote per shipping method, in cents. Methods the
// shop does not offer are absent.
type ShippingCost struct {
	Standard int64 `json:"standard"`
	Express  int64 `json:"express,omitempty"`
	Priority int64 `json:"priority,omitempty"`
	Economy  int64 `json:"economy,omitempty"`
}
