package models

import "time"

// CachedProduct is the last catalog snapshot seen for a product, kept so that
// listing pages can degrade to cached data when the catalog is unreachable.
type CachedProduct struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Tags      string // comma separated
	Payload   string `gorm:"type:text;not null"` // JSON encoded Product
	UpdatedAt time.Time
}
