package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCache stores snapshots in the cached_products table.
type GormCache struct {
	db *gorm.DB
}

// NewGormCache migrates the cache table.
func NewGormCache(db *gorm.DB) (*GormCache, error) {
	if err := db.AutoMigrate(&models.CachedProduct{}); err != nil {
		return nil, fmt.Errorf("migrate cached products: %w", err)
	}
	return &GormCache{db: db}, nil
}

func (g *GormCache) Put(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]models.CachedProduct, 0, len(products))
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ID, err)
		}
		rows = append(rows, models.CachedProduct{
			ID:      p.ID,
			Name:    p.Name,
			Tags:    strings.Join(p.Tags, ","),
			Payload: string(payload),
		})
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

func (g *GormCache) Get(ctx context.Context, id string) (*models.Product, error) {
	var row models.CachedProduct
	err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(row)
}

func (g *GormCache) All(ctx context.Context) ([]models.Product, error) {
	var rows []models.CachedProduct
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func decode(row models.CachedProduct) (*models.Product, error) {
	var p models.Product
	if err := json.Unmarshal([]byte(row.Payload), &p); err != nil {
		return nil, fmt.Errorf("decode cached product %s: %w", row.ID, err)
	}
	return &p, nil
}
