// Package catalog serves storefront products from the fulfillment provider,
// falling back to the last cached snapshot when the provider fails.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianmwiruki/Thrills/cache"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/printify"
	"go.uber.org/zap"
)

// ErrUnavailable means the provider failed and nothing was cached.
var ErrUnavailable = errors.New("catalog unavailable")

// relatedPool is how many products are scanned for related items.
const relatedPool = 30

// Source is the subset of the Printify client the catalog needs.
type Source interface {
	ListProducts(ctx context.Context, page, limit int, tag string) ([]printify.Product, error)
	GetProduct(ctx context.Context, id string) (*printify.Product, error)
}

// Listing is a page of products. Stale is set when the products came from
// the cache.
type Listing struct {
	Products []models.Product `json:"products"`
	Stale    bool             `json:"stale"`
}

type Service struct {
	source Source
	cache  cache.Cache
	log    *zap.Logger
}

func NewService(source Source, c cache.Cache, log *zap.Logger) *Service {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, cache: c, log: log}
}

// ListProducts returns the filtered listing for q.
func (s *Service) ListProducts(ctx context.Context, q Query) (Listing, error) {
	products, err := s.fetchAll(ctx, q.Page, q.Limit, q.Tag)
	if err == nil {
		return Listing{Products: q.Apply(products)}, nil
	}

	cached, cerr := s.cache.All(ctx)
	if cerr != nil {
		s.log.Error("catalog cache read failed", zap.Error(cerr))
	}
	if len(cached) == 0 {
		return Listing{Products: []models.Product{}}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.log.Warn("serving cached catalog", zap.Error(err), zap.Int("products", len(cached)))
	var tagged []models.Product
	for _, p := range cached {
		if hasTag(p, q.Tag) {
			tagged = append(tagged, p)
		}
	}
	return Listing{Products: q.Apply(tagged), Stale: true}, nil
}

// GetProduct returns nil, nil when the product does not exist. When the
// provider fails the cached copy is returned.
func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.FetchProduct(ctx, id)
	if err == nil {
		return p, nil
	}

	cached, cerr := s.cache.Get(ctx, id)
	if cerr != nil {
		s.log.Error("catalog cache read failed", zap.String("product_id", id), zap.Error(cerr))
	}
	if cached == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.log.Warn("serving cached product", zap.String("product_id", id), zap.Error(err))
	return cached, nil
}

// FetchProduct reads the product from the provider only. Checkout uses it
// so that stock is never judged from a stale snapshot.
func (s *Service) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	raw, err := s.source.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	p := printify.Adapt(*raw)
	s.store(ctx, []models.Product{p})
	return &p, nil
}

// Related returns up to n products sharing a tag with p, excluding p.
func (s *Service) Related(ctx context.Context, p models.Product, n int) []models.Product {
	listing, err := s.ListProducts(ctx, Query{Page: 1, Limit: relatedPool})
	if err != nil {
		s.log.Warn("related products unavailable", zap.String("product_id", p.ID), zap.Error(err))
		return []models.Product{}
	}
	out := []models.Product{}
	for _, other := range listing.Products {
		if len(out) >= n {
			break
		}
		if other.ID == p.ID {
			continue
		}
		for _, t := range other.Tags {
			if p.HasTag(t) {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

func (s *Service) fetchAll(ctx context.Context, page, limit int, tag string) ([]models.Product, error) {
	raw, err := s.source.ListProducts(ctx, page, limit, tag)
	if err != nil {
		return nil, err
	}
	products := printify.AdaptAll(raw)
	s.store(ctx, products)
	return products, nil
}

func (s *Service) store(ctx context.Context, products []models.Product) {
	if err := s.cache.Put(ctx, products); err != nil {
		s.log.Warn("catalog cache write failed", zap.Error(err))
	}
}
