package cache

import (
	"context"
	"os"
	"testing"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func products() []models.Product {
	return []models.Product{
		{ID: "b", Name: "Hoodie", Price: 4500, Tags: []string{"Hoodies"}},
		{ID: "a", Name: "Tee", Price: 2500, Tags: []string{"T-shirts", "Eco"},
			Variants: []models.Variant{{ID: 1, Title: "Black / M", Price: 2600, IsEnabled: true}}},
	}
}

func exercise(t *testing.T, c Cache) {
	ctx := context.Background()

	missing, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.Put(ctx, products()))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tee", got.Name)
	assert.Equal(t, models.Cents(2600), got.Variants[0].Price)

	updated := products()[1]
	updated.Price = 2000
	require.NoError(t, c.Put(ctx, []models.Product{updated}))

	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, models.Cents(2000), all[0].Price)
}

func TestMemoryCache(t *testing.T) {
	exercise(t, NewMemoryCache())
}

func TestGormCache(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.CachedProduct{}))

	c, err := NewGormCache(db)
	require.NoError(t, err)
	exercise(t, c)
}
