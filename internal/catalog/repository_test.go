package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	// In-memory database, seeded through the real migrations
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("./migrations"))
	return repo
}

func TestList_ReturnsSeededProductsInIDOrder(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.List(context.Background(), Filter{})

	require.NoError(t, err)
	require.Len(t, products, 8)
	assert.Equal(t, "Espresso", products[0].Name)
	assert.Equal(t, int64(22000), products[0].Price)
	assert.Equal(t, "Iced Tea", products[7].Name)
}

func TestList_FilterByCategory(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.List(context.Background(), Filter{Category: "Pastries"})

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Croissant", products[0].Name)
	assert.Equal(t, "Muffin", products[1].Name)
}

func TestList_SearchIsCaseInsensitive(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.List(context.Background(), Filter{Query: "LATTE"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Latte", products[0].Name)
}

func TestList_CategoryAndSearchCombined(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.List(context.Background(), Filter{Category: "Hot Drinks", Query: "cap"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cappuccino", products[0].Name)
}

func TestGet(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Croissant", p.Name)
	assert.Equal(t, "Pastries", p.Category)

	_, err = repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCategories(t *testing.T) {
	repo := setupTestDB(t)

	categories, err := repo.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Cold Drinks", "Hot Drinks", "Pastries"}, categories)
}
