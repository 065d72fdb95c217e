package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candlegrove/storefront/internal/catalog"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := loadCatalog(t)
	products := c.All()
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.NameAr, "product %s is missing its Arabic name", p.ID)
		assert.Greater(t, p.Price, 0.0)
		assert.Equal(t, "EGP", p.Currency)
	}
}

func TestByID(t *testing.T) {
	c := loadCatalog(t)

	t.Run("Found", func(t *testing.T) {
		p, ok := c.ByID("candle-001")
		require.True(t, ok)
		assert.Equal(t, "Vanilla Dream Candle", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, ok := c.ByID("no-such-product")
		assert.False(t, ok)
	})
}

func TestByCategory(t *testing.T) {
	c := loadCatalog(t)

	t.Run("MatchesIgnoringCase", func(t *testing.T) {
		products := c.ByCategory("gift sets")
		require.NotEmpty(t, products)
		for _, p := range products {
			assert.Equal(t, "Gift Sets", p.Category)
		}
	})

	t.Run("UnknownCategoryIsEmpty", func(t *testing.T) {
		assert.Empty(t, c.ByCategory("Bath Bombs"))
	})
}

func TestByPriceRange(t *testing.T) {
	c := loadCatalog(t)

	products := c.ByPriceRange(250, 300)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Price, 250.0)
		assert.LessOrEqual(t, p.Price, 300.0)
	}

	// Bounds are inclusive.
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "candle-001") // priced exactly 250
}

func TestInStock(t *testing.T) {
	c := loadCatalog(t)

	products := c.InStock()
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.True(t, p.InStock)
		assert.NotEqual(t, "candle-005", p.ID)
	}
}

func TestSearch(t *testing.T) {
	c := loadCatalog(t)

	t.Run("EnglishNameMatch", func(t *testing.T) {
		products := c.Search("vanilla", catalog.LocaleEn)
		require.NotEmpty(t, products)
		assert.Equal(t, "candle-001", products[0].ID)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		assert.Equal(t, c.Search("VANILLA", catalog.LocaleEn), c.Search("vanilla", catalog.LocaleEn))
	})

	t.Run("ArabicNameMatch", func(t *testing.T) {
		products := c.Search("الفانيليا", catalog.LocaleAr)
		require.NotEmpty(t, products)
		assert.Equal(t, "candle-001", products[0].ID)
	})

	t.Run("FragranceMatch", func(t *testing.T) {
		products := c.Search("sandalwood", catalog.LocaleEn)
		require.NotEmpty(t, products)
		assert.Equal(t, "candle-002", products[0].ID)
	})

	t.Run("TagMatch", func(t *testing.T) {
		products := c.Search("ramadan", catalog.LocaleEn)
		require.Len(t, products, 1)
		assert.Equal(t, "candle-008", products[0].ID)
	})

	t.Run("BlankQueryReturnsNothing", func(t *testing.T) {
		assert.Empty(t, c.Search("   ", catalog.LocaleEn))
	})
}

func TestCategories(t *testing.T) {
	c := loadCatalog(t)

	t.Run("EnglishDistinctInDatasetOrder", func(t *testing.T) {
		cats := c.Categories(catalog.LocaleEn)
		assert.Equal(t, []string{"Scented Candles", "Gift Sets", "Pillar Candles"}, cats)
	})

	t.Run("ArabicLabels", func(t *testing.T) {
		cats := c.Categories(catalog.LocaleAr)
		assert.Equal(t, []string{"شموع معطرة", "مجموعات هدايا", "شموع أسطوانية"}, cats)
	})
}

func TestLocalizedName(t *testing.T) {
	c := loadCatalog(t)
	p, ok := c.ByID("candle-002")
	require.True(t, ok)

	assert.Equal(t, "Oud Royale Candle", p.LocalizedName(catalog.LocaleEn))
	assert.Equal(t, "شمعة العود الملكي", p.LocalizedName(catalog.LocaleAr))
}
