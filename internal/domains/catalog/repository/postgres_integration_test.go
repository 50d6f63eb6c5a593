//go:build integration

package repository

import (
	"context"
	"net/url"
	"testing"

	"storefront-backend/internal/domains/catalog"
	"storefront-backend/pkg/database/dbtest"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	categoryID uuid.UUID
}

// seedCatalog: category "rings" chứa 3 product (2 platinum, 1 gold, 1 trong số platinum có màu red),
// thêm 1 product platinum nằm ngoài category
func seedCatalog(t *testing.T, pool *pgxpool.Pool) catalogFixture {
	t.Helper()

	metal, color := uuid.New(), uuid.New()
	dbtest.Exec(t, pool, `INSERT INTO attributes (id, name, slug, position) VALUES ($1, 'Metal', 'metal', 1), ($2, 'Color', 'color', 2)`, metal, color)

	platinum, gold, red := uuid.New(), uuid.New(), uuid.New()
	dbtest.Exec(t, pool, `INSERT INTO attribute_values (id, attribute_id, value, slug, position) VALUES
		($1, $4, 'Platinum', 'platinum', 1),
		($2, $4, 'Gold', 'gold', 2),
		($3, $5, 'Red', 'red', 1)`, platinum, gold, red, metal, color)

	categoryID := uuid.New()
	dbtest.Exec(t, pool, `INSERT INTO categories (id, name, slug) VALUES ($1, 'Rings', 'rings')`, categoryID)

	tag := func(productID uuid.UUID, values ...uuid.UUID) {
		for _, v := range values {
			dbtest.Exec(t, pool, `INSERT INTO product_attribute_values (product_id, attribute_value_id) VALUES ($1, $2)`, productID, v)
		}
	}
	inCategory := func(productID uuid.UUID) {
		dbtest.Exec(t, pool, `INSERT INTO category_products (category_id, product_id) VALUES ($1, $2)`, categoryID, productID)
	}

	p1, _ := dbtest.Product(t, pool, "platinum-red-ring", "120.00", 3)
	p2, _ := dbtest.Product(t, pool, "gold-ring", "90.00", 1)
	p3, _ := dbtest.Product(t, pool, "platinum-ring", "150.00", 0)
	p4, _ := dbtest.Product(t, pool, "platinum-pendant", "200.00", 5)

	tag(p1, platinum, red)
	tag(p2, gold)
	tag(p3, platinum)
	tag(p4, platinum)
	inCategory(p1)
	inCategory(p2)
	inCategory(p3)

	return catalogFixture{categoryID: categoryID}
}

func parseFilters(t *testing.T, raw url.Values) []catalog.AppliedFilter {
	t.Helper()
	q, err := catalog.DefaultRegistry().ParseListQuery(raw, catalog.ListOptions{DefaultPerPage: 24})
	require.NoError(t, err)
	return q.Filters
}

// facetCounts: "attribute/value" -> product_count
func facetCounts(rows []catalog.FacetRow) map[string]int {
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.AttributeSlug+"/"+r.ValueSlug] = r.ProductCount
	}
	return out
}

func TestFacetRows_CountsWithinFilteredSet(t *testing.T) {
	pool := dbtest.Open(t)
	fx := seedCatalog(t, pool)
	r := NewPostgresRepository(pool)
	ctx := context.Background()
	scope := catalog.Scope{CategoryID: &fx.categoryID}

	t.Run("scope only", func(t *testing.T) {
		rows, err := r.FacetRows(ctx, scope, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{
			"metal/platinum": 2,
			"metal/gold":     1,
			"color/red":      1,
		}, facetCounts(rows))
	})

	t.Run("scope and attribute filter", func(t *testing.T) {
		rows, err := r.FacetRows(ctx, scope, parseFilters(t, url.Values{"filter[metal]": {"platinum"}}))
		require.NoError(t, err)
		// gold không còn trong tập lọc nên không có dòng nào
		assert.Equal(t, map[string]int{
			"metal/platinum": 2,
			"color/red":      1,
		}, facetCounts(rows))
	})

	t.Run("scope, attribute and price filters", func(t *testing.T) {
		rows, err := r.FacetRows(ctx, scope, parseFilters(t, url.Values{
			"filter[metal]":     {"platinum,gold"},
			"filter[price_max]": {"130"},
		}))
		require.NoError(t, err)
		assert.Equal(t, map[string]int{
			"metal/platinum": 1,
			"metal/gold":     1,
			"color/red":      1,
		}, facetCounts(rows))
	})
}

func TestListProducts_MatchesFacetScope(t *testing.T) {
	pool := dbtest.Open(t)
	fx := seedCatalog(t, pool)
	r := NewPostgresRepository(pool)

	products, total, err := r.ListProducts(context.Background(), catalog.ProductQuery{
		Scope:   catalog.Scope{CategoryID: &fx.categoryID},
		Filters: parseFilters(t, url.Values{"filter[metal]": {"platinum"}}),
		Limit:   24,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	slugs := make([]string, 0, len(products))
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	assert.ElementsMatch(t, []string{"platinum-red-ring", "platinum-ring"}, slugs)
}
