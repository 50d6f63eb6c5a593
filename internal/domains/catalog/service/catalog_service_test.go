package service

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"testing"
	"time"

	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/shared/apperror"
	"storefront-backend/pkg/cache/cachetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// FAKE REPOSITORY
// ============================================================
// fakeRepo đánh giá scope + filter attribute trong memory:
// mọi filter key được hiểu là slug của attribute

type fakeAttrValue struct {
	attr  catalog.Attribute
	value catalog.AttributeValue
}

type fakeRepo struct {
	products    []catalog.Product
	categoryOf  map[uuid.UUID][]uuid.UUID // product → categories
	attrsOf     map[uuid.UUID][]fakeAttrValue
	categories  []catalog.Category
	collections []catalog.Collection

	listCalls  int
	lastQuery  catalog.ProductQuery
	loadedWith catalog.IncludeSet
	facetCalls int
	findCatErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categoryOf: map[uuid.UUID][]uuid.UUID{},
		attrsOf:    map[uuid.UUID][]fakeAttrValue{},
	}
}

func (r *fakeRepo) matches(p catalog.Product, scope catalog.Scope, filters []catalog.AppliedFilter) bool {
	if scope.FeaturedOnly && !p.IsFeatured {
		return false
	}
	if scope.CategoryID != nil {
		found := false
		for _, c := range r.categoryOf[p.ID] {
			if c == *scope.CategoryID {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	for _, f := range filters {
		hit := false
		for _, av := range r.attrsOf[p.ID] {
			if av.attr.Slug != f.Key {
				continue
			}
			for _, v := range f.Values {
				if av.value.Slug == v {
					hit = true
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (r *fakeRepo) HasFeaturedProducts(context.Context) (bool, error) {
	for _, p := range r.products {
		if p.IsFeatured {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListProducts(_ context.Context, q catalog.ProductQuery) ([]catalog.Product, int, error) {
	r.listCalls++
	r.lastQuery = q

	var matched []catalog.Product
	for _, p := range r.products {
		if r.matches(p, q.Scope, q.Filters) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	if q.Offset >= total {
		return []catalog.Product{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (r *fakeRepo) FindProductBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) LoadProductRelations(_ context.Context, products []catalog.Product, includes catalog.IncludeSet) error {
	r.loadedWith = includes
	return nil
}

func (r *fakeRepo) FacetRows(_ context.Context, scope catalog.Scope, filters []catalog.AppliedFilter) ([]catalog.FacetRow, error) {
	r.facetCalls++

	counts := map[uuid.UUID]*catalog.FacetRow{}
	var order []uuid.UUID
	for _, p := range r.products {
		if !r.matches(p, scope, filters) {
			continue
		}
		for _, av := range r.attrsOf[p.ID] {
			row, ok := counts[av.value.ID]
			if !ok {
				row = &catalog.FacetRow{
					AttributeID:   av.attr.ID,
					AttributeName: av.attr.Name,
					AttributeSlug: av.attr.Slug,
					ValueID:       av.value.ID,
					Value:         av.value.Value,
					ValueSlug:     av.value.Slug,
				}
				counts[av.value.ID] = row
				order = append(order, av.value.ID)
			}
			row.ProductCount++
		}
	}

	rows := make([]catalog.FacetRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *counts[id])
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AttributeSlug < rows[j].AttributeSlug })
	return rows, nil
}

func (r *fakeRepo) ListRootCategories(_ context.Context, withChildren bool) ([]catalog.Category, error) {
	return r.categories, nil
}

func (r *fakeRepo) FindCategoryBySlug(_ context.Context, slug string) (*catalog.Category, error) {
	if r.findCatErr != nil {
		return nil, r.findCatErr
	}
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CollectionsForCategory(context.Context, uuid.UUID) ([]catalog.Collection, error) {
	return r.collections, nil
}

func (r *fakeRepo) ListRootCollections(context.Context, bool) ([]catalog.Collection, error) {
	return r.collections, nil
}

func (r *fakeRepo) FindCollectionBySlug(_ context.Context, slug string) (*catalog.Collection, error) {
	for _, c := range r.collections {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMedia struct{ fail bool }

func (m fakeMedia) ObjectURL(_ context.Context, key string) (string, error) {
	if m.fail {
		return "", errors.New("minio down")
	}
	return "https://cdn.test/" + key, nil
}

// ============================================================
// FIXTURES
// ============================================================

type fixture struct {
	repo     *fakeRepo
	category catalog.Category
	p1, p2   catalog.Product
}

// Category "rings" chứa P1 (platinum) và P2 (gold)
func newFixture() *fixture {
	repo := newFakeRepo()
	metal := catalog.Attribute{ID: uuid.New(), Name: "Metal", Slug: "metal"}
	platinum := catalog.AttributeValue{ID: uuid.New(), AttributeID: metal.ID, Value: "Platinum", Slug: "platinum"}
	gold := catalog.AttributeValue{ID: uuid.New(), AttributeID: metal.ID, Value: "Gold", Slug: "gold"}

	image := "categories/rings.jpg"
	category := catalog.Category{ID: uuid.New(), Name: "Rings", Slug: "rings", Image: &image}

	p1 := catalog.Product{ID: uuid.New(), Name: "P1", Slug: "p1", Images: []string{"products/p1.jpg"}}
	p2 := catalog.Product{ID: uuid.New(), Name: "P2", Slug: "p2"}

	repo.products = []catalog.Product{p1, p2}
	repo.categories = []catalog.Category{category}
	repo.categoryOf[p1.ID] = []uuid.UUID{category.ID}
	repo.categoryOf[p2.ID] = []uuid.UUID{category.ID}
	repo.attrsOf[p1.ID] = []fakeAttrValue{{attr: metal, value: platinum}}
	repo.attrsOf[p2.ID] = []fakeAttrValue{{attr: metal, value: gold}}

	return &fixture{repo: repo, category: category, p1: p1, p2: p2}
}

func request(t *testing.T, path, raw string) catalog.ListRequest {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return catalog.ListRequest{URL: "http://shop.test" + path, Query: q}
}

// ============================================================
// TESTS
// ============================================================

func TestGetCategory_FacetCorrectness(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

	listing, err := svc.GetCategory(context.Background(), "rings",
		request(t, "/api/v1/categories/rings", "filter[metal]=platinum"))
	require.NoError(t, err)

	require.Len(t, listing.Page.Products, 1)
	assert.Equal(t, f.p1.ID, listing.Page.Products[0].ID)
	assert.Equal(t, 1, listing.Page.Total)

	require.Len(t, listing.Facets, 1)
	assert.Equal(t, "metal", listing.Facets[0].Slug)
	require.Len(t, listing.Facets[0].Values, 1)
	assert.Equal(t, "platinum", listing.Facets[0].Values[0].Slug)
	assert.Equal(t, 1, listing.Facets[0].Values[0].ProductCount)
}

func TestGetCategory_UnfilteredFacetsCountPerValue(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

	listing, err := svc.GetCategory(context.Background(), "rings", request(t, "/api/v1/categories/rings", ""))
	require.NoError(t, err)

	assert.Equal(t, 2, listing.Page.Total)
	assert.Equal(t, catalog.ListingPerPage, listing.Page.PerPage)
	require.Len(t, listing.Facets, 1)
	assert.Len(t, listing.Facets[0].Values, 2)
}

func TestGetCategory_NotFound(t *testing.T) {
	f := newFixture()
	store := cachetest.NewMemory()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), store, nil, time.Hour)

	_, err := svc.GetCategory(context.Background(), "missing", request(t, "/api/v1/categories/missing", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Equal(t, 404, apperror.HTTPStatus(err))
	assert.Equal(t, 0, store.Sets)
}

func TestGetCategory_CachedByCanonicalURL(t *testing.T) {
	f := newFixture()
	store := cachetest.NewMemory()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), store, nil, time.Hour)
	ctx := context.Background()

	_, err := svc.GetCategory(ctx, "rings", request(t, "/api/v1/categories/rings", "page=1&filter[metal]=gold"))
	require.NoError(t, err)

	listing, err := svc.GetCategory(ctx, "rings", request(t, "/api/v1/categories/rings", "filter[metal]=gold&page=1"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.listCalls)
	assert.Equal(t, 1, f.repo.facetCalls)
	require.Len(t, listing.Page.Products, 1)
	assert.Equal(t, f.p2.ID, listing.Page.Products[0].ID)
}

func TestGetCategory_RejectsUnknownFilterBeforeQuerying(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

	_, err := svc.GetCategory(context.Background(), "rings", request(t, "/api/v1/categories/rings", "filter[Not+Valid]=1"))
	require.Error(t, err)
	assert.Equal(t, 422, apperror.HTTPStatus(err))
	assert.Equal(t, 0, f.repo.listCalls)
}

func TestGetCategory_ResolvesMedia(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), cachetest.NewMemory(), fakeMedia{}, time.Hour)

	listing, err := svc.GetCategory(context.Background(), "rings", request(t, "/api/v1/categories/rings", "filter[metal]=platinum"))
	require.NoError(t, err)

	require.NotNil(t, listing.Category.Image)
	assert.Equal(t, "https://cdn.test/categories/rings.jpg", *listing.Category.Image)
	assert.Equal(t, "https://cdn.test/products/p1.jpg", listing.Page.Products[0].Images[0])
}

func TestResolveURL_FallsBackToKey(t *testing.T) {
	svc := &catalogService{media: fakeMedia{fail: true}}
	assert.Equal(t, "a/b.jpg", svc.resolveURL(context.Background(), "a/b.jpg"))

	svc = &catalogService{media: fakeMedia{}}
	assert.Equal(t, "https://elsewhere/x.jpg", svc.resolveURL(context.Background(), "https://elsewhere/x.jpg"))
}

func TestListProducts_FeaturedOrFallback(t *testing.T) {
	t.Run("no featured: all products", func(t *testing.T) {
		f := newFixture()
		svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

		page, err := svc.ListProducts(context.Background(), request(t, "/api/v1/products", ""))
		require.NoError(t, err)

		assert.Equal(t, 2, page.Total)
		assert.False(t, f.repo.lastQuery.Scope.FeaturedOnly)
		assert.True(t, f.repo.lastQuery.Random)
		assert.Equal(t, catalog.ProductsPerPage, f.repo.lastQuery.Limit)
	})

	t.Run("featured exists: featured only", func(t *testing.T) {
		f := newFixture()
		f.repo.products[1].IsFeatured = true
		svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

		page, err := svc.ListProducts(context.Background(), request(t, "/api/v1/products", "include=variants"))
		require.NoError(t, err)

		assert.Equal(t, 1, page.Total)
		assert.True(t, f.repo.lastQuery.Scope.FeaturedOnly)
		assert.True(t, f.repo.loadedWith.Has(catalog.IncludeVariants))
	})

	t.Run("only status filter allowed", func(t *testing.T) {
		f := newFixture()
		svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

		_, err := svc.ListProducts(context.Background(), request(t, "/api/v1/products", "filter[metal]=gold"))
		require.Error(t, err)
		assert.Equal(t, "Unknown filter: metal", apperror.As(err).Message)
	})
}

func TestGetProduct(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

	p, err := svc.GetProduct(context.Background(), "p1", url.Values{"include": {"variants,categories"}})
	require.NoError(t, err)
	assert.Equal(t, f.p1.ID, p.ID)
	assert.True(t, f.repo.loadedWith.Has(catalog.IncludeCategories))

	_, err = svc.GetProduct(context.Background(), "nope", url.Values{})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestGetCollection_NotFound(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.repo, catalog.DefaultRegistry(), nil, nil, time.Hour)

	_, err := svc.GetCollection(context.Background(), "gone", request(t, "/api/v1/collections/gone", ""))
	require.Error(t, err)
	assert.Equal(t, "Collection not found.", apperror.As(err).Message)
}
