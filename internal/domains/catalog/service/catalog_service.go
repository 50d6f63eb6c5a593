package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"storefront-backend/internal/domains/catalog"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

type catalogService struct {
	repo       catalog.Repository
	registry   *catalog.Registry
	cache      cache.Cache
	media      catalog.MediaResolver
	listingTTL time.Duration
}

// NewCatalogService - media có thể nil (trả object key nguyên bản)
func NewCatalogService(
	repo catalog.Repository,
	registry *catalog.Registry,
	c cache.Cache,
	media catalog.MediaResolver,
	listingTTL time.Duration,
) catalog.Service {
	return &catalogService{
		repo:       repo,
		registry:   registry,
		cache:      c,
		media:      media,
		listingTTL: listingTTL,
	}
}

// ============================================================
// PRODUCTS
// ============================================================

// ListProducts: chỉ lấy featured nếu có ít nhất một product featured, thứ tự random.
// Kết quả được cache theo URL + query đã canonical hóa.
func (s *catalogService) ListProducts(ctx context.Context, req catalog.ListRequest) (*catalog.ProductPage, error) {
	q, err := s.registry.ParseListQuery(req.Query, catalog.ListOptions{
		AllowedFilters:  []string{"status"},
		AllowedIncludes: catalog.ProductIncludes,
		DefaultPerPage:  catalog.ProductsPerPage,
	})
	if err != nil {
		return nil, err
	}

	key := cache.CanonicalKey(req.URL, req.Query, "")
	page, err := cache.Remember(ctx, s.cache, key, s.listingTTL, func(ctx context.Context) (*catalog.ProductPage, error) {
		featured, err := s.repo.HasFeaturedProducts(ctx)
		if err != nil {
			return nil, err
		}

		return s.productPage(ctx, catalog.Scope{FeaturedOnly: featured}, q, true)
	})
	if err != nil {
		return nil, err
	}

	s.resolveProducts(ctx, page.Products)
	return page, nil
}

func (s *catalogService) GetProduct(ctx context.Context, slug string, query url.Values) (*catalog.Product, error) {
	includes, err := catalog.ParseIncludes(query.Get("include"), catalog.ProductIncludes)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalog.ErrProductNotFound
	}

	one := []catalog.Product{*product}
	if err := s.repo.LoadProductRelations(ctx, one, includes); err != nil {
		return nil, err
	}

	s.resolveProducts(ctx, one)
	return &one[0], nil
}

func (s *catalogService) productPage(ctx context.Context, scope catalog.Scope, q catalog.ListQuery, random bool) (*catalog.ProductPage, error) {
	products, total, err := s.repo.ListProducts(ctx, catalog.ProductQuery{
		Scope:   scope,
		Filters: q.Filters,
		Sorts:   q.Sorts,
		Random:  random,
		Limit:   q.PerPage,
		Offset:  q.Offset(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.LoadProductRelations(ctx, products, q.Includes); err != nil {
		return nil, err
	}

	return &catalog.ProductPage{
		Products: products,
		Total:    total,
		Page:     q.Page,
		PerPage:  q.PerPage,
	}, nil
}

// ============================================================
// CATEGORIES
// ============================================================

func (s *catalogService) ListCategories(ctx context.Context, query url.Values) ([]catalog.Category, error) {
	includes, err := catalog.ParseIncludes(query.Get("include"), catalog.TreeIncludes)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.ListRootCategories(ctx, includes.Has(catalog.IncludeChildren))
	if err != nil {
		return nil, err
	}

	s.resolveCategories(ctx, categories)
	return categories, nil
}

// GetCategory: products thuộc category + filter/sort/phân trang, facets trên cùng
// tập đã lọc, và các collection có chứa product của category
func (s *catalogService) GetCategory(ctx context.Context, slug string, req catalog.ListRequest) (*catalog.CategoryListing, error) {
	q, err := s.registry.ParseListQuery(req.Query, catalog.ListOptions{
		AllowedIncludes: catalog.ListingIncludes,
		AllowSorts:      true,
		DefaultPerPage:  catalog.ListingPerPage,
	})
	if err != nil {
		return nil, err
	}

	key := cache.CanonicalKey(req.URL, req.Query, "")
	listing, err := cache.Remember(ctx, s.cache, key, s.listingTTL, func(ctx context.Context) (*catalog.CategoryListing, error) {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, catalog.ErrCategoryNotFound
		}

		scope := catalog.Scope{CategoryID: &category.ID}

		page, err := s.productPage(ctx, scope, q, false)
		if err != nil {
			return nil, err
		}

		facets, err := s.facets(ctx, scope, q.Filters)
		if err != nil {
			return nil, err
		}

		collections, err := s.repo.CollectionsForCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}

		return &catalog.CategoryListing{
			Category:    *category,
			Page:        *page,
			Facets:      facets,
			Collections: collections,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.resolveCategory(ctx, &listing.Category)
	s.resolveProducts(ctx, listing.Page.Products)
	s.resolveCollections(ctx, listing.Collections)
	return listing, nil
}

// ============================================================
// COLLECTIONS
// ============================================================

func (s *catalogService) ListCollections(ctx context.Context, query url.Values) ([]catalog.Collection, error) {
	includes, err := catalog.ParseIncludes(query.Get("include"), catalog.TreeIncludes)
	if err != nil {
		return nil, err
	}

	collections, err := s.repo.ListRootCollections(ctx, includes.Has(catalog.IncludeChildren))
	if err != nil {
		return nil, err
	}

	s.resolveCollections(ctx, collections)
	return collections, nil
}

func (s *catalogService) GetCollection(ctx context.Context, slug string, req catalog.ListRequest) (*catalog.CollectionListing, error) {
	q, err := s.registry.ParseListQuery(req.Query, catalog.ListOptions{
		AllowedIncludes: catalog.ListingIncludes,
		AllowSorts:      true,
		DefaultPerPage:  catalog.ListingPerPage,
	})
	if err != nil {
		return nil, err
	}

	key := cache.CanonicalKey(req.URL, req.Query, "")
	listing, err := cache.Remember(ctx, s.cache, key, s.listingTTL, func(ctx context.Context) (*catalog.CollectionListing, error) {
		collection, err := s.repo.FindCollectionBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if collection == nil {
			return nil, catalog.ErrCollectionNotFound
		}

		scope := catalog.Scope{CollectionID: &collection.ID}

		page, err := s.productPage(ctx, scope, q, false)
		if err != nil {
			return nil, err
		}

		facets, err := s.facets(ctx, scope, q.Filters)
		if err != nil {
			return nil, err
		}

		return &catalog.CollectionListing{
			Collection: *collection,
			Page:       *page,
			Facets:     facets,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.resolveCollection(ctx, &listing.Collection)
	s.resolveProducts(ctx, listing.Page.Products)
	return listing, nil
}

func (s *catalogService) facets(ctx context.Context, scope catalog.Scope, filters []catalog.AppliedFilter) ([]catalog.Facet, error) {
	rows, err := s.repo.FacetRows(ctx, scope, filters)
	if err != nil {
		return nil, err
	}
	return catalog.GroupFacetRows(rows), nil
}

// ============================================================
// MEDIA
// ============================================================
// Resolve chạy SAU cache: presigned URL có hạn nên không được cache cùng listing

func (s *catalogService) resolveURL(ctx context.Context, key string) string {
	if s.media == nil || key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	u, err := s.media.ObjectURL(ctx, key)
	if err != nil {
		logger.Warn("Failed to resolve media URL", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return key
	}
	return u
}

func (s *catalogService) resolveOptional(ctx context.Context, key *string) {
	if key == nil {
		return
	}
	resolved := s.resolveURL(ctx, *key)
	*key = resolved
}

func (s *catalogService) resolveProducts(ctx context.Context, products []catalog.Product) {
	for i := range products {
		for j, img := range products[i].Images {
			products[i].Images[j] = s.resolveURL(ctx, img)
		}
		s.resolveCategories(ctx, products[i].Categories)
		s.resolveCollections(ctx, products[i].Collections)
	}
}

func (s *catalogService) resolveCategory(ctx context.Context, c *catalog.Category) {
	s.resolveOptional(ctx, c.Image)
	s.resolveCategories(ctx, c.Children)
}

func (s *catalogService) resolveCategories(ctx context.Context, categories []catalog.Category) {
	for i := range categories {
		s.resolveCategory(ctx, &categories[i])
	}
}

func (s *catalogService) resolveCollection(ctx context.Context, c *catalog.Collection) {
	s.resolveOptional(ctx, c.HeroImage)
	s.resolveCollections(ctx, c.Children)
}

func (s *catalogService) resolveCollections(ctx context.Context, collections []catalog.Collection) {
	for i := range collections {
		s.resolveCollection(ctx, &collections[i])
	}
}
