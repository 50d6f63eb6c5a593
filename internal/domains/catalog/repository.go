package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductQuery là input đã validate cho ListProducts
type ProductQuery struct {
	Scope   Scope
	Filters []AppliedFilter
	Sorts   []Sort
	Random  bool
	Limit   int
	Offset  int
}

// Repository - data access cho catalog (read-only)
// Find* trả về (nil, nil) khi không tìm thấy
type Repository interface {
	// Products
	HasFeaturedProducts(ctx context.Context) (bool, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]Product, int, error)
	FindProductBySlug(ctx context.Context, slug string) (*Product, error)
	// LoadProductRelations eager-load relations theo includes cho cả slice (batch query)
	LoadProductRelations(ctx context.Context, products []Product, includes IncludeSet) error

	// Facets trên cùng tập điều kiện với trang product
	FacetRows(ctx context.Context, scope Scope, filters []AppliedFilter) ([]FacetRow, error)

	// Categories
	ListRootCategories(ctx context.Context, withChildren bool) ([]Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CollectionsForCategory(ctx context.Context, categoryID uuid.UUID) ([]Collection, error)

	// Collections
	ListRootCollections(ctx context.Context, withChildren bool) ([]Collection, error)
	FindCollectionBySlug(ctx context.Context, slug string) (*Collection, error)
}
