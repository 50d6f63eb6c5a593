package catalog

import (
	"context"
	"net/url"
)

// MediaResolver đổi object key (MinIO) thành URL cho client
type MediaResolver interface {
	ObjectURL(ctx context.Context, key string) (string, error)
}

// ListRequest mang URL (không query) và query string của request listing,
// dùng cho cả parse filter lẫn cache key
type ListRequest struct {
	URL   string
	Query url.Values
}

// Service - catalog read API
type Service interface {
	ListProducts(ctx context.Context, req ListRequest) (*ProductPage, error)
	GetProduct(ctx context.Context, slug string, query url.Values) (*Product, error)

	ListCategories(ctx context.Context, query url.Values) ([]Category, error)
	GetCategory(ctx context.Context, slug string, req ListRequest) (*CategoryListing, error)

	ListCollections(ctx context.Context, query url.Values) ([]Collection, error)
	GetCollection(ctx context.Context, slug string, req ListRequest) (*CollectionListing, error)
}

// Endpoint contracts
var (
	ProductIncludes = []string{IncludeVariants, IncludeCategories, IncludeCollections, IncludeAttributeValues}
	ListingIncludes = []string{IncludeVariants, IncludeAttributeValues}
	TreeIncludes    = []string{IncludeChildren}
)

const (
	ProductsPerPage = 15
	ListingPerPage  = 24
)
