package catalog

import (
	"fmt"

	"storefront-backend/internal/shared/apperror"
)

var (
	ErrProductNotFound    = apperror.NotFound("PRODUCT_NOT_FOUND", "Product not found.")
	ErrCategoryNotFound   = apperror.NotFound("CATEGORY_NOT_FOUND", "Category not found.")
	ErrCollectionNotFound = apperror.NotFound("COLLECTION_NOT_FOUND", "Collection not found.")
)

func ErrUnknownFilter(key string) error {
	return apperror.Validation("UNKNOWN_FILTER", fmt.Sprintf("Unknown filter: %s", key))
}

func ErrInvalidFilterValue(key string) error {
	return apperror.Validation("INVALID_FILTER_VALUE", fmt.Sprintf("Invalid value for filter: %s", key))
}

func ErrInvalidSort(field string) error {
	return apperror.Validation("INVALID_SORT", fmt.Sprintf("Requested sort(s) `%s` is not allowed.", field))
}

func ErrInvalidInclude(name string) error {
	return apperror.Validation("INVALID_INCLUDE", fmt.Sprintf("Requested include(s) `%s` are not allowed.", name))
}

func ErrInvalidPage(raw string) error {
	return apperror.Validation("INVALID_PAGE", fmt.Sprintf("Requested page `%s` is out of range.", raw))
}
