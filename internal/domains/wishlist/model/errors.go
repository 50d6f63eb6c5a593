package model

import "storefront-backend/internal/shared/apperror"

var ErrVariantNotFound = apperror.NotFound("WISHLIST_VARIANT_NOT_FOUND", "Variant not found.")
