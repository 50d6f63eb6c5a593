package model

import "storefront-backend/internal/shared/apperror"

// Messages được trả nguyên văn cho client (422)
var (
	ErrVariantInvalid = apperror.Validation(
		"CART_VARIANT_INVALID", "The selected variant id is invalid.")

	ErrRequestedQuantityExceedsStock = apperror.Validation(
		"CART_REQUESTED_QUANTITY_EXCEEDS_STOCK", "Requested quantity exceeds available stock.")

	ErrTotalQuantityExceedsStock = apperror.Validation(
		"CART_TOTAL_QUANTITY_EXCEEDS_STOCK", "Total quantity exceeds available stock.")
)
