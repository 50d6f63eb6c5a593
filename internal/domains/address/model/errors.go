package model

import "storefront-backend/internal/shared/apperror"

// Address của user khác cũng trả về not found
var ErrAddressNotFound = apperror.NotFound("ADDRESS_NOT_FOUND", "Address not found.")
