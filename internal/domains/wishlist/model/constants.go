package model

import "time"

const (
	// User và guest dùng chung thời hạn
	WishlistExpiration = 30 * 24 * time.Hour

	DefaultWishlistName = "My Wishlist"

	MaxNoteLength = 500
)
