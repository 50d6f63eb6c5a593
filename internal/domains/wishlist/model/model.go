package model

import (
	"time"

	"storefront-backend/internal/domains/catalog"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// Wishlist - mỗi user có một wishlist default, mỗi guest token có một wishlist
type Wishlist struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"`
	GuestToken *uuid.UUID `json:"guest_token"`
	Name       string     `json:"name"`
	IsDefault  bool       `json:"is_default"`
	Visibility Visibility `json:"visibility"`
	ShareToken *uuid.UUID `json:"share_token,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Items []WishlistItem `json:"items"`
}

type WishlistItem struct {
	ID         uuid.UUID `json:"id"`
	WishlistID uuid.UUID `json:"wishlist_id"`
	VariantID  uuid.UUID `json:"variant_id"`
	Note       *string   `json:"note"`
	CreatedAt  time.Time `json:"created_at"`

	Variant *catalog.Variant `json:"variant,omitempty"`
}

// ExpiredWishlist - owner của wishlist khách vừa bị purge
type ExpiredWishlist struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	GuestToken *uuid.UUID
}
