package model

import (
	"time"

	"storefront-backend/internal/domains/catalog"

	"github.com/google/uuid"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusAbandoned CartStatus = "abandoned"
	CartStatusConverted CartStatus = "converted"
	CartStatusMerged    CartStatus = "merged"
)

// Cart - đúng một trong UserID / GuestToken khác nil (CHECK constraint ở DB)
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"`
	GuestToken *uuid.UUID `json:"guest_token"`
	Status     CartStatus `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Items luôn được load kèm variant → product
	Items []CartItem `json:"items"`
}

// CartItem - unique (cart_id, variant_id), Quantity > 0
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variant *catalog.Variant `json:"variant,omitempty"`
}

// ItemCount tổng số lượng các line
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// ExpiredCart là owner của cart vừa bị đánh dấu abandoned, dùng để xóa cache key
type ExpiredCart struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	GuestToken *uuid.UUID
}
