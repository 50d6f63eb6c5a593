package service

import (
	"context"
	"time"

	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/domains/wishlist/model"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	GetWishlist(ctx context.Context, id identity.Identity) (*model.Wishlist, error)
	AddItem(ctx context.Context, id identity.Identity, variantID uuid.UUID, note *string) (*model.AddItemResult, error)
	RemoveItem(ctx context.Context, id identity.Identity, variantID uuid.UUID) error

	// PurgeExpired - background job, trả về số wishlist khách đã xóa
	PurgeExpired(ctx context.Context, now time.Time, batchSize int) (int, error)
}
