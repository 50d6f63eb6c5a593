package repository

import (
	"context"
	"time"

	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/domains/wishlist/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	// FindByUser trả về wishlist default của user
	// FindByGuestToken không lọc theo trạng thái
	identity.Store[model.Wishlist]

	VariantExists(ctx context.Context, variantID uuid.UUID) (bool, error)

	// AddItem là idempotent: trả về false nếu variant đã có trong wishlist
	AddItem(ctx context.Context, wishlistID, variantID uuid.UUID, note *string) (bool, error)

	// Returns: nil if not exists
	FindWithItems(ctx context.Context, wishlistID uuid.UUID) (*model.Wishlist, error)

	RemoveItem(ctx context.Context, wishlistID, variantID uuid.UUID) (bool, error)

	// PurgeExpiredGuests xóa tối đa limit wishlist khách đã hết hạn (items cascade)
	PurgeExpiredGuests(ctx context.Context, now time.Time, limit int) ([]model.ExpiredWishlist, error)
}
