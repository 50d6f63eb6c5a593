package repository

import (
	"context"
	"time"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/domains/identity"

	"github.com/google/uuid"
)

// ItemStore là các thao tác chạy bên trong transaction của AddItem
type ItemStore interface {
	// LockVariant đọc variant với SELECT ... FOR UPDATE
	// Returns: nil nếu variant không tồn tại
	LockVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error)

	// FindItem trả về line của variant trong cart, nil nếu chưa có
	FindItem(ctx context.Context, cartID, variantID uuid.UUID) (*model.CartItem, error)

	InsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
}

// RepositoryInterface defines data access methods for cart
type RepositoryInterface interface {
	// FindByUser / FindByGuestToken chỉ trả về cart Active
	// Create trả về identity.ErrOwnerConflict khi owner đã có cart Active
	identity.Store[model.Cart]

	// FindVariant đọc variant không lock, dùng để kiểm tra trước khi resolve cart
	// Returns: nil nếu variant không tồn tại
	FindVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error)

	// RunInTx chạy fn trong một transaction, commit nếu fn trả về nil
	RunInTx(ctx context.Context, fn func(ctx context.Context, store ItemStore) error) error

	// FindWithItems load cart kèm items → variant → product
	// Returns: nil if not exists
	FindWithItems(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)

	// RemoveItem xóa line theo variant, trả về true nếu có dòng bị xóa
	RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) (bool, error)

	// MarkExpiredAbandoned chuyển tối đa limit cart Active đã quá expires_at sang Abandoned
	MarkExpiredAbandoned(ctx context.Context, now time.Time, limit int) ([]model.ExpiredCart, error)
}
