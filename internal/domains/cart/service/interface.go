package service

import (
	"context"
	"time"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/identity"

	"github.com/google/uuid"
)

// ServiceInterface - cart use cases, identity được handler build sẵn
type ServiceInterface interface {
	// GetCart trả về nil khi identity rỗng hoặc chưa có cart Active
	GetCart(ctx context.Context, id identity.Identity) (*model.Cart, error)

	// AddItem resolve (hoặc tạo) cart rồi cộng dồn quantity trong giới hạn tồn kho
	AddItem(ctx context.Context, id identity.Identity, variantID uuid.UUID, quantity int) (*model.AddItemResult, error)

	// RemoveItem không tạo cart; cart/line không tồn tại thì không làm gì
	RemoveItem(ctx context.Context, id identity.Identity, variantID uuid.UUID) error

	// MarkAbandoned - background job, trả về số cart đã chuyển trạng thái
	MarkAbandoned(ctx context.Context, now time.Time, batchSize int) (int, error)
}
