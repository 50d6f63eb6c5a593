package repository

import (
	"context"

	"storefront-backend/internal/domains/address/model"

	"github.com/google/uuid"
)

type RepositoryInterface interface {
	// ListByUser: default trước, sau đó mới nhất trước
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// FindForUser trả về nil nếu address không tồn tại hoặc không thuộc user
	FindForUser(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)

	// Create: nếu IsDefault, bỏ default cũ và insert trong cùng transaction
	Create(ctx context.Context, addr *model.Address) (*model.Address, error)

	Update(ctx context.Context, addr *model.Address) (*model.Address, error)

	// SetDefault: clear + set trong một transaction, false nếu address không thuộc user
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (bool, error)

	Delete(ctx context.Context, userID, addressID uuid.UUID) (bool, error)
}
