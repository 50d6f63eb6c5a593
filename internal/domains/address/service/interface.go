package service

import (
	"context"

	"storefront-backend/internal/domains/address/model"

	"github.com/google/uuid"
)

// ServiceInterface - mọi thao tác đều scope theo user đã đăng nhập
type ServiceInterface interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, req model.CreateAddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.UpdateAddressRequest) (*model.Address, error)
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}
