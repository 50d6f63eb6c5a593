package service

import (
	"context"

	"storefront-backend/internal/domains/address/model"
	repo "storefront-backend/internal/domains/address/repository"

	"github.com/google/uuid"
)

type addressService struct {
	repo repo.RepositoryInterface
}

func NewAddressService(r repo.RepositoryInterface) ServiceInterface {
	return &addressService{repo: r}
}

func (s *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *addressService) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	return s.getOwned(ctx, userID, addressID)
}

// CreateAddress - is_default=true thì default cũ bị bỏ trong cùng transaction
func (s *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, req model.CreateAddressRequest) (*model.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req.ToAddress(userID))
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.UpdateAddressRequest) (*model.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.getOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	req.ApplyTo(existing)

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// bị xóa giữa read và write
		return nil, model.ErrAddressNotFound
	}
	return updated, nil
}

func (s *addressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	ok, err := s.repo.SetDefault(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrAddressNotFound
	}
	return s.getOwned(ctx, userID, addressID)
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrAddressNotFound
	}
	return nil
}

func (s *addressService) getOwned(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.FindForUser(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, model.ErrAddressNotFound
	}
	return addr, nil
}
