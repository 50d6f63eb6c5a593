package service

import (
	"context"

	"storefront-backend/internal/domains/enquiry/model"
	"storefront-backend/internal/domains/enquiry/repository"
	"storefront-backend/pkg/logger"
)

type ServiceInterface interface {
	// Create validate rồi lưu enquiry, không gửi mail
	Create(ctx context.Context, req model.CreateEnquiryRequest) (*model.Enquiry, error)
}

type enquiryService struct {
	repo repository.RepositoryInterface
}

func NewEnquiryService(repo repository.RepositoryInterface) ServiceInterface {
	return &enquiryService{repo: repo}
}

func (s *enquiryService) Create(ctx context.Context, req model.CreateEnquiryRequest) (*model.Enquiry, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("Enquiry created", map[string]interface{}{
		"enquiry_id": e.ID,
	})
	return e, nil
}
