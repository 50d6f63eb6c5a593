package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domains/newsletter/model"
	"storefront-backend/internal/domains/newsletter/repository"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	// Subscribe: email mới → tạo, inactive → kích hoạt lại, active → giữ nguyên
	Subscribe(ctx context.Context, req model.SubscribeRequest) (*model.Subscriber, error)

	// Unsubscribe: token sai định dạng hoặc không tồn tại → ErrSubscriberNotFound
	Unsubscribe(ctx context.Context, rawToken string) error
}

type newsletterService struct {
	repo repository.RepositoryInterface
	now  func() time.Time
}

func NewNewsletterService(repo repository.RepositoryInterface) ServiceInterface {
	return &newsletterService{repo: repo, now: time.Now}
}

func (s *newsletterService) Subscribe(ctx context.Context, req model.SubscribeRequest) (*model.Subscriber, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.reactivate(ctx, existing)
	}

	created, err := s.repo.Create(ctx, req.Email, uuid.New(), s.now())
	if err == nil {
		logger.Info("Newsletter subscriber created", map[string]interface{}{
			"subscriber_id": created.ID,
		})
		return created, nil
	}
	if !errors.Is(err, repository.ErrEmailTaken) {
		return nil, err
	}

	// Request song song vừa tạo cùng email
	existing, err = s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("subscriber vanished after conflict: %s", req.Email)
	}
	return s.reactivate(ctx, existing)
}

func (s *newsletterService) reactivate(ctx context.Context, sub *model.Subscriber) (*model.Subscriber, error) {
	if sub.IsActive {
		return sub, nil
	}

	now := s.now()
	if err := s.repo.SetActive(ctx, sub.ID, true, now); err != nil {
		return nil, err
	}
	sub.IsActive = true
	sub.LastActiveAt = &now
	return sub, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, rawToken string) error {
	token, err := uuid.Parse(rawToken)
	if err != nil {
		return model.ErrSubscriberNotFound
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if sub == nil {
		return model.ErrSubscriberNotFound
	}
	if !sub.IsActive {
		return nil
	}

	return s.repo.SetActive(ctx, sub.ID, false, s.now())
}
