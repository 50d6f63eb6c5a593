package service

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/domains/cart/model"
	repo "storefront-backend/internal/domains/cart/repository"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

type CartService struct {
	repository repo.RepositoryInterface
	resolver   *identity.Resolver[model.Cart]
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewCartService(r repo.RepositoryInterface, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	return &CartService{
		repository: r,
		resolver: identity.NewResolver[model.Cart](r, identity.Policy{
			UserExpiry:  model.UserCartExpiration,
			GuestExpiry: model.GuestCartExpiration,
		}),
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *CartService) GetCart(ctx context.Context, id identity.Identity) (*model.Cart, error) {
	if id.IsEmpty() {
		return nil, nil
	}

	return cache.Remember(ctx, s.cache, id.CacheKey(identity.CartPrefix), s.cacheTTL,
		func(ctx context.Context) (*model.Cart, error) {
			cart, err := s.resolver.Find(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to find cart: %w", err)
			}
			if cart == nil {
				return nil, nil
			}
			return s.repository.FindWithItems(ctx, cart.ID)
		})
}

// AddItem:
//
//	Step 1: Kiểm tra variant + tồn kho theo request (chưa tạo cart khi request bị từ chối)
//	Step 2: Resolve cart (user → cart của user, guest token hợp lệ → cart đó, còn lại → cart khách mới)
//	Step 3: Transaction: lock variant, kiểm tra lại tồn kho, insert hoặc cộng dồn line
//	Step 4: Sau commit: xóa cache của cart, reload items → variant → product
func (s *CartService) AddItem(ctx context.Context, id identity.Identity, variantID uuid.UUID, quantity int) (*model.AddItemResult, error) {
	// Step 1: Pre-check
	if err := s.checkRequestedStock(ctx, variantID, quantity); err != nil {
		return nil, err
	}

	// Step 2: Resolve
	resolved, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}
	cart := resolved.Value

	// Step 3: Stock check + write (variant đã lock)
	err = s.repository.RunInTx(ctx, func(ctx context.Context, store repo.ItemStore) error {
		variant, err := store.LockVariant(ctx, variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return model.ErrVariantInvalid
		}

		if quantity > variant.Quantity {
			return model.ErrRequestedQuantityExceedsStock
		}

		item, err := store.FindItem(ctx, cart.ID, variantID)
		if err != nil {
			return err
		}

		if item != nil {
			newQuantity := item.Quantity + quantity
			if newQuantity > variant.Quantity {
				return model.ErrTotalQuantityExceedsStock
			}
			return store.UpdateItemQuantity(ctx, item.ID, newQuantity)
		}

		return store.InsertItem(ctx, cart.ID, variantID, quantity)
	})
	if err != nil {
		return nil, err
	}

	// Step 4: Invalidate + reload
	cache.Forget(ctx, s.cache, identity.CartKey(cart.UserID, cart.GuestToken))

	loaded, err := s.repository.FindWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload cart: %w", err)
	}

	result := &model.AddItemResult{Cart: loaded}
	if cart.UserID == nil {
		result.GuestToken = cart.GuestToken
	}
	return result, nil
}

// checkRequestedStock đọc variant không lock; transaction ở Step 3 vẫn kiểm tra lại
func (s *CartService) checkRequestedStock(ctx context.Context, variantID uuid.UUID, quantity int) error {
	variant, err := s.repository.FindVariant(ctx, variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return model.ErrVariantInvalid
	}
	if quantity > variant.Quantity {
		return model.ErrRequestedQuantityExceedsStock
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, id identity.Identity, variantID uuid.UUID) error {
	cart, err := s.resolver.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return nil
	}

	if _, err := s.repository.RemoveItem(ctx, cart.ID, variantID); err != nil {
		return err
	}

	cache.Forget(ctx, s.cache, identity.CartKey(cart.UserID, cart.GuestToken))
	return nil
}

func (s *CartService) MarkAbandoned(ctx context.Context, now time.Time, batchSize int) (int, error) {
	expired, err := s.repository.MarkExpiredAbandoned(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(expired))
	for _, c := range expired {
		keys = append(keys, identity.CartKey(c.UserID, c.GuestToken))
	}
	cache.Forget(ctx, s.cache, keys...)

	logger.Info("Marked expired carts as abandoned", map[string]interface{}{
		"count": len(expired),
	})
	return len(expired), nil
}
