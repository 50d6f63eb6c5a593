package service

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/domains/wishlist/model"
	repo "storefront-backend/internal/domains/wishlist/repository"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

type WishlistService struct {
	repository repo.RepositoryInterface
	resolver   *identity.Resolver[model.Wishlist]
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewWishlistService(r repo.RepositoryInterface, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	return &WishlistService{
		repository: r,
		resolver: identity.NewResolver[model.Wishlist](r, identity.Policy{
			UserExpiry:  model.WishlistExpiration,
			GuestExpiry: model.WishlistExpiration,
		}),
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *WishlistService) GetWishlist(ctx context.Context, id identity.Identity) (*model.Wishlist, error) {
	if id.IsEmpty() {
		return nil, nil
	}

	return cache.Remember(ctx, s.cache, id.CacheKey(identity.WishlistPrefix), s.cacheTTL,
		func(ctx context.Context) (*model.Wishlist, error) {
			w, err := s.resolver.Find(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to find wishlist: %w", err)
			}
			if w == nil {
				return nil, nil
			}
			return s.repository.FindWithItems(ctx, w.ID)
		})
}

// AddItem: kiểm tra variant → resolve wishlist → insert idempotent → forget cache → reload.
// Variant không tồn tại thì không tạo wishlist khách.
func (s *WishlistService) AddItem(ctx context.Context, id identity.Identity, variantID uuid.UUID, note *string) (*model.AddItemResult, error) {
	exists, err := s.repository.VariantExists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrVariantNotFound
	}

	resolved, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wishlist: %w", err)
	}
	w := resolved.Value

	// Variant đã có trong wishlist → không lỗi, giữ nguyên note cũ
	if _, err := s.repository.AddItem(ctx, w.ID, variantID, note); err != nil {
		return nil, err
	}
	cache.Forget(ctx, s.cache, identity.WishlistKey(w.UserID, w.GuestToken))

	loaded, err := s.repository.FindWithItems(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload wishlist: %w", err)
	}

	result := &model.AddItemResult{Wishlist: loaded}
	if w.UserID == nil {
		result.GuestToken = w.GuestToken
	}
	return result, nil
}

func (s *WishlistService) RemoveItem(ctx context.Context, id identity.Identity, variantID uuid.UUID) error {
	w, err := s.resolver.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find wishlist: %w", err)
	}
	if w == nil {
		return nil
	}

	if _, err := s.repository.RemoveItem(ctx, w.ID, variantID); err != nil {
		return err
	}

	cache.Forget(ctx, s.cache, identity.WishlistKey(w.UserID, w.GuestToken))
	return nil
}

func (s *WishlistService) PurgeExpired(ctx context.Context, now time.Time, batchSize int) (int, error) {
	purged, err := s.repository.PurgeExpiredGuests(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}
	if len(purged) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(purged))
	for _, w := range purged {
		keys = append(keys, identity.WishlistKey(w.UserID, w.GuestToken))
	}
	cache.Forget(ctx, s.cache, keys...)

	logger.Info("Purged expired guest wishlists", map[string]interface{}{
		"count": len(purged),
	})
	return len(purged), nil
}
