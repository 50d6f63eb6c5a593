package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cartModel "storefront-backend/internal/domains/cart/model"
	wishlistModel "storefront-backend/internal/domains/wishlist/model"
	"storefront-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// CartAbandoner là phần cart service mà job cần
type CartAbandoner interface {
	MarkAbandoned(ctx context.Context, now time.Time, batchSize int) (int, error)
}

// WishlistPurger là phần wishlist service mà job cần
type WishlistPurger interface {
	PurgeExpired(ctx context.Context, now time.Time, batchSize int) (int, error)
}

// MarkAbandonedCartsHandler xử lý cart:mark_abandoned.
// Chạy từng batch cho tới khi batch cuối không đầy.
func MarkAbandonedCartsHandler(svc CartAbandoner, defaultBatch int, now func() time.Time) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p cartModel.MarkAbandonedPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry) // Sai format payload, skip retry
		}
		batch := p.BatchSize
		if batch <= 0 {
			batch = defaultBatch
		}

		total, err := drain(ctx, batch, func(ctx context.Context) (int, error) {
			return svc.MarkAbandoned(ctx, now(), batch)
		})
		if err != nil {
			return err // Lỗi DB, retry lại
		}

		logger.Info("cart:mark_abandoned completed", map[string]interface{}{"total": total})
		return nil
	}
}

// PurgeExpiredWishlistsHandler xử lý wishlist:purge_expired
func PurgeExpiredWishlistsHandler(svc WishlistPurger, defaultBatch int, now func() time.Time) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p wishlistModel.PurgeExpiredPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		batch := p.BatchSize
		if batch <= 0 {
			batch = defaultBatch
		}

		total, err := drain(ctx, batch, func(ctx context.Context) (int, error) {
			return svc.PurgeExpired(ctx, now(), batch)
		})
		if err != nil {
			return err
		}

		logger.Info("wishlist:purge_expired completed", map[string]interface{}{"total": total})
		return nil
	}
}

func drain(ctx context.Context, batch int, step func(ctx context.Context) (int, error)) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := step(ctx)
		if err != nil {
			return total, err
		}
		total += n
		if n < batch {
			return total, nil
		}
	}
}
