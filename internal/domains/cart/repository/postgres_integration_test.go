//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/repository"
	"storefront-backend/internal/domains/cart/service"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/pkg/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarts_OwnerCheck(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()

	// Đúng một trong hai owner
	_, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id, guest_token) VALUES ($1, $2, $3)`,
		uuid.New(), uuid.New(), uuid.New())
	assert.Error(t, err, "both owners")

	_, err = pool.Exec(ctx, `INSERT INTO carts (id) VALUES ($1)`, uuid.New())
	assert.Error(t, err, "no owner")

	_, err = pool.Exec(ctx, `INSERT INTO carts (id, guest_token) VALUES ($1, $2)`, uuid.New(), uuid.New())
	assert.NoError(t, err)
}

func TestCreate_ActiveOwnerConflict(t *testing.T) {
	pool := dbtest.Open(t)
	r := repository.NewPostgresRepository(pool)
	ctx := context.Background()

	token := uuid.New()
	owner := identity.Owner{GuestToken: &token, ExpiresAt: time.Now().Add(time.Hour)}

	first, err := r.Create(ctx, owner)
	require.NoError(t, err)

	_, err = r.Create(ctx, owner)
	assert.ErrorIs(t, err, identity.ErrOwnerConflict)

	found, err := r.FindByGuestToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestAddItem_ConcurrentAddsStayWithinStock(t *testing.T) {
	pool := dbtest.Open(t)
	_, variantID := dbtest.Product(t, pool, "solitaire", "250.00", 5)

	svc := service.NewCartService(repository.NewPostgresRepository(pool), nil, time.Hour)
	userID := uuid.New()
	id := identity.Identity{UserID: &userID}

	// Hai request 3 + 3 trên stock 5: chỉ một request được ghi
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddItem(context.Background(), id, variantID, 3)
		}(i)
	}
	wg.Wait()

	var ok, exceeded int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrTotalQuantityExceedsStock):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, exceeded)

	cart, err := svc.GetCart(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_RejectedGuestAddLeavesNoCartRow(t *testing.T) {
	pool := dbtest.Open(t)
	_, variantID := dbtest.Product(t, pool, "band", "80.00", 2)

	svc := service.NewCartService(repository.NewPostgresRepository(pool), nil, time.Hour)
	token := uuid.New()

	_, err := svc.AddItem(context.Background(), identity.Identity{GuestToken: &token}, variantID, 3)
	assert.ErrorIs(t, err, model.ErrRequestedQuantityExceedsStock)

	var carts int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM carts`).Scan(&carts))
	assert.Zero(t, carts)
}
