//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"storefront-backend/internal/domains/identity"
	"storefront-backend/pkg/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlists_OwnerCheck(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO wishlists (id, user_id, guest_token, name) VALUES ($1, $2, $3, 'x')`,
		uuid.New(), uuid.New(), uuid.New())
	assert.Error(t, err, "both owners")

	_, err = pool.Exec(ctx, `INSERT INTO wishlists (id, name) VALUES ($1, 'x')`, uuid.New())
	assert.Error(t, err, "no owner")
}

func TestAddItem_SecondAddIsNoOp(t *testing.T) {
	pool := dbtest.Open(t)
	_, variantID := dbtest.Product(t, pool, "hoop", "60.00", 4)
	r := NewPostgresRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	w, err := r.Create(ctx, identity.Owner{UserID: &userID, ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	first := "for mom"
	added, err := r.AddItem(ctx, w.ID, variantID, &first)
	require.NoError(t, err)
	assert.True(t, added)

	second := "changed"
	added, err = r.AddItem(ctx, w.ID, variantID, &second)
	require.NoError(t, err)
	assert.False(t, added)

	loaded, err := r.FindWithItems(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 1)
	// Note của lần thêm đầu được giữ nguyên
	require.NotNil(t, loaded.Items[0].Note)
	assert.Equal(t, first, *loaded.Items[0].Note)
}

func TestPurgeExpiredGuests_KeepsUserWishlists(t *testing.T) {
	pool := dbtest.Open(t)
	r := NewPostgresRepository(pool)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	token := uuid.New()
	guest, err := r.Create(ctx, identity.Owner{GuestToken: &token, ExpiresAt: past})
	require.NoError(t, err)

	userID := uuid.New()
	_, err = r.Create(ctx, identity.Owner{UserID: &userID, ExpiresAt: past})
	require.NoError(t, err)

	purged, err := r.PurgeExpiredGuests(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, purged, 1)
	assert.Equal(t, guest.ID, purged[0].ID)

	kept, err := r.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
