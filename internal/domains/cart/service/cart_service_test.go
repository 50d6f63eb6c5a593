package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-backend/internal/domains/cart/model"
	repo "storefront-backend/internal/domains/cart/repository"
	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/shared/apperror"
	"storefront-backend/pkg/cache/cachetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// FAKE REPOSITORY
// ============================================================

type fakeRepo struct {
	carts    map[uuid.UUID]*model.Cart
	items    map[uuid.UUID][]model.CartItem // cartID → items
	variants map[uuid.UUID]*catalog.Variant

	txCount    int
	findCalls  int
	removeErr  error
	expiredOut []model.ExpiredCart
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		carts:    map[uuid.UUID]*model.Cart{},
		items:    map[uuid.UUID][]model.CartItem{},
		variants: map[uuid.UUID]*catalog.Variant{},
	}
}

func (r *fakeRepo) addVariant(stock int) uuid.UUID {
	v := &catalog.Variant{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		SKU:       "SKU-" + uuid.NewString()[:8],
		Quantity:  stock,
	}
	r.variants[v.ID] = v
	return v.ID
}

func (r *fakeRepo) FindByUser(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	for _, c := range r.carts {
		if c.UserID != nil && *c.UserID == userID && c.Status == model.CartStatusActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByGuestToken(_ context.Context, token uuid.UUID) (*model.Cart, error) {
	for _, c := range r.carts {
		if c.GuestToken != nil && *c.GuestToken == token && c.Status == model.CartStatusActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Create(_ context.Context, owner identity.Owner) (*model.Cart, error) {
	c := &model.Cart{
		ID:         uuid.New(),
		UserID:     owner.UserID,
		GuestToken: owner.GuestToken,
		Status:     model.CartStatusActive,
		ExpiresAt:  owner.ExpiresAt,
	}
	r.carts[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, store repo.ItemStore) error) error {
	r.txCount++

	// snapshot để rollback
	snapshot := make(map[uuid.UUID][]model.CartItem, len(r.items))
	for k, v := range r.items {
		snapshot[k] = append([]model.CartItem(nil), v...)
	}

	if err := fn(ctx, &fakeItemStore{r: r}); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) FindWithItems(_ context.Context, cartID uuid.UUID) (*model.Cart, error) {
	r.findCalls++
	c, ok := r.carts[cartID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = []model.CartItem{}
	for _, item := range r.items[cartID] {
		item.Variant = r.variants[item.VariantID]
		cp.Items = append(cp.Items, item)
	}
	return &cp, nil
}

func (r *fakeRepo) RemoveItem(_ context.Context, cartID, variantID uuid.UUID) (bool, error) {
	if r.removeErr != nil {
		return false, r.removeErr
	}
	list := r.items[cartID]
	for i, item := range list {
		if item.VariantID == variantID {
			r.items[cartID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) MarkExpiredAbandoned(context.Context, time.Time, int) ([]model.ExpiredCart, error) {
	return r.expiredOut, nil
}

func (r *fakeRepo) FindVariant(_ context.Context, id uuid.UUID) (*catalog.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

type fakeItemStore struct{ r *fakeRepo }

func (s *fakeItemStore) LockVariant(_ context.Context, id uuid.UUID) (*catalog.Variant, error) {
	v, ok := s.r.variants[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *fakeItemStore) FindItem(_ context.Context, cartID, variantID uuid.UUID) (*model.CartItem, error) {
	for _, item := range s.r.items[cartID] {
		if item.VariantID == variantID {
			cp := item
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeItemStore) InsertItem(_ context.Context, cartID, variantID uuid.UUID, quantity int) error {
	s.r.items[cartID] = append(s.r.items[cartID], model.CartItem{
		ID: uuid.New(), CartID: cartID, VariantID: variantID, Quantity: quantity,
	})
	return nil
}

func (s *fakeItemStore) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	for cartID, list := range s.r.items {
		for i := range list {
			if list[i].ID == itemID {
				s.r.items[cartID][i].Quantity = quantity
				return nil
			}
		}
	}
	return errors.New("item not found")
}

func newService(r *fakeRepo, store *cachetest.Memory) ServiceInterface {
	if store == nil {
		return NewCartService(r, nil, 24*time.Hour)
	}
	return NewCartService(r, store, 24*time.Hour)
}

// ============================================================
// ADD ITEM
// ============================================================

func TestAddItem_GuestTokenIssuance(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(5)
	svc := newService(r, nil)

	result, err := svc.AddItem(context.Background(), identity.Identity{}, variant, 1)
	require.NoError(t, err)

	require.NotNil(t, result.GuestToken)
	require.NotNil(t, result.Cart)
	assert.Equal(t, *result.GuestToken, *result.Cart.GuestToken)
	assert.Nil(t, result.Cart.UserID)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 1, result.Cart.Items[0].Quantity)
	assert.NotNil(t, result.Cart.Items[0].Variant)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.Cart.ExpiresAt, time.Minute)
}

func TestAddItem_TokenContinuityAndAdditiveQuantity(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(10)
	svc := newService(r, nil)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, identity.Identity{}, variant, 2)
	require.NoError(t, err)

	second, err := svc.AddItem(ctx, identity.ForGuest(*first.GuestToken), variant, 3)
	require.NoError(t, err)

	assert.Equal(t, first.Cart.ID, second.Cart.ID)
	assert.Equal(t, *first.GuestToken, *second.GuestToken)
	require.Len(t, second.Cart.Items, 1)
	assert.Equal(t, 5, second.Cart.Items[0].Quantity)
	assert.Len(t, r.carts, 1)
}

func TestAddItem_UnknownTokenRejected(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(10)
	svc := newService(r, nil)
	stale := uuid.New()

	result, err := svc.AddItem(context.Background(), identity.ForGuest(stale), variant, 1)
	require.NoError(t, err)

	require.NotNil(t, result.GuestToken)
	assert.NotEqual(t, stale, *result.GuestToken)
}

func TestAddItem_UserCart(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(10)
	svc := newService(r, nil)
	user := uuid.New()

	result, err := svc.AddItem(context.Background(), identity.ForUser(user), variant, 1)
	require.NoError(t, err)

	assert.Nil(t, result.GuestToken)
	require.NotNil(t, result.Cart.UserID)
	assert.Equal(t, user, *result.Cart.UserID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), result.Cart.ExpiresAt, time.Minute)
}

func TestAddItem_StockCeilings(t *testing.T) {
	t.Run("single request over stock", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(3)
		svc := newService(r, nil)

		_, err := svc.AddItem(context.Background(), identity.Identity{}, variant, 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrRequestedQuantityExceedsStock)
		assert.Equal(t, "Requested quantity exceeds available stock.", apperror.As(err).Message)

		for _, items := range r.items {
			assert.Empty(t, items)
		}
	})

	t.Run("cumulative over stock leaves line untouched", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(5)
		svc := newService(r, nil)
		ctx := context.Background()

		first, err := svc.AddItem(ctx, identity.Identity{}, variant, 3)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, identity.ForGuest(*first.GuestToken), variant, 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTotalQuantityExceedsStock)
		assert.Equal(t, 422, apperror.HTTPStatus(err))

		cart, err := svc.GetCart(ctx, identity.ForGuest(*first.GuestToken))
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
	})

	t.Run("exactly at stock is allowed", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(4)
		svc := newService(r, nil)

		result, err := svc.AddItem(context.Background(), identity.Identity{}, variant, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Cart.Items[0].Quantity)
	})
}

func TestAddItem_VariantNotFound(t *testing.T) {
	r := newFakeRepo()
	svc := newService(r, nil)

	_, err := svc.AddItem(context.Background(), identity.Identity{}, uuid.New(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrVariantInvalid)
	assert.Equal(t, "The selected variant id is invalid.", apperror.As(err).Message)
}

// Request bị từ chối không được để lại cart khách mồ côi
func TestAddItem_RejectedGuestAddCreatesNoCart(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(2)
	svc := newService(r, nil)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, identity.Identity{}, uuid.New(), 1)
	assert.ErrorIs(t, err, model.ErrVariantInvalid)

	_, err = svc.AddItem(ctx, identity.ForGuest(uuid.New()), variant, 3)
	assert.ErrorIs(t, err, model.ErrRequestedQuantityExceedsStock)

	assert.Empty(t, r.carts)
	assert.Zero(t, r.txCount)
}

func TestAddItem_InvalidatesCache(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(10)
	store := cachetest.NewMemory()
	svc := newService(r, store)
	ctx := context.Background()
	user := uuid.New()
	key := "cart:user:" + user.String()

	_, err := svc.AddItem(ctx, identity.ForUser(user), variant, 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, identity.ForUser(user))
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.True(t, store.Has(key))

	_, err = svc.AddItem(ctx, identity.ForUser(user), variant, 2)
	require.NoError(t, err)
	assert.False(t, store.Has(key))
	assert.Contains(t, store.Deletes, key)

	cart, err = svc.GetCart(ctx, identity.ForUser(user))
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_FailedCheckKeepsCache(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(1)
	store := cachetest.NewMemory()
	svc := newService(r, store)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.AddItem(ctx, identity.ForUser(user), variant, 1)
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, identity.ForUser(user))
	require.NoError(t, err)
	deletes := len(store.Deletes)

	_, err = svc.AddItem(ctx, identity.ForUser(user), variant, 1)
	require.Error(t, err)
	assert.Len(t, store.Deletes, deletes)
}

// ============================================================
// GET / REMOVE
// ============================================================

func TestGetCart_EmptyIdentityIsNil(t *testing.T) {
	r := newFakeRepo()
	store := cachetest.NewMemory()
	svc := newService(r, store)

	cart, err := svc.GetCart(context.Background(), identity.Identity{})
	require.NoError(t, err)
	assert.Nil(t, cart)
	assert.Equal(t, 0, store.Gets)
}

func TestGetCart_UnknownIdentityNotCached(t *testing.T) {
	r := newFakeRepo()
	store := cachetest.NewMemory()
	svc := newService(r, store)

	cart, err := svc.GetCart(context.Background(), identity.ForGuest(uuid.New()))
	require.NoError(t, err)
	assert.Nil(t, cart)
	assert.Equal(t, 0, store.Sets)
	assert.Empty(t, r.carts)
}

func TestGetCart_ServedFromCache(t *testing.T) {
	r := newFakeRepo()
	variant := r.addVariant(10)
	store := cachetest.NewMemory()
	svc := newService(r, store)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, identity.Identity{}, variant, 1)
	require.NoError(t, err)
	guest := identity.ForGuest(*added.GuestToken)

	_, err = svc.GetCart(ctx, guest)
	require.NoError(t, err)
	calls := r.findCalls

	cart, err := svc.GetCart(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, calls, r.findCalls)
	assert.Equal(t, added.Cart.ID, cart.ID)
}

func TestRemoveItem(t *testing.T) {
	t.Run("no cart is a silent no-op", func(t *testing.T) {
		r := newFakeRepo()
		svc := newService(r, nil)

		require.NoError(t, svc.RemoveItem(context.Background(), identity.Identity{}, uuid.New()))
		require.NoError(t, svc.RemoveItem(context.Background(), identity.ForGuest(uuid.New()), uuid.New()))
		assert.Empty(t, r.carts)
	})

	t.Run("missing line is a silent no-op", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(10)
		svc := newService(r, nil)
		ctx := context.Background()

		added, err := svc.AddItem(ctx, identity.Identity{}, variant, 1)
		require.NoError(t, err)

		require.NoError(t, svc.RemoveItem(ctx, identity.ForGuest(*added.GuestToken), uuid.New()))
		assert.Len(t, r.items[added.Cart.ID], 1)
	})

	t.Run("removes line and forgets key", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(10)
		store := cachetest.NewMemory()
		svc := newService(r, store)
		ctx := context.Background()

		added, err := svc.AddItem(ctx, identity.Identity{}, variant, 1)
		require.NoError(t, err)
		guest := identity.ForGuest(*added.GuestToken)
		_, err = svc.GetCart(ctx, guest)
		require.NoError(t, err)

		require.NoError(t, svc.RemoveItem(ctx, guest, variant))
		assert.Empty(t, r.items[added.Cart.ID])
		assert.False(t, store.Has("cart:guest:"+added.GuestToken.String()))
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		r := newFakeRepo()
		variant := r.addVariant(10)
		svc := newService(r, nil)
		ctx := context.Background()

		added, err := svc.AddItem(ctx, identity.Identity{}, variant, 1)
		require.NoError(t, err)

		r.removeErr = errors.New("db down")
		assert.Error(t, svc.RemoveItem(ctx, identity.ForGuest(*added.GuestToken), variant))
	})
}

func TestMarkAbandoned_ForgetsKeys(t *testing.T) {
	r := newFakeRepo()
	store := cachetest.NewMemory()
	svc := newService(r, store)
	user := uuid.New()
	token := uuid.New()

	r.expiredOut = []model.ExpiredCart{
		{ID: uuid.New(), UserID: &user},
		{ID: uuid.New(), GuestToken: &token},
	}

	n, err := svc.MarkAbandoned(context.Background(), time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"cart:user:" + user.String(), "cart:guest:" + token.String()}, store.Deletes)
}
