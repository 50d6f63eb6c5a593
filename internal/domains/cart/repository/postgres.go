package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const cartColumns = `id, user_id, guest_token, status, expires_at, created_at, updated_at`

// FindByUser implements identity.Store
func (r *postgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 AND status = $2`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, userID, model.CartStatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - return nil, not error
		}
		return nil, fmt.Errorf("failed to get user cart: %w", err)
	}
	return cart, nil
}

// FindByGuestToken implements identity.Store
func (r *postgresRepository) FindByGuestToken(ctx context.Context, token uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE guest_token = $1 AND status = $2`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, token, model.CartStatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get guest cart: %w", err)
	}
	return cart, nil
}

// Create implements identity.Store
// Vi phạm active_user_cart / active_guest_cart → identity.ErrOwnerConflict
func (r *postgresRepository) Create(ctx context.Context, owner identity.Owner) (*model.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id, guest_token, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + cartColumns

	cart, err := scanCart(r.pool.QueryRow(ctx, query,
		uuid.New(), owner.UserID, owner.GuestToken, model.CartStatusActive, owner.ExpiresAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, identity.ErrOwnerConflict
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	cart.Items = []model.CartItem{}
	return cart, nil
}

func (r *postgresRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, store ItemStore) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txItemStore{q: tx})
	})
}

// FindWithItems: cart + items JOIN variants JOIN products, một query cho items
func (r *postgresRepository) FindWithItems(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := scanCart(r.pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, cartID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	query := `
		SELECT
			ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
			v.id, v.product_id, v.sku, v.quantity, v.is_orderable, v.size, v.metal_type, v.weight_grams, v.price,
			p.id, p.name, p.slug, p.description, p.status, p.is_featured, p.base_price, p.images, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN variants v ON v.id = ci.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		var v catalog.Variant
		var p catalog.Product
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&v.ID, &v.ProductID, &v.SKU, &v.Quantity, &v.IsOrderable, &v.Size, &v.MetalType, &v.WeightGrams, &v.Price,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Status, &p.IsFeatured, &p.BasePrice, &p.Images, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		v.Product = &p
		item.Variant = &v
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND variant_id = $2`, cartID, variantID)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkExpiredAbandoned - background job
func (r *postgresRepository) MarkExpiredAbandoned(ctx context.Context, now time.Time, limit int) ([]model.ExpiredCart, error) {
	query := `
		UPDATE carts SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM carts
			WHERE status = $2 AND expires_at <= $3
			ORDER BY expires_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, guest_token`

	rows, err := r.pool.Query(ctx, query, model.CartStatusAbandoned, model.CartStatusActive, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to mark expired carts: %w", err)
	}
	defer rows.Close()

	var expired []model.ExpiredCart
	for rows.Next() {
		var c model.ExpiredCart
		if err := rows.Scan(&c.ID, &c.UserID, &c.GuestToken); err != nil {
			return nil, fmt.Errorf("failed to scan expired cart: %w", err)
		}
		expired = append(expired, c)
	}
	return expired, rows.Err()
}

// ============================================================
// TRANSACTIONAL ITEM STORE
// ============================================================

type txItemStore struct {
	q database.Querier
}

const variantQuery = `
		SELECT id, product_id, sku, quantity, is_orderable, size, metal_type, weight_grams, price
		FROM variants
		WHERE id = $1`

// LockVariantQuery - variantQuery kèm row lock, giữ tới khi transaction kết thúc
const LockVariantQuery = variantQuery + `
		FOR UPDATE`

func (r *postgresRepository) FindVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error) {
	return scanVariant(ctx, r.pool, variantQuery, variantID)
}

func (s *txItemStore) LockVariant(ctx context.Context, variantID uuid.UUID) (*catalog.Variant, error) {
	return scanVariant(ctx, s.q, LockVariantQuery, variantID)
}

func scanVariant(ctx context.Context, q database.Querier, query string, variantID uuid.UUID) (*catalog.Variant, error) {
	var v catalog.Variant
	err := q.QueryRow(ctx, query, variantID).Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Quantity, &v.IsOrderable,
		&v.Size, &v.MetalType, &v.WeightGrams, &v.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read variant: %w", err)
	}
	return &v, nil
}

func (s *txItemStore) FindItem(ctx context.Context, cartID, variantID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, variant_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND variant_id = $2`

	var item model.CartItem
	err := s.q.QueryRow(ctx, query, cartID, variantID).Scan(
		&item.ID, &item.CartID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func (s *txItemStore) InsertItem(ctx context.Context, cartID, variantID uuid.UUID, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`

	if _, err := s.q.Exec(ctx, query, uuid.New(), cartID, variantID, quantity); err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

func (s *txItemStore) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`

	if _, err := s.q.Exec(ctx, query, quantity, itemID); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func scanCart(row pgx.Row) (*model.Cart, error) {
	var c model.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.GuestToken, &c.Status, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
