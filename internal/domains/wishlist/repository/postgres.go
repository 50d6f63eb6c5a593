package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/domains/wishlist/model"
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

const wishlistColumns = `id, user_id, guest_token, name, is_default, visibility, share_token, expires_at, created_at, updated_at`

func (r *postgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlists WHERE user_id = $1 AND is_default = TRUE`
	return r.findOne(ctx, query, userID)
}

func (r *postgresRepository) FindByGuestToken(ctx context.Context, token uuid.UUID) (*model.Wishlist, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlists WHERE guest_token = $1`
	return r.findOne(ctx, query, token)
}

// Create - vi phạm one_default_wishlist_per_user / one_wishlist_per_guest → identity.ErrOwnerConflict
func (r *postgresRepository) Create(ctx context.Context, owner identity.Owner) (*model.Wishlist, error) {
	query := `
		INSERT INTO wishlists (id, user_id, guest_token, name, is_default, visibility, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6, NOW(), NOW())
		RETURNING ` + wishlistColumns

	w, err := scanWishlist(r.pool.QueryRow(ctx, query,
		uuid.New(), owner.UserID, owner.GuestToken, model.DefaultWishlistName, model.VisibilityPrivate, owner.ExpiresAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, identity.ErrOwnerConflict
		}
		return nil, fmt.Errorf("failed to create wishlist: %w", err)
	}
	w.Items = []model.WishlistItem{}
	return w, nil
}

func (r *postgresRepository) VariantExists(ctx context.Context, variantID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM variants WHERE id = $1)`, variantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check variant: %w", err)
	}
	return exists, nil
}

// AddItemQuery bỏ qua variant đã có trong wishlist, RowsAffected = 0 nghĩa là trùng
const AddItemQuery = `
	INSERT INTO wishlist_items (id, wishlist_id, variant_id, note, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (wishlist_id, variant_id) DO NOTHING`

func (r *postgresRepository) AddItem(ctx context.Context, wishlistID, variantID uuid.UUID, note *string) (bool, error) {
	tag, err := r.pool.Exec(ctx, AddItemQuery, uuid.New(), wishlistID, variantID, note)
	if err != nil {
		return false, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) FindWithItems(ctx context.Context, wishlistID uuid.UUID) (*model.Wishlist, error) {
	w, err := r.findOne(ctx, `SELECT `+wishlistColumns+` FROM wishlists WHERE id = $1`, wishlistID)
	if err != nil || w == nil {
		return w, err
	}

	query := `
		SELECT
			wi.id, wi.wishlist_id, wi.variant_id, wi.note, wi.created_at,
			v.id, v.product_id, v.sku, v.quantity, v.is_orderable, v.size, v.metal_type, v.weight_grams, v.price,
			p.id, p.name, p.slug, p.description, p.status, p.is_featured, p.base_price, p.images, p.created_at, p.updated_at
		FROM wishlist_items wi
		JOIN variants v ON v.id = wi.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.created_at, wi.id`

	rows, err := r.pool.Query(ctx, query, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist items: %w", err)
	}
	defer rows.Close()

	w.Items = []model.WishlistItem{}
	for rows.Next() {
		var item model.WishlistItem
		var v catalog.Variant
		var p catalog.Product
		if err := rows.Scan(
			&item.ID, &item.WishlistID, &item.VariantID, &item.Note, &item.CreatedAt,
			&v.ID, &v.ProductID, &v.SKU, &v.Quantity, &v.IsOrderable, &v.Size, &v.MetalType, &v.WeightGrams, &v.Price,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Status, &p.IsFeatured, &p.BasePrice, &p.Images, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		v.Product = &p
		item.Variant = &v
		w.Items = append(w.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}
	return w, nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, wishlistID, variantID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE wishlist_id = $1 AND variant_id = $2`, wishlistID, variantID)
	if err != nil {
		return false, fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) PurgeExpiredGuests(ctx context.Context, now time.Time, limit int) ([]model.ExpiredWishlist, error) {
	query := `
		DELETE FROM wishlists
		WHERE id IN (
			SELECT id FROM wishlists
			WHERE user_id IS NULL AND expires_at IS NOT NULL AND expires_at <= $1
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, guest_token`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to purge expired wishlists: %w", err)
	}
	defer rows.Close()

	var purged []model.ExpiredWishlist
	for rows.Next() {
		var w model.ExpiredWishlist
		if err := rows.Scan(&w.ID, &w.UserID, &w.GuestToken); err != nil {
			return nil, fmt.Errorf("failed to scan purged wishlist: %w", err)
		}
		purged = append(purged, w)
	}
	return purged, rows.Err()
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*model.Wishlist, error) {
	w, err := scanWishlist(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return w, nil
}

func scanWishlist(row pgx.Row) (*model.Wishlist, error) {
	var w model.Wishlist
	err := row.Scan(
		&w.ID, &w.UserID, &w.GuestToken, &w.Name, &w.IsDefault, &w.Visibility,
		&w.ShareToken, &w.ExpiresAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
