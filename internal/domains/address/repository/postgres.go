package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/internal/domains/address/model"
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

const addressColumns = `id, user_id, recipient_name, phone, line1, line2, city, province, postal_code, country, is_default, created_at, updated_at`

// ListByUser retrieves all addresses for a user
func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

func (r *postgresRepository) FindForUser(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, addressID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return addr, nil
}

func (r *postgresRepository) Create(ctx context.Context, addr *model.Address) (*model.Address, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Address, error) {
		if addr.IsDefault {
			if err := clearDefault(ctx, tx, addr.UserID); err != nil {
				return nil, err
			}
		}

		query := `
			INSERT INTO addresses
				(id, user_id, recipient_name, phone, line1, line2, city, province, postal_code, country, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING ` + addressColumns

		created, err := scanAddress(tx.QueryRow(ctx, query,
			uuid.New(), addr.UserID, addr.RecipientName, addr.Phone, addr.Line1, addr.Line2,
			addr.City, addr.Province, addr.PostalCode, addr.Country, addr.IsDefault,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create address: %w", err)
		}
		return created, nil
	})
}

func (r *postgresRepository) Update(ctx context.Context, addr *model.Address) (*model.Address, error) {
	query := `
		UPDATE addresses SET
			recipient_name = $3, phone = $4, line1 = $5, line2 = $6, city = $7,
			province = $8, postal_code = $9, country = $10, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	updated, err := scanAddress(r.pool.QueryRow(ctx, query,
		addr.ID, addr.UserID, addr.RecipientName, addr.Phone, addr.Line1, addr.Line2,
		addr.City, addr.Province, addr.PostalCode, addr.Country,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return updated, nil
}

// SetDefault sets an address as default for user
func (r *postgresRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (bool, error) {
	found := false
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Unset all other defaults for this user
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND id <> $2 AND is_default = TRUE`,
			userID, addressID,
		); err != nil {
			return fmt.Errorf("failed to clear default address: %w", err)
		}

		// Set this address as default
		tag, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
			addressID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to set default address: %w", err)
		}
		found = tag.RowsAffected() > 0
		if !found {
			// rollback phần clear ở trên
			return model.ErrAddressNotFound
		}
		return nil
	})
	if errors.Is(err, model.ErrAddressNotFound) {
		return false, nil
	}
	return found, err
}

func (r *postgresRepository) Delete(ctx context.Context, userID, addressID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete address: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func clearDefault(ctx context.Context, q database.Querier, userID uuid.UUID) error {
	_, err := q.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.Province, &a.PostalCode, &a.Country, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
