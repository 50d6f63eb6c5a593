package repository

import (
	"context"
	"fmt"

	"storefront-backend/internal/domains/enquiry/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryInterface interface {
	Create(ctx context.Context, req model.CreateEnquiryRequest) (*model.Enquiry, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, req model.CreateEnquiryRequest) (*model.Enquiry, error) {
	query := `
		INSERT INTO enquiries (id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, name, email, phone, message, created_at`

	var e model.Enquiry
	err := r.pool.QueryRow(ctx, query, uuid.New(), req.Name, req.Email, req.Phone, req.Message).
		Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Message, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create enquiry: %w", err)
	}
	return &e, nil
}
