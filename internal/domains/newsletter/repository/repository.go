package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domains/newsletter/model"
	"storefront-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmailTaken - INSERT đụng unique(email) do request song song
var ErrEmailTaken = errors.New("newsletter: email already subscribed")

type RepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*model.Subscriber, error)
	FindByToken(ctx context.Context, token uuid.UUID) (*model.Subscriber, error)

	// Create trả về ErrEmailTaken khi email đã tồn tại
	Create(ctx context.Context, email string, token uuid.UUID, now time.Time) (*model.Subscriber, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const subscriberColumns = `id, email, unsubscribe_token, is_active, last_active_at, created_at, updated_at`

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	return r.findOne(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE email = $1`, email)
}

func (r *postgresRepository) FindByToken(ctx context.Context, token uuid.UUID) (*model.Subscriber, error) {
	return r.findOne(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE unsubscribe_token = $1`, token)
}

func (r *postgresRepository) Create(ctx context.Context, email string, token uuid.UUID, now time.Time) (*model.Subscriber, error) {
	query := `
		INSERT INTO subscribers (id, email, unsubscribe_token, is_active, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, NOW(), NOW())
		RETURNING ` + subscriberColumns

	s, err := scanSubscriber(r.pool.QueryRow(ctx, query, uuid.New(), email, token, now))
	if err != nil {
		if database.IsUniqueViolation(err, "subscribers_email_key") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return s, nil
}

// SetActive - last_active_at chỉ cập nhật khi kích hoạt lại
func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error {
	query := `
		UPDATE subscribers
		SET is_active = $2,
			last_active_at = CASE WHEN $2 THEN $3 ELSE last_active_at END,
			updated_at = NOW()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, active, now); err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}
	return nil
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*model.Subscriber, error) {
	s, err := scanSubscriber(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return s, nil
}

func scanSubscriber(row pgx.Row) (*model.Subscriber, error) {
	var s model.Subscriber
	err := row.Scan(&s.ID, &s.Email, &s.UnsubscribeToken, &s.IsActive, &s.LastActiveAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
