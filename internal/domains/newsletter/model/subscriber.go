package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"storefront-backend/internal/shared/apperror"
)

type Subscriber struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	UnsubscribeToken uuid.UUID  `json:"-"`
	IsActive         bool       `json:"is_active"`
	LastActiveAt     *time.Time `json:"last_active_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SubscribeRequest - POST /v1/newsletter/subscribe
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Normalize trim + lowercase, gọi trước Validate
func (r *SubscribeRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SubscribeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("The email field is required."),
			validation.Length(0, 255).Error("The email field must not be greater than 255 characters."),
			is.EmailFormat.Error("The email field must be a valid email address."),
		),
	)
}

// SubscriptionView là phần subscriber trả về cho client
type SubscriptionView struct {
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (s *Subscriber) View() SubscriptionView {
	return SubscriptionView{Email: s.Email, IsActive: s.IsActive}
}

var ErrSubscriberNotFound = apperror.NotFound("SUBSCRIBER_NOT_FOUND", "Subscriber not found.")
