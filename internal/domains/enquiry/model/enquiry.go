package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type Enquiry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEnquiryRequest - POST /v1/enquiries
type CreateEnquiryRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Message string  `json:"message"`
}

// Normalize trim các field; phone rỗng coi như không gửi
func (r *CreateEnquiryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Message = strings.TrimSpace(r.Message)
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
}

func (r CreateEnquiryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("The name field is required."),
			validation.RuneLength(0, 100).Error("The name field must not be greater than 100 characters."),
		),
		validation.Field(&r.Email,
			validation.Required.Error("The email field is required."),
			validation.Length(0, 255).Error("The email field must not be greater than 255 characters."),
			is.EmailFormat.Error("The email field must be a valid email address."),
		),
		validation.Field(&r.Phone,
			validation.NilOrNotEmpty,
			validation.Length(0, 20).Error("The phone field must not be greater than 20 characters."),
		),
		validation.Field(&r.Message,
			validation.Required.Error("The message field is required."),
			validation.RuneLength(0, 2000).Error("The message field must not be greater than 2000 characters."),
		),
	)
}
