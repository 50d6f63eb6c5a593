package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Address - mỗi user tối đa một address is_default (partial unique index)
type Address struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Line1         string    `json:"line1"`
	Line2         *string   `json:"line2"`
	City          string    `json:"city"`
	Province      *string   `json:"province"`
	PostalCode    *string   `json:"postal_code"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{6,19}$`)

// ============================================
// REQUEST DTOs
// ============================================

// CreateAddressRequest - POST /v1/me/addresses
type CreateAddressRequest struct {
	RecipientName string  `json:"recipient_name"`
	Phone         string  `json:"phone"`
	Line1         string  `json:"line1"`
	Line2         *string `json:"line2"`
	City          string  `json:"city"`
	Province      *string `json:"province"`
	PostalCode    *string `json:"postal_code"`
	Country       string  `json:"country"`
	IsDefault     bool    `json:"is_default"`
}

func (r CreateAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Phone, validation.Required, validation.Match(phoneRegex).Error("The phone format is invalid.")),
		validation.Field(&r.Line1, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Line2, validation.Length(0, 255)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Province, validation.Length(0, 100)),
		validation.Field(&r.PostalCode, validation.Length(0, 20)),
		validation.Field(&r.Country, validation.Required, is.CountryCode2),
	)
}

// ToAddress trim input, country viết hoa
func (r CreateAddressRequest) ToAddress(userID uuid.UUID) *Address {
	return &Address{
		UserID:        userID,
		RecipientName: strings.TrimSpace(r.RecipientName),
		Phone:         strings.TrimSpace(r.Phone),
		Line1:         strings.TrimSpace(r.Line1),
		Line2:         trimPtr(r.Line2),
		City:          strings.TrimSpace(r.City),
		Province:      trimPtr(r.Province),
		PostalCode:    trimPtr(r.PostalCode),
		Country:       strings.ToUpper(strings.TrimSpace(r.Country)),
		IsDefault:     r.IsDefault,
	}
}

// UpdateAddressRequest - PUT /v1/me/addresses/:id, chỉ field khác nil được cập nhật
type UpdateAddressRequest struct {
	RecipientName *string `json:"recipient_name"`
	Phone         *string `json:"phone"`
	Line1         *string `json:"line1"`
	Line2         *string `json:"line2"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
}

func (r UpdateAddressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.NilOrNotEmpty, validation.Length(2, 255)),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Match(phoneRegex).Error("The phone format is invalid.")),
		validation.Field(&r.Line1, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Line2, validation.Length(0, 255)),
		validation.Field(&r.City, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Province, validation.Length(0, 100)),
		validation.Field(&r.PostalCode, validation.Length(0, 20)),
		validation.Field(&r.Country, validation.NilOrNotEmpty, is.CountryCode2),
	)
}

// ApplyTo merge request vào address hiện tại
func (r UpdateAddressRequest) ApplyTo(addr *Address) {
	if r.RecipientName != nil {
		addr.RecipientName = strings.TrimSpace(*r.RecipientName)
	}
	if r.Phone != nil {
		addr.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Line1 != nil {
		addr.Line1 = strings.TrimSpace(*r.Line1)
	}
	if r.Line2 != nil {
		addr.Line2 = trimPtr(r.Line2)
	}
	if r.City != nil {
		addr.City = strings.TrimSpace(*r.City)
	}
	if r.Province != nil {
		addr.Province = trimPtr(r.Province)
	}
	if r.PostalCode != nil {
		addr.PostalCode = trimPtr(r.PostalCode)
	}
	if r.Country != nil {
		addr.Country = strings.ToUpper(strings.TrimSpace(*r.Country))
	}
}

// "" sau khi trim → nil
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
