package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// AddItemRequest - POST /v1/cart/items
// guest_token không được validate ở đây: token sai định dạng được coi như không gửi
type AddItemRequest struct {
	GuestToken string `json:"guest_token"`
	VariantID  string `json:"variant_id"`
	Quantity   int    `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VariantID,
			validation.Required.Error("The variant id field is required."),
			is.UUID.Error("The selected variant id is invalid."),
		),
		validation.Field(&r.Quantity,
			validation.Required.Error("The quantity field is required."),
			validation.Min(1).Error("The quantity field must be at least 1."),
			validation.Max(MaxQuantityPerRequest),
		),
	)
}

// ParsedVariantID chỉ gọi sau Validate
func (r AddItemRequest) ParsedVariantID() uuid.UUID {
	return uuid.MustParse(r.VariantID)
}

// AddItemResult - GuestToken chỉ khác nil với cart của khách
type AddItemResult struct {
	Cart       *Cart      `json:"cart"`
	GuestToken *uuid.UUID `json:"guest_token"`
}
