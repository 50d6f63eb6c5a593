package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// AddItemRequest - POST /v1/wishlist/items
type AddItemRequest struct {
	GuestToken string  `json:"guest_token"`
	VariantID  string  `json:"variant_id"`
	Note       *string `json:"note"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VariantID,
			validation.Required.Error("The variant id field is required."),
			is.UUID.Error("The selected variant id is invalid."),
		),
		validation.Field(&r.Note,
			validation.NilOrNotEmpty.Error("The note field must not be empty."),
			validation.Length(0, MaxNoteLength),
		),
	)
}

func (r AddItemRequest) ParsedVariantID() uuid.UUID {
	return uuid.MustParse(r.VariantID)
}

type AddItemResult struct {
	Wishlist   *Wishlist  `json:"wishlist"`
	GuestToken *uuid.UUID `json:"guest_token"`
}
