package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Identity là danh tính của người mua cho một request:
// user đã đăng nhập (UserID) hoặc khách vãng lai (GuestToken).
// Khi có UserID thì GuestToken luôn bị bỏ qua.
type Identity struct {
	UserID     *uuid.UUID
	GuestToken *uuid.UUID
}

// New build Identity từ user id (nếu đã verify JWT) và guest token thô.
// Token không phải UUID hợp lệ được coi như không gửi.
func New(userID *uuid.UUID, rawGuestToken string) Identity {
	if userID != nil {
		id := *userID
		return Identity{UserID: &id}
	}

	raw := strings.TrimSpace(rawGuestToken)
	if raw == "" {
		return Identity{}
	}
	token, err := uuid.Parse(raw)
	if err != nil || token == uuid.Nil {
		return Identity{}
	}
	return Identity{GuestToken: &token}
}

// ForUser / ForGuest dùng trong worker và test
func ForUser(id uuid.UUID) Identity     { return Identity{UserID: &id} }
func ForGuest(token uuid.UUID) Identity { return Identity{GuestToken: &token} }

func (i Identity) IsEmpty() bool {
	return i.UserID == nil && i.GuestToken == nil
}

func (i Identity) IsGuest() bool {
	return i.UserID == nil && i.GuestToken != nil
}

// CacheKey trả về key cache của aggregate (cart / wishlist) thuộc identity này.
// Identity rỗng → "".
func (i Identity) CacheKey(prefix string) string {
	switch {
	case i.UserID != nil:
		return prefix + ":user:" + i.UserID.String()
	case i.GuestToken != nil:
		return prefix + ":guest:" + i.GuestToken.String()
	default:
		return ""
	}
}

// Aggregate prefixes
const (
	CartPrefix     = "cart"
	WishlistPrefix = "wishlist"
)

// CartKey / WishlistKey build key trực tiếp từ cột owner trong DB (dùng bởi job)
func CartKey(userID, guestToken *uuid.UUID) string {
	return Identity{UserID: userID, GuestToken: guestToken}.CacheKey(CartPrefix)
}

func WishlistKey(userID, guestToken *uuid.UUID) string {
	return Identity{UserID: userID, GuestToken: guestToken}.CacheKey(WishlistPrefix)
}
