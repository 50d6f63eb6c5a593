package model

import "time"

// Cart lifetime
const (
	// UserCartExpiration - cart của user đã đăng nhập
	UserCartExpiration = 30 * 24 * time.Hour

	// GuestCartExpiration - cart của khách vãng lai
	GuestCartExpiration = 24 * time.Hour
)

// MaxQuantityPerRequest giới hạn quantity của một request add item
const MaxQuantityPerRequest = 1000
