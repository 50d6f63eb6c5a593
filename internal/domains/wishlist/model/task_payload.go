package model

// PurgeExpiredPayload - payload của task wishlist:purge_expired
type PurgeExpiredPayload struct {
	BatchSize int `json:"batch_size"`
}
