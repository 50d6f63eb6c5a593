package model

// MarkAbandonedPayload cho task cart:mark_abandoned
type MarkAbandonedPayload struct {
	BatchSize int `json:"batch_size"`
}
