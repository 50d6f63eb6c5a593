package shared

// Task types của asynq worker
const (
	TypeMarkAbandonedCarts    = "cart:mark_abandoned"
	TypePurgeExpiredWishlists = "wishlist:purge_expired"
)

// Queues
const (
	QueueMaintenance = "maintenance"
	QueueDefault     = "default"
)
