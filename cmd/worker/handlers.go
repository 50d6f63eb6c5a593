package main

import (
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/infrastructure/queue/handlers"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	markAbandonedCarts    asynq.HandlerFunc
	purgeExpiredWishlists asynq.HandlerFunc
}

// initializeHandlers wires maintenance handlers to the services in the container
func initializeHandlers(c *container.Container) *HandlerRegistry {
	batch := c.Config.Job.BatchSize

	return &HandlerRegistry{
		markAbandonedCarts:    handlers.MarkAbandonedCartsHandler(c.CartService, batch, time.Now),
		purgeExpiredWishlists: handlers.PurgeExpiredWishlistsHandler(c.WishlistService, batch, time.Now),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Maintenance tasks
	mux.Handle(shared.TypeMarkAbandonedCarts, h.markAbandonedCarts)
	mux.Handle(shared.TypePurgeExpiredWishlists, h.purgeExpiredWishlists)
}
