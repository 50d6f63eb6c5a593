package handler

import (
	"net/http"

	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/domains/wishlist/model"
	"storefront-backend/internal/domains/wishlist/service"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GET /v1/wishlist
func (h *Handler) GetWishlist(c *gin.Context) {
	wishlist, err := h.service.GetWishlist(c.Request.Context(), requestIdentity(c, ""))
	if err != nil {
		response.FromError(c, err)
		return
	}

	var guestToken *uuid.UUID
	if wishlist != nil && wishlist.UserID == nil {
		guestToken = wishlist.GuestToken
	}

	response.Success(c, http.StatusOK, "Wishlist retrieved successfully.", gin.H{
		"wishlist":    wishlist,
		"guest_token": guestToken,
	})
}

// POST /v1/wishlist/items
func (h *Handler) AddItem(c *gin.Context) {
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.AddItem(c.Request.Context(), requestIdentity(c, req.GuestToken), req.ParsedVariantID(), req.Note)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Product added to wishlist successfully.", result)
}

// DELETE /v1/wishlist/items/:variant_id
func (h *Handler) RemoveItem(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err == nil {
		if err := h.service.RemoveItem(c.Request.Context(), requestIdentity(c, middleware.BodyGuestToken(c)), variantID); err != nil {
			response.FromError(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, "Item removed from wishlist successfully.", nil)
}

func requestIdentity(c *gin.Context, bodyToken string) identity.Identity {
	userID, _ := middleware.GetAuthenticatedUserID(c)
	return identity.New(userID, middleware.GuestToken(c, bodyToken))
}
