package handler

import (
	"net/http"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/service"
	"storefront-backend/internal/domains/identity"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for cart
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ===================================
// API 1: GET /v1/cart
// ===================================

// GetCart trả về cart hiện tại; không có identity → data.cart = null
func (h *Handler) GetCart(c *gin.Context) {
	id := requestIdentity(c, "")

	cart, err := h.service.GetCart(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var guestToken *uuid.UUID
	if cart != nil && cart.UserID == nil {
		guestToken = cart.GuestToken
	}

	response.Success(c, http.StatusOK, "Cart retrieved successfully.", gin.H{
		"cart":        cart,
		"guest_token": guestToken,
	})
}

// ===================================
// API 2: POST /v1/cart/items
// ===================================

func (h *Handler) AddItem(c *gin.Context) {
	// Parse request
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	id := requestIdentity(c, req.GuestToken)

	result, err := h.service.AddItem(c.Request.Context(), id, req.ParsedVariantID(), req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Product added to cart successfully.", result)
}

// ===================================
// API 3: DELETE /v1/cart/items/:variant_id
// ===================================

// RemoveItem luôn trả 200, kể cả khi cart hoặc line không tồn tại
func (h *Handler) RemoveItem(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variant_id"))
	if err != nil {
		response.Success(c, http.StatusOK, "Item removed from cart successfully.", nil)
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), requestIdentity(c, middleware.BodyGuestToken(c)), variantID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Item removed from cart successfully.", nil)
}

func requestIdentity(c *gin.Context, bodyToken string) identity.Identity {
	userID, _ := middleware.GetAuthenticatedUserID(c)
	return identity.New(userID, middleware.GuestToken(c, bodyToken))
}
