package handler

import (
	"net/http"

	"storefront-backend/internal/domains/address/model"
	"storefront-backend/internal/domains/address/service"
	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AddressHandler struct {
	service service.ServiceInterface
}

func NewAddressHandler(service service.ServiceInterface) *AddressHandler {
	return &AddressHandler{service: service}
}

// ListAddresses handles GET /me/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Addresses retrieved successfully.", addresses)
}

// GetAddress handles GET /me/addresses/:id
func (h *AddressHandler) GetAddress(c *gin.Context) {
	userID, addressID, ok := userAndAddress(c)
	if !ok {
		return
	}

	addr, err := h.service.GetAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address retrieved successfully.", addr)
}

// CreateAddress handles POST /me/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	addr, err := h.service.CreateAddress(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Address created successfully.", addr)
}

// UpdateAddress handles PUT /me/addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, addressID, ok := userAndAddress(c)
	if !ok {
		return
	}

	var req model.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	addr, err := h.service.UpdateAddress(c.Request.Context(), userID, addressID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address updated successfully.", addr)
}

// SetDefaultAddress handles PUT /me/addresses/:id/default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	userID, addressID, ok := userAndAddress(c)
	if !ok {
		return
	}

	addr, err := h.service.SetDefaultAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Default address updated successfully.", addr)
}

// DeleteAddress handles DELETE /me/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, addressID, ok := userAndAddress(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Address deleted successfully.", nil)
}

// ============================================
// HELPERS
// ============================================

// AuthMiddleware đã chặn request chưa đăng nhập, nhánh !ok chỉ là phòng hờ route bị gắn sai
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthenticated.")
		return uuid.Nil, false
	}
	return *userID, true
}

func userAndAddress(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// id sai định dạng không thể tồn tại
		response.NotFound(c, model.ErrAddressNotFound.Message)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, addressID, true
}
