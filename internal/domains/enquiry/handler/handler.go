package handler

import (
	"net/http"

	"storefront-backend/internal/domains/enquiry/model"
	"storefront-backend/internal/domains/enquiry/service"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type EnquiryHandler struct {
	service service.ServiceInterface
}

func NewEnquiryHandler(service service.ServiceInterface) *EnquiryHandler {
	return &EnquiryHandler{service: service}
}

// POST /v1/enquiries
func (h *EnquiryHandler) Create(c *gin.Context) {
	var req model.CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Enquiry created successfully.", nil)
}
