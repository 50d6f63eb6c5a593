package handler

import (
	"net/http"

	"storefront-backend/internal/domains/newsletter/model"
	"storefront-backend/internal/domains/newsletter/service"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	service service.ServiceInterface
}

func NewNewsletterHandler(service service.ServiceInterface) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// POST /v1/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req model.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Successfully subscribed to the newsletter.", gin.H{
		"subscriber": sub.View(),
	})
}

// GET /v1/newsletter/unsubscribe/:token
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	if err := h.service.Unsubscribe(c.Request.Context(), c.Param("token")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Successfully unsubscribed from the newsletter.", nil)
}
