package handler

import (
	"net/http"

	"storefront-backend/internal/domains/catalog"
	"storefront-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ========== GET /v1/products ==========
// Query: filter[status], include, page, per_page
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, err := h.service.ListProducts(c.Request.Context(), listRequest(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Products retrieved successfully.", page.Products, pageMeta(page))
}

// ========== GET /v1/products/:slug ==========
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("slug"), c.Request.URL.Query())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Product details retrieved successfully.", product)
}

// ========== GET /v1/categories ==========
// Chỉ category gốc, include=children để lấy cấp con
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Categories retrieved successfully.", categories)
}

// ========== GET /v1/categories/:slug ==========
// Query: filter[<attribute>]=a,b  sort=-base_price  include  page  per_page
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	listing, err := h.service.GetCategory(c.Request.Context(), c.Param("slug"), listRequest(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Category details retrieved successfully.", gin.H{
		"category":    listing.Category,
		"products":    listing.Page.Products,
		"collections": listing.Collections,
		"facets":      listing.Facets,
		"meta":        pageMeta(&listing.Page),
	})
}

// ========== GET /v1/collections ==========
func (h *CatalogHandler) ListCollections(c *gin.Context) {
	collections, err := h.service.ListCollections(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Collections retrieved successfully.", collections)
}

// ========== GET /v1/collections/:slug ==========
func (h *CatalogHandler) GetCollection(c *gin.Context) {
	listing, err := h.service.GetCollection(c.Request.Context(), c.Param("slug"), listRequest(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Collection details retrieved successfully.", gin.H{
		"collection": listing.Collection,
		"products":   listing.Page.Products,
		"facets":     listing.Facets,
		"meta":       pageMeta(&listing.Page),
	})
}

// listRequest: host + path (không query) là phần URL của cache key
func listRequest(c *gin.Context) catalog.ListRequest {
	return catalog.ListRequest{
		URL:   c.Request.Host + c.Request.URL.Path,
		Query: c.Request.URL.Query(),
	}
}

func pageMeta(p *catalog.ProductPage) *response.Meta {
	return &response.Meta{
		CurrentPage: p.Page,
		LastPage:    p.LastPage(),
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
}
