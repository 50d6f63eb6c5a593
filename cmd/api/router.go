package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := newEngine(c.Config.App.CORSOrigins)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCatalogRoutes(v1, c)
		setupCartRoutes(v1, c)
		setupWishlistRoutes(v1, c)
		setupNewsletterRoutes(v1, c)
		setupEnquiryRoutes(v1, c)
		setupAddressRoutes(v1, c)
	}

	return router
}

// newEngine: global middlewares + 404/405 theo response envelope
func newEngine(corsOrigins string) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(corsOrigins),
	)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found.")
	})
	router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c, fmt.Sprintf("The %s method is not allowed for this endpoint.", c.Request.Method))
	})

	return router
}

// ========================================
// CATALOG ROUTES (public)
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.CatalogHandler

	v1.GET("/products", h.ListProducts)
	v1.GET("/products/:slug", h.GetProduct)
	v1.GET("/categories", h.ListCategories)
	v1.GET("/categories/:slug", h.GetCategory)
	v1.GET("/collections", h.ListCollections)
	v1.GET("/collections/:slug", h.GetCollection)
}

// ========================================
// CART ROUTES (guest hoặc user)
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.DELETE("/items/:variant_id", c.CartHandler.RemoveItem)
	}
}

// ========================================
// WISHLIST ROUTES (guest hoặc user)
// ========================================
func setupWishlistRoutes(v1 *gin.RouterGroup, c *container.Container) {
	wishlist := v1.Group("/wishlist")
	wishlist.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		wishlist.GET("", c.WishlistHandler.GetWishlist)
		wishlist.POST("/items", c.WishlistHandler.AddItem)
		wishlist.DELETE("/items/:variant_id", c.WishlistHandler.RemoveItem)
	}
}

// ========================================
// NEWSLETTER ROUTES
// ========================================
func setupNewsletterRoutes(v1 *gin.RouterGroup, c *container.Container) {
	newsletter := v1.Group("/newsletter")
	{
		newsletter.POST("/subscribe", c.NewsletterHandler.Subscribe)
		newsletter.GET("/unsubscribe/:token", c.NewsletterHandler.Unsubscribe)
	}
}

// ========================================
// ENQUIRY ROUTES
// ========================================
func setupEnquiryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/enquiries", c.EnquiryHandler.Create)
}

// ========================================
// ADDRESS ROUTES (bắt buộc đăng nhập)
// ========================================
func setupAddressRoutes(v1 *gin.RouterGroup, c *container.Container) {
	addresses := v1.Group("/me/addresses")
	addresses.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		addresses.GET("", c.AddressHandler.ListAddresses)
		addresses.POST("", c.AddressHandler.CreateAddress)
		addresses.GET("/:id", c.AddressHandler.GetAddress)
		addresses.PUT("/:id", c.AddressHandler.UpdateAddress)
		addresses.PUT("/:id/default", c.AddressHandler.SetDefaultAddress)
		addresses.DELETE("/:id", c.AddressHandler.DeleteAddress)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		// Redis lỗi không làm degraded: cache chỉ là tối ưu
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(c.Request.Context()); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		storageStatus := "disabled"
		if appCtx.Storage != nil {
			storageStatus = "ok"
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.Storage.Ping(ctx); err != nil {
				storageStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
		}

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
