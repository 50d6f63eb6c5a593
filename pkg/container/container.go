package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront-backend/internal/config"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/pkg/cache"

	addressHandler "storefront-backend/internal/domains/address/handler"
	addressRepo "storefront-backend/internal/domains/address/repository"
	addressService "storefront-backend/internal/domains/address/service"
	cartHandler "storefront-backend/internal/domains/cart/handler"
	cartRepo "storefront-backend/internal/domains/cart/repository"
	cartService "storefront-backend/internal/domains/cart/service"
	"storefront-backend/internal/domains/catalog"
	catalogHandler "storefront-backend/internal/domains/catalog/handler"
	catalogRepo "storefront-backend/internal/domains/catalog/repository"
	catalogService "storefront-backend/internal/domains/catalog/service"
	enquiryHandler "storefront-backend/internal/domains/enquiry/handler"
	enquiryRepo "storefront-backend/internal/domains/enquiry/repository"
	enquiryService "storefront-backend/internal/domains/enquiry/service"
	newsletterHandler "storefront-backend/internal/domains/newsletter/handler"
	newsletterRepo "storefront-backend/internal/domains/newsletter/repository"
	newsletterService "storefront-backend/internal/domains/newsletter/service"
	wishlistHandler "storefront-backend/internal/domains/wishlist/handler"
	wishlistRepo "storefront-backend/internal/domains/wishlist/repository"
	wishlistService "storefront-backend/internal/domains/wishlist/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Lifecycle: Singleton, build một lần trong main
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config  *config.Config
	DB      *database.PostgresDB
	Cache   cache.Cache
	Storage *storage.MinIOStorage // nil khi MINIO_ENABLED=false

	FilterRegistry *catalog.Registry

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CatalogRepo    catalog.Repository
	CartRepo       cartRepo.RepositoryInterface
	WishlistRepo   wishlistRepo.RepositoryInterface
	NewsletterRepo newsletterRepo.RepositoryInterface
	EnquiryRepo    enquiryRepo.RepositoryInterface
	AddressRepo    addressRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	CatalogService    catalog.Service
	CartService       cartService.ServiceInterface
	WishlistService   wishlistService.ServiceInterface
	NewsletterService newsletterService.ServiceInterface
	EnquiryService    enquiryService.ServiceInterface
	AddressService    addressService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	CatalogHandler    *catalogHandler.CatalogHandler
	CartHandler       *cartHandler.Handler
	WishlistHandler   *wishlistHandler.Handler
	NewsletterHandler *newsletterHandler.NewsletterHandler
	EnquiryHandler    *enquiryHandler.EnquiryHandler
	AddressHandler    *addressHandler.AddressHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Cache, Storage, filter registry)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Type assertion để gọi Connect method (không có trong interface)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			// Redis failure không critical: Remember fallback về DB
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: OBJECT STORAGE + FILTER REGISTRY
	// ========================================
	if cfg.MinIO.Enabled {
		log.Println("🪣 Connecting to MinIO...")
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			// Không có MinIO → trả object key nguyên bản
			log.Printf("⚠️  MinIO unavailable (non-critical): %v", err)
		} else {
			c.Storage = st
			log.Println("✅ MinIO connected")
		}
	}

	c.FilterRegistry = catalog.DefaultRegistry()
	if err := c.FilterRegistry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter registry: %w", err)
	}

	// ========================================
	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.WishlistRepo = wishlistRepo.NewPostgresRepository(pool)
	c.NewsletterRepo = newsletterRepo.NewPostgresRepository(pool)
	c.EnquiryRepo = enquiryRepo.NewPostgresRepository(pool)
	c.AddressRepo = addressRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	ttl := c.Config.Cache

	// Interface chứa typed nil *MinIOStorage sẽ khác nil
	var media catalog.MediaResolver
	if c.Storage != nil {
		media = c.Storage
	}

	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo, c.FilterRegistry, c.Cache, media, ttl.ListingTTL)
	c.CartService = cartService.NewCartService(c.CartRepo, c.Cache, ttl.CartTTL)
	c.WishlistService = wishlistService.NewWishlistService(c.WishlistRepo, c.Cache, ttl.CartTTL)
	c.NewsletterService = newsletterService.NewNewsletterService(c.NewsletterRepo)
	c.EnquiryService = enquiryService.NewEnquiryService(c.EnquiryRepo)
	c.AddressService = addressService.NewAddressService(c.AddressRepo)
}

func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.CartHandler = cartHandler.NewHandler(c.CartService)
	c.WishlistHandler = wishlistHandler.NewHandler(c.WishlistService)
	c.NewsletterHandler = newsletterHandler.NewNewsletterHandler(c.NewsletterService)
	c.EnquiryHandler = enquiryHandler.NewEnquiryHandler(c.EnquiryService)
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
