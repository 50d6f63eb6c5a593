package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
// Database config được load riêng qua LoadDatabaseConfig
type Config struct {
	App   AppConfig
	Redis RedisConfig
	JWT   JWTConfig
	Cache CacheConfig
	MinIO MinIOConfig
	Job   JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins string // comma separated, "*" cho dev
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// JWTConfig - service chỉ verify token, không phát hành
type JWTConfig struct {
	Secret string
}

// CacheConfig - TTL cho các read path được memoize
type CacheConfig struct {
	CartTTL    time.Duration // cart + wishlist
	ListingTTL time.Duration // products / categories / collections
}

type MinIOConfig struct {
	Enabled       bool
	Endpoint      string // localhost:9000
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration // 0 = trả public URL
}

// =====================================================
// JOB CONFIGURATION
// =====================================================

type JobConfig struct {
	MarkAbandonedCron  string
	PurgeWishlistsCron string
	BatchSize          int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Cache: CacheConfig{
			CartTTL:    getEnvDuration("CACHE_CART_TTL", 24*time.Hour),
			ListingTTL: getEnvDuration("CACHE_LISTING_TTL", 60*time.Minute),
		},
		MinIO: MinIOConfig{
			Enabled:       getEnvBool("MINIO_ENABLED", false),
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "storefront"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 0),
		},
		Job: JobConfig{
			MarkAbandonedCron:  getEnv("JOB_MARK_ABANDONED_CRON", "@every 1h"),
			PurgeWishlistsCron: getEnv("JOB_PURGE_WISHLISTS_CRON", "0 3 * * *"),
			BatchSize:          getEnvInt("JOB_BATCH_SIZE", 500),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Cache.CartTTL <= 0 || c.Cache.ListingTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Job.BatchSize <= 0 {
		return fmt.Errorf("JOB_BATCH_SIZE must be positive")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if getEnv("DB_PASSWORD", "") == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.App.CORSOrigins == "*" {
			log.Println("WARNING: CORS_ORIGINS is * in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
