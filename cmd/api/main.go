package main

import (
	"log"
	"os"

	"storefront-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env chỉ dùng cho local; production lấy từ environment của container
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️  .env not loaded (%v), reading process environment", err)
	}

	env := os.Getenv("APP_ENV")
	switch env {
	case "production", "staging":
		gin.SetMode(gin.ReleaseMode)
	case "":
		env = "development"
	}
	logger.Init(env)

	Serve()
}
