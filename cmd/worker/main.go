package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront-backend/pkg/container"
	"storefront-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️  .env not loaded (%v), reading process environment", err)
	}
	logger.Init(os.Getenv("APP_ENV"))

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Container init failed: %v", err)
	}
	defer c.Cleanup()

	opt := redisOpt(c.Config)

	if err := startServices(opt, c); err != nil {
		log.Fatalf("❌ Dependency check failed: %v", err)
	}

	rt := newRuntime(opt, c, initializeHandlers(c))
	if err := rt.Start(); err != nil {
		log.Fatalf("❌ Worker start failed: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig

	log.Printf("🛑 Received %s, stopping worker...", s)
	rt.Stop()
	log.Println("👋 Worker stopped")
}
