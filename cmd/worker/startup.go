package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"storefront-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const healthAddr = ":9999"

// dependencyCheck - một dependency worker cần để xử lý job
type dependencyCheck struct {
	name  string
	check func(ctx context.Context) error
}

// startServices kiểm tra dependency một lần lúc boot rồi mở health server.
// /ready chạy lại cùng bộ check mỗi request.
func startServices(opt asynq.RedisClientOpt, c *container.Container) error {
	log.Println("============================================")
	log.Println("🧹 Storefront Worker booting")
	log.Println("============================================")

	rdb := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	checks := []dependencyCheck{
		{"redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		{"postgres", c.DB.HealthCheck},
	}

	for _, chk := range checks {
		if err := runCheck(context.Background(), chk); err != nil {
			rdb.Close()
			return err
		}
		log.Printf("✅ %s reachable", chk.name)
	}

	go serveHealth(checks)
	return nil
}

func runCheck(parent context.Context, chk dependencyCheck) error {
	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()

	if err := chk.check(ctx); err != nil {
		return fmt.Errorf("%s unreachable: %w", chk.name, err)
	}
	return nil
}

// serveHealth - liveness /health, readiness /ready cho orchestrator
func serveHealth(checks []dependencyCheck) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "storefront-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		status := gin.H{}
		code := http.StatusOK
		for _, chk := range checks {
			if err := runCheck(c.Request.Context(), chk); err != nil {
				status[chk.name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status[chk.name] = "ok"
		}
		c.JSON(code, gin.H{"ready": code == http.StatusOK, "checks": status})
	})

	log.Printf("[Health] listening on %s", healthAddr)
	if err := http.ListenAndServe(healthAddr, r); err != nil {
		log.Printf("[Health] stopped: %v", err)
	}
}
