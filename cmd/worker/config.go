package main

import (
	"log"

	"storefront-backend/internal/config"

	"github.com/hibiken/asynq"
)

// redisOpt build asynq Redis options từ cùng REDIS_* env với API
func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	log.Printf("[Config] Redis: %s (db=%d), batch size: %d",
		opt.Addr, opt.DB, cfg.Job.BatchSize)

	return opt
}
