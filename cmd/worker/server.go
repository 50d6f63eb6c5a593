package main

import (
	"context"
	"fmt"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// newAsynqServer - queue maintenance ưu tiên thấp hơn default
func newAsynqServer(opt asynq.RedisClientOpt) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Queues: map[string]int{
			shared.QueueDefault:     10,
			shared.QueueMaintenance: 5,
		},
		Concurrency: 4,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error(fmt.Sprintf("task %s failed", task.Type()), err)
		}),
	})
}
