package main

import (
	"fmt"
	"log"

	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/pkg/container"

	"github.com/hibiken/asynq"
)

// runtime gom asynq server (consume) và scheduler (enqueue theo cron)
type runtime struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *queue.Scheduler
}

func newRuntime(opt asynq.RedisClientOpt, c *container.Container, handlers *HandlerRegistry) *runtime {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	return &runtime{
		server:    newAsynqServer(opt),
		mux:       mux,
		scheduler: queue.NewScheduler(opt, c.Config.Job),
	}
}

func (r *runtime) Start() error {
	if err := r.scheduler.RegisterMaintenanceJobs(); err != nil {
		return fmt.Errorf("register maintenance jobs: %w", err)
	}

	// Start() của cả hai đều non-blocking
	if err := r.server.Start(r.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	log.Println("✅ [Worker] consuming queues")

	if err := r.scheduler.Start(); err != nil {
		r.server.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	log.Println("✅ [Scheduler] running")
	return nil
}

// Stop: dừng scheduler trước để không enqueue thêm, rồi chờ task đang chạy
func (r *runtime) Stop() {
	r.scheduler.Shutdown()
	r.server.Shutdown()
}
