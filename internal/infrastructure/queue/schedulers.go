package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront-backend/internal/config"
	cartModel "storefront-backend/internal/domains/cart/model"
	wishlistModel "storefront-backend/internal/domains/wishlist/model"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// periodicJob - một task định kỳ với cron lấy từ JobConfig
type periodicJob struct {
	name     string
	cron     string
	taskType string
	payload  interface{}
	opts     []asynq.Option
}

func (s *Scheduler) maintenanceJobs() []periodicJob {
	base := []asynq.Option{
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10 * time.Minute),
	}

	return []periodicJob{
		{
			// mặc định mỗi giờ; Unique tránh chồng lấn khi lần trước chưa xong
			name:     "MarkAbandonedCarts",
			cron:     s.jobConfig.MarkAbandonedCron,
			taskType: shared.TypeMarkAbandonedCarts,
			payload:  cartModel.MarkAbandonedPayload{BatchSize: s.jobConfig.BatchSize},
			opts:     append(append([]asynq.Option{}, base...), asynq.Unique(time.Hour)),
		},
		{
			// mặc định 03:00 UTC
			name:     "PurgeExpiredWishlists",
			cron:     s.jobConfig.PurgeWishlistsCron,
			taskType: shared.TypePurgeExpiredWishlists,
			payload:  wishlistModel.PurgeExpiredPayload{BatchSize: s.jobConfig.BatchSize},
			opts:     base,
		},
	}
}

// RegisterMaintenanceJobs đăng ký toàn bộ job bảo trì với scheduler
func (s *Scheduler) RegisterMaintenanceJobs() error {
	for _, job := range s.maintenanceJobs() {
		payload, err := json.Marshal(job.payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", job.name, err)
		}

		entryID, err := s.scheduler.Register(job.cron, asynq.NewTask(job.taskType, payload), job.opts...)
		if err != nil {
			logger.Error("Failed to register "+job.name+" job", err)
			return fmt.Errorf("register %s (%q): %w", job.name, job.cron, err)
		}

		logger.Info("Registered periodic job", map[string]interface{}{
			"job":      job.name,
			"cron":     job.cron,
			"entry_id": entryID,
		})
	}
	return nil
}

// Start non-blocking; Shutdown dừng scheduler
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
