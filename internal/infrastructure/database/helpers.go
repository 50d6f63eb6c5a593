package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Close đóng tất cả connections trong pool
// Safe to call multiple times
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Println("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Println("[DATABASE] Connection pool closed successfully")

	return nil
}

// PoolStats là snapshot thống kê pool cho health endpoint
type PoolStats struct {
	TotalConns           int32         `json:"total_connections"`
	IdleConns            int32         `json:"idle_connections"`
	AcquiredConns        int32         `json:"acquired_connections"`
	MaxConns             int32         `json:"max_connections"`
	AcquireCount         int64         `json:"acquire_count"`
	EmptyAcquireCount    int64         `json:"empty_acquire_count"`
	CanceledAcquireCount int64         `json:"canceled_acquire_count"`
	AvgAcquireDuration   time.Duration `json:"avg_acquire_duration"`
}

// Stats trả về snapshot của connection pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:           raw.TotalConns(),
		IdleConns:            raw.IdleConns(),
		AcquiredConns:        raw.AcquiredConns(),
		MaxConns:             raw.MaxConns(),
		AcquireCount:         raw.AcquireCount(),
		EmptyAcquireCount:    raw.EmptyAcquireCount(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		AvgAcquireDuration:   calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}, nil
}

func calculateAvgDuration(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

// MonitorPoolHealth log cảnh báo khi pool gần cạn connection
// Chạy trong goroutine riêng, dừng khi ctx bị cancel
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[DATABASE] Pool monitor stopped")
			return
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Printf("[DATABASE] Pool monitor: %v", err)
				continue
			}

			// >80% connections đang bận
			if stats.MaxConns > 0 && float64(stats.AcquiredConns)/float64(stats.MaxConns) > 0.8 {
				log.Printf("[DATABASE] ⚠️  High pool utilization: %d/%d acquired",
					stats.AcquiredConns, stats.MaxConns)
			}
			if stats.EmptyAcquireCount > 0 && stats.AvgAcquireDuration > 100*time.Millisecond {
				log.Printf("[DATABASE] ⚠️  Slow acquires: avg %v", stats.AvgAcquireDuration)
			}
		}
	}
}
