package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"cocktail-finder/internal/infrastructure/config"
	"cocktail-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列管理器已關閉
var ErrClosed = errors.New("queue manager is closed")

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	InFlight       int   `json:"in_flight"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 限制同時進行的模型請求數；超出 Workers 的請求排隊等待，
// 排隊數達到 MaxSize 時直接拒絕
type Manager struct {
	slots     chan struct{}
	done      chan struct{}
	maxSize   int
	workers   int
	waiting   int64
	processed int64
	rejected  int64
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		slots:   make(chan struct{}, workers),
		done:    make(chan struct{}),
		maxSize: cfg.MaxSize,
		workers: workers,
	}
}

// Acquire 取得執行名額；呼叫端必須在完成後呼叫 Release
func (m *Manager) Acquire(ctx context.Context) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}

	// 有空位時不需排隊
	select {
	case m.slots <- struct{}{}:
		return nil
	default:
	}

	if atomic.AddInt64(&m.waiting, 1) > int64(m.maxSize) {
		atomic.AddInt64(&m.waiting, -1)
		atomic.AddInt64(&m.rejected, 1)
		common.LogWarn("model request queue is full",
			zap.Int("max_queue_size", m.maxSize),
			zap.Int("workers", m.workers),
		)
		return common.ErrQueueFull
	}
	defer atomic.AddInt64(&m.waiting, -1)

	select {
	case m.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrClosed
	}
}

// Release 釋放執行名額
func (m *Manager) Release() {
	select {
	case <-m.slots:
	default:
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    int(atomic.LoadInt64(&m.waiting)),
		InFlight:       len(m.slots),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		RejectedCount:  atomic.LoadInt64(&m.rejected),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// IncrementProcessed 增加處理計數
func (m *Manager) IncrementProcessed() {
	atomic.AddInt64(&m.processed, 1)
}

// Close 關閉隊列管理器，喚醒所有等待中的請求
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}
