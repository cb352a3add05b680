package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 一份待計算的食譜
type Job struct {
	ID          string
	Ingredients []string
	Servings    int
}

// Result 處理結果
type Result struct {
	ID        string
	Nutrition *nutrition.RecipeNutrition
	Error     error
}

// Handler 實際執行計算的函式
type Handler func(ctx context.Context, job Job) (*nutrition.RecipeNutrition, error)

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
	Closed         bool  `json:"closed"`
}

type request struct {
	ctx    context.Context
	job    Job
	result chan Result
}

// Manager 批次計算的 worker pool
type Manager struct {
	config    config.QueueConfig
	handler   Handler
	queue     chan *request
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	processed int64
	failed    int64
}

// NewManager 創建並啟動 worker
func NewManager(cfg config.QueueConfig, handler Handler) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}

	m := &Manager{
		config:  cfg,
		handler: handler,
		queue:   make(chan *request, cfg.MaxSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("計算佇列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for req := range m.queue {
		m.process(id, req)
	}
}

func (m *Manager) process(workerID int, req *request) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&m.failed, 1)
			common.LogError("計算工作發生 panic",
				zap.Int("worker", workerID),
				zap.String("job_id", req.job.ID),
				zap.Any("panic", r),
			)
			req.result <- Result{ID: req.job.ID, Error: common.ErrInternalError.WithError(fmt.Errorf("panic: %v", r))}
		}
	}()

	// 呼叫端已放棄的工作不再計算
	if err := req.ctx.Err(); err != nil {
		atomic.AddInt64(&m.failed, 1)
		req.result <- Result{ID: req.job.ID, Error: err}
		return
	}

	result, err := m.handler(req.ctx, req.job)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
	} else {
		atomic.AddInt64(&m.processed, 1)
	}
	req.result <- Result{ID: req.job.ID, Nutrition: result, Error: err}
}

// Enqueue 將工作加入隊列，回傳只會收到一次結果的 channel
// 隊列已滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &request{ctx: ctx, job: job, result: make(chan Result, 1)}
	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.String("job_id", job.ID),
			zap.Int("queue_length", len(m.queue)),
		)
		return req.result, nil
	default:
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, job Job) Result {
	ch, err := m.Enqueue(ctx, job)
	if err != nil {
		return Result{ID: job.ID, Error: err}
	}
	select {
	case res := <-ch:
		return res
	case <-ctx.Done():
		return Result{ID: job.ID, Error: ctx.Err()}
	}
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
		Closed:         m.closed,
	}
}

// Close 停止接收新工作，等待已排入的工作完成
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	common.LogInfo("計算佇列已關閉",
		zap.Int64("processed", atomic.LoadInt64(&m.processed)),
		zap.Int64("failed", atomic.LoadInt64(&m.failed)),
	)
}
