package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/queue"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// Handler 健康檢查處理程序，store 與 queue 皆可為 nil
type Handler struct {
	cfg   *config.Config
	store cache.Store
	queue *queue.Manager
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, store cache.Store, q *queue.Manager) *Handler {
	return &Handler{cfg: cfg, store: store, queue: q}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.cfg != nil {
		response.Version = h.cfg.App.Version
	}
	if h.store != nil {
		response.Cache = h.store.Stats()
	}
	if h.queue != nil {
		status := h.queue.Status()
		response.Queue = &status
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// pinger 可檢查連線的快取後端
type pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck 就緒檢查：隊列未關閉且快取後端可連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.queue != nil && h.queue.Status().Closed {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "queue closed",
		})
		return
	}

	if p, ok := h.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			common.LogWarn("快取後端無法連線", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "cache unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
