package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipe-nutrition/internal/pkg/common"
)

// RateLimiter 依 client IP 區分的 token bucket 限流器
// 閒置超過 window 的 client 會被背景清理移除
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 每個 client 在 window 內最多 requests 次請求
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		// 閒置 window 後 bucket 已補滿，移除不影響限流結果
		idle: window,
		stop: make(chan struct{}),
		now:  time.Now,
	}
	go rl.cleanupLoop(window)
	return rl
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := rl.cleanup(); removed > 0 {
				common.LogDebug("清理閒置限流器", zap.Int("removed", removed))
			}
		case <-rl.stop:
			return
		}
	}
}

// cleanup 移除閒置超過 idle 的 client
func (rl *RateLimiter) cleanup() int {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for k, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) >= rl.idle {
			delete(rl.limiters, k)
			removed++
		}
	}
	return removed
}

// Close 停止背景清理
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Len 目前追蹤的 client 數量
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Handler 限流中間件
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	// 補回一個 token 所需秒數
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(rl.limit))))

	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		common.LogInfo("Rate limit exceeded",
			zap.String("ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
		)
		c.Header("Retry-After", retryAfter)
		status, resp := common.ToErrorResponse(common.ErrTooManyRequests, false)
		c.AbortWithStatusJSON(status, resp)
	}
}
