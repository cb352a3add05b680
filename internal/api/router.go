package api

import (
	"context"
	"errors"
	"time"

	"recipe-nutrition/internal/api/handlers/health"
	nutritionHandler "recipe-nutrition/internal/api/handlers/nutrition"
	"recipe-nutrition/internal/api/middleware"
	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/core/queue"
	recipeService "recipe-nutrition/internal/core/recipe"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 單一請求超時
const timeoutDuration = 30 * time.Second

// Dependencies 路由所需的服務，Store 與 Queue 可為 nil
type Dependencies struct {
	Service *recipeService.NutritionService
	Store   cache.Store
	Queue   *queue.Manager
}

// Router 包含 gin 引擎與需要在關閉時釋放的中間件資源
type Router struct {
	*gin.Engine
	limiter *middleware.RateLimiter
	dedup   *middleware.Deduplicator
}

// Close 釋放中間件背景資源
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
	if r.dedup != nil {
		r.dedup.Close()
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Service == nil {
		return nil, errors.New("nutrition service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	r := &Router{Engine: engine}

	engine.Use(middleware.Recovery())
	engine.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	engine.Use(middleware.Logger())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodySizeLimit(cfg.MaxBodyBytes))
	engine.Use(timeout(timeoutDuration))

	healthHandler := health.NewHandler(cfg, deps.Store, deps.Queue)
	engine.GET("/health", healthHandler.HealthCheck)
	engine.GET("/ready", healthHandler.ReadinessCheck)
	engine.GET("/live", healthHandler.LivenessCheck)

	api := engine.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		r.limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		api.Use(r.limiter.Handler())
	}
	if cfg.DedupWindow > 0 {
		r.dedup = middleware.NewDeduplicator(cfg.DedupWindow)
		api.Use(r.dedup.Handler())
	}

	h := nutritionHandler.NewHandler(deps.Service, deps.Queue, cfg.App.Debug)
	nutritionGroup := api.Group("/nutrition")
	{
		nutritionGroup.POST("/calculate", h.HandleCalculate)
		nutritionGroup.POST("/parse", h.HandleParse)
		nutritionGroup.POST("/batch", h.HandleBatch)
		nutritionGroup.POST("/suggestion", h.HandleSuggestion)
	}

	engine.NoRoute(func(c *gin.Context) {
		status, resp := common.ToErrorResponse(common.ErrNotFound, false)
		c.AbortWithStatusJSON(status, resp)
	})
	engine.NoMethod(func(c *gin.Context) {
		status, resp := common.ToErrorResponse(common.ErrMethodNotAllowed, false)
		c.AbortWithStatusJSON(status, resp)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", deps.Store != nil),
		zap.Bool("queue_enabled", deps.Queue != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.MaxBodyBytes),
	)

	return r, nil
}

// timeout 為每個請求設定 context 期限
func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", d),
			)
			status, resp := common.ToErrorResponse(common.ErrGatewayTimeout, false)
			c.AbortWithStatusJSON(status, resp)
		}
	}
}

// NewQueueHandler 讓 worker 透過營養服務計算（共用快取）
func NewQueueHandler(svc *recipeService.NutritionService) queue.Handler {
	return func(ctx context.Context, job queue.Job) (*nutrition.RecipeNutrition, error) {
		return svc.Calculate(ctx, job.Ingredients, job.Servings)
	}
}
