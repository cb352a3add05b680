package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-nutrition/internal/api"
	"recipe-nutrition/internal/core/ai"
	"recipe-nutrition/internal/core/ai/openrouter"
	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/core/queue"
	recipeService "recipe-nutrition/internal/core/recipe"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("match_strategy", cfg.Nutrition.MatchStrategy),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("ai_categorizer", cfg.OpenRouter.Enabled),
	)

	// 初始化快取，停用時為 nil
	store, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	calc, err := buildCalculator(cfg, store)
	if err != nil {
		common.LogFatal("Failed to initialize calculator", zap.Error(err))
	}

	svc := recipeService.NewNutritionService(calc, store, cfg.Nutrition.MaxIngredients)
	q := queue.NewManager(cfg.Queue, api.NewQueueHandler(svc))

	router, err := api.SetupRouter(cfg, api.Dependencies{Service: svc, Store: store, Queue: q})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}
	defer router.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}
	// 等待批次工作結束
	q.Close()

	common.LogInfo("Server exited")
}

// buildCalculator 依設定載入參考資料、比對規則與分類器
func buildCalculator(cfg *config.Config, store cache.Store) (*nutrition.Calculator, error) {
	strategy, err := nutrition.ParseMatchStrategy(cfg.Nutrition.MatchStrategy)
	if err != nil {
		return nil, err
	}

	tables := nutrition.DefaultTables()
	if cfg.Nutrition.TablesPath != "" {
		tables, err = nutrition.LoadTables(cfg.Nutrition.TablesPath)
		if err != nil {
			return nil, err
		}
		common.LogInfo("已載入自訂參考資料",
			zap.String("path", cfg.Nutrition.TablesPath),
			zap.Int("foods", len(tables.Foods)),
		)
	}

	var categorizer nutrition.Categorizer = nutrition.NewKeywordCategorizer()
	if cfg.OpenRouter.Enabled {
		client := openrouter.NewClient(cfg.OpenRouter)
		categorizer = ai.NewCategorizer(client, store, categorizer, cfg.OpenRouter.Timeout)
	}

	return nutrition.NewCalculator(
		nutrition.WithTables(tables),
		nutrition.WithMatchStrategy(strategy),
		nutrition.WithCategorizer(categorizer),
	), nil
}
