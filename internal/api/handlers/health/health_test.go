package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/core/queue"
	"recipe-nutrition/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downStore struct {
	cache.Store
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheckReportsCacheAndQueue(t *testing.T) {
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	q := queue.NewManager(config.QueueConfig{Workers: 3, MaxSize: 7}, func(context.Context, queue.Job) (*nutrition.RecipeNutrition, error) {
		return &nutrition.RecipeNutrition{}, nil
	})
	defer q.Close()

	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3"}}
	w := serve(NewHandler(cfg, store, q), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Contains(t, resp.Cache, "hits")
	require.NotNil(t, resp.Queue)
	assert.Equal(t, 3, resp.Queue.Workers)
	assert.Equal(t, 7, resp.Queue.MaxQueueSize)
}

func TestHealthCheckWithoutOptionalDependencies(t *testing.T) {
	w := serve(NewHandler(nil, nil, nil), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Queue)
	assert.Nil(t, resp.Cache)
}

func TestReadinessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(NewHandler(nil, nil, nil), "/ready").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(NewHandler(nil, downStore{}, nil), "/ready").Code)

	q := queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, nil)
	q.Close()
	assert.Equal(t, http.StatusServiceUnavailable, serve(NewHandler(nil, nil, q), "/ready").Code)
}

func TestLivenessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(NewHandler(nil, nil, nil), "/live").Code)
}
