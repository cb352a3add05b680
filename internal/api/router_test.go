package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/core/queue"
	recipeService "recipe-nutrition/internal/core/recipe"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RouterTestSuite struct {
	suite.Suite
	cfg    *config.Config
	store  *cache.CacheManager
	queue  *queue.Manager
	router *Router
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		App:          config.AppConfig{Debug: true, Version: "test"},
		Nutrition:    config.NutritionConfig{MaxIngredients: 50},
		Queue:        config.QueueConfig{Workers: 2, MaxSize: 4},
		RateLimit:    config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
		DedupWindow:  time.Second,
		MaxBodyBytes: 1 << 20,
	}
	s.store = cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 100, TTL: time.Hour})
	svc := recipeService.NewNutritionService(nutrition.NewCalculator(), s.store, s.cfg.Nutrition.MaxIngredients)
	s.queue = queue.NewManager(s.cfg.Queue, NewQueueHandler(svc))

	r, err := SetupRouter(s.cfg, Dependencies{Service: svc, Store: s.store, Queue: s.queue})
	s.Require().NoError(err)
	s.router = r
}

func (s *RouterTestSuite) TearDownTest() {
	s.router.Close()
	s.queue.Close()
	_ = s.store.Close()
}

func (s *RouterTestSuite) post(path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *RouterTestSuite) TestCalculateRoute() {
	w := s.post("/api/v1/nutrition/calculate", common.CalculateRequest{
		Ingredients: []string{"1 cup rice", "2 chicken breast"},
		Servings:    2,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.NotEmpty(w.Header().Get("X-Request-ID"))

	var got nutrition.RecipeNutrition
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(nutrition.MacroPercentages{Protein: 49, Carbs: 38, Fat: 13}, got.Macros)

	// 相同內容在去重時間窗內重送
	w = s.post("/api/v1/nutrition/calculate", common.CalculateRequest{
		Ingredients: []string{"1 cup rice", "2 chicken breast"},
		Servings:    2,
	})
	s.Equal(http.StatusTooManyRequests, w.Code)
}

func (s *RouterTestSuite) TestBatchRouteUsesQueue() {
	recipes := make([]common.BatchRecipe, 10)
	for i := range recipes {
		recipes[i] = common.BatchRecipe{Ingredients: []string{"1 cup rice"}, Servings: i + 1}
	}
	w := s.post("/api/v1/nutrition/batch", common.BatchRequest{Recipes: recipes})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp common.BatchResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(10, resp.Succeeded, "more recipes than queue slots still complete")
	s.Equal(0, resp.Failed)
	s.Equal(int64(10), s.queue.Status().ProcessedCount)
}

func (s *RouterTestSuite) TestHealthRoutes() {
	s.post("/api/v1/nutrition/calculate", common.CalculateRequest{Ingredients: []string{"1 apple"}, Servings: 1})

	w := s.get("/health")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("test", resp["version"])
	s.Contains(resp, "cache")
	s.Contains(resp, "queue")

	s.Equal(http.StatusOK, s.get("/ready").Code)
	s.Equal(http.StatusOK, s.get("/live").Code)
}

func (s *RouterTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp common.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Code
}

func (s *RouterTestSuite) TestUnknownRoute() {
	w := s.get("/api/v1/recipe/generate")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(common.ErrCodeNotFound, s.errorCode(w))
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *RouterTestSuite) TestWrongMethod() {
	w := s.get("/api/v1/nutrition/calculate")
	s.Equal(http.StatusMethodNotAllowed, w.Code)
	s.Equal(common.ErrCodeMethodNotAllowed, s.errorCode(w))
	s.Contains(w.Header().Get("Allow"), http.MethodPost)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestSetupRouterRequiresService(t *testing.T) {
	_, err := SetupRouter(&config.Config{}, Dependencies{})
	require.Error(t, err)

	_, err = SetupRouter(nil, Dependencies{})
	assert.Error(t, err)
}
