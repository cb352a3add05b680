package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/core/queue"
	recipeService "recipe-nutrition/internal/core/recipe"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, withQueue bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := recipeService.NewNutritionService(nutrition.NewCalculator(), nil, 5)
	var q *queue.Manager
	if withQueue {
		q = queue.NewManager(config.QueueConfig{Workers: 2, MaxSize: 1}, func(ctx context.Context, job queue.Job) (*nutrition.RecipeNutrition, error) {
			return svc.Calculate(ctx, job.Ingredients, job.Servings)
		})
		t.Cleanup(q.Close)
	}

	h := NewHandler(svc, q, true)
	r := gin.New()
	r.POST("/calculate", h.HandleCalculate)
	r.POST("/parse", h.HandleParse)
	r.POST("/batch", h.HandleBatch)
	r.POST("/suggestion", h.HandleSuggestion)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleCalculate(t *testing.T) {
	r := newTestEngine(t, false)

	w := postJSON(t, r, "/calculate", common.CalculateRequest{
		Ingredients: []string{"1 cup rice", "2 chicken breast"},
		Servings:    2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got nutrition.RecipeNutrition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Servings)
	assert.Len(t, got.Ingredients, 2)
	assert.Equal(t, 70, got.HealthScore)
	assert.Equal(t, 20, got.GlycemicLoad)
	assert.Empty(t, got.Allergens)
}

func TestHandleCalculateErrors(t *testing.T) {
	r := newTestEngine(t, false)

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"malformed json", `{"ingredients": [`, common.ErrCodeInvalidRequest},
		{"unknown field", `{"ingredients": ["1 egg"], "servings": 1, "serving": 2}`, common.ErrCodeInvalidRequest},
		{"trailing data", `{"ingredients": ["1 egg"], "servings": 1} {}`, common.ErrCodeInvalidRequest},
		{"missing ingredients", `{"servings": 1}`, common.ErrCodeInvalidRequest},
		{"zero servings", common.CalculateRequest{Ingredients: []string{"1 egg"}, Servings: 0}, common.ErrCodeInvalidRequest},
		{"blank ingredients", common.CalculateRequest{Ingredients: []string{" ", ""}, Servings: 1}, common.ErrCodeInvalidRequest},
		{"too many", common.CalculateRequest{Ingredients: []string{"a", "b", "c", "d", "e", "f"}, Servings: 1}, common.ErrTooManyIngredients.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestHandleParse(t *testing.T) {
	r := newTestEngine(t, false)

	w := postJSON(t, r, "/parse", common.ParseRequest{Ingredient: "2 cups flour"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got nutrition.ParsedIngredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "flour", got.Name)
	assert.Equal(t, 240.0, got.Grams)

	w = postJSON(t, r, "/parse", common.ParseRequest{Ingredient: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleBatch(t *testing.T) {
	for _, withQueue := range []bool{false, true} {
		r := newTestEngine(t, withQueue)

		w := postJSON(t, r, "/batch", common.BatchRequest{Recipes: []common.BatchRecipe{
			{ID: "a", Ingredients: []string{"1 cup rice"}, Servings: 1},
			{ID: "b", Ingredients: []string{"1 cup rice"}, Servings: 0},
			{Ingredients: []string{"2 eggs"}, Servings: 1},
			{ID: "d", Ingredients: []string{"100g butter"}, Servings: 2},
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Results []struct {
				ID     string                     `json:"id"`
				Result *nutrition.RecipeNutrition `json:"result"`
				Error  *common.ErrorResponse      `json:"error"`
			} `json:"results"`
			Succeeded int `json:"succeeded"`
			Failed    int `json:"failed"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 4)
		assert.Equal(t, 3, resp.Succeeded)
		assert.Equal(t, 1, resp.Failed)

		assert.Equal(t, "a", resp.Results[0].ID)
		assert.NotNil(t, resp.Results[0].Result)
		assert.Equal(t, "b", resp.Results[1].ID)
		require.NotNil(t, resp.Results[1].Error)
		assert.Equal(t, common.ErrCodeInvalidRequest, resp.Results[1].Error.Code)
		assert.NotEmpty(t, resp.Results[2].ID, "missing ids are generated")
		assert.Contains(t, resp.Results[2].Result.Allergens, "Eggs")
		assert.Equal(t, "d", resp.Results[3].ID)
	}
}

func TestHandleBatchEmpty(t *testing.T) {
	r := newTestEngine(t, true)
	w := postJSON(t, r, "/batch", common.BatchRequest{Recipes: []common.BatchRecipe{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSuggestion(t *testing.T) {
	r := newTestEngine(t, false)

	content := "Here you go!\n```json\n{\"dish_name\": \"Rice bowl\", \"servings\": 2, \"ingredients\": [\"1 cup rice\", {\"name\": \"chicken breast\", \"amount\": \"2\", \"unit\": \"\"}]}\n```"
	w := postJSON(t, r, "/suggestion", common.SuggestionRequest{Content: content})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got recipeService.SuggestionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Rice bowl", got.Suggestion.DishName)
	assert.Equal(t, 2, got.Nutrition.Servings)
	assert.Equal(t, 70, got.Nutrition.HealthScore)

	w = postJSON(t, r, "/suggestion", common.SuggestionRequest{Content: "no recipe here"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
