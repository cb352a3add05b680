package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/pkg/common"

	"go.uber.org/zap"
)

// NutritionService 食譜營養服務：驗證、快取與日誌
type NutritionService struct {
	calc           *nutrition.Calculator
	store          cache.Store
	maxIngredients int
}

// NewNutritionService 創建營養服務，store 可為 nil
func NewNutritionService(calc *nutrition.Calculator, store cache.Store, maxIngredients int) *NutritionService {
	if calc == nil {
		calc = nutrition.NewCalculator()
	}
	return &NutritionService{
		calc:           calc,
		store:          store,
		maxIngredients: maxIngredients,
	}
}

// Calculate 計算食譜營養，相同輸入優先讀取快取
func (s *NutritionService) Calculate(ctx context.Context, lines []string, servings int) (*nutrition.RecipeNutrition, error) {
	if s.maxIngredients > 0 && len(lines) > s.maxIngredients {
		return nil, common.ErrTooManyIngredients.WithError(
			fmt.Errorf("%d ingredients exceeds limit of %d", len(lines), s.maxIngredients))
	}

	key := s.getCacheKey(lines, servings)
	if cached, ok := s.getFromCache(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	result, err := s.calc.CalculateRecipeNutritionContext(ctx, lines, servings)
	if err != nil {
		return nil, err
	}

	common.LogDebug("營養計算完成",
		zap.Int("ingredients", len(result.Ingredients)),
		zap.Int("servings", servings),
		zap.Float64("calories", result.Total.Calories),
		zap.Duration("耗時", time.Since(start)),
	)

	s.setToCache(ctx, key, result)
	return result, nil
}

// Parse 解析單一食材行並換算營養
func (s *NutritionService) Parse(ctx context.Context, line string) (*ParseResult, error) {
	if strings.TrimSpace(line) == "" {
		return nil, common.NewValidationError("ingredient is required")
	}
	parsed := s.calc.ParseLineContext(ctx, line)
	return &parsed, nil
}

// Suggest 解析 AI 食譜建議並計算營養
// servings 大於 0 時覆蓋建議中的份數
func (s *NutritionService) Suggest(ctx context.Context, content string, servings int) (*SuggestionResult, error) {
	suggestion, err := ParseSuggestion(content)
	if err != nil {
		return nil, err
	}
	if servings > 0 {
		suggestion.Servings = servings
	}

	result, err := s.Calculate(ctx, suggestion.Ingredients, suggestion.Servings)
	if err != nil {
		return nil, err
	}
	return &SuggestionResult{Suggestion: suggestion, Nutrition: result}, nil
}

// getCacheKey 生成緩存鍵
func (s *NutritionService) getCacheKey(lines []string, servings int) string {
	parts := make([]string, 0, len(lines)+1)
	parts = append(parts, strconv.Itoa(servings))
	parts = append(parts, lines...)
	return common.HashKey(parts...)
}

// getFromCache 從緩存獲取數據，任何錯誤都視為未命中
func (s *NutritionService) getFromCache(ctx context.Context, key string) (*nutrition.RecipeNutrition, bool) {
	if s.store == nil {
		return nil, false
	}
	value, ok, err := s.store.Get(ctx, cache.NamespaceRecipe, key)
	if err != nil {
		common.LogWarn("讀取快取失敗", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result nutrition.RecipeNutrition
	if err := common.ParseJSON(value, &result); err != nil {
		common.LogWarn("快取內容無法解析", zap.Error(err))
		return nil, false
	}
	return &result, true
}

// setToCache 將數據存入緩存
func (s *NutritionService) setToCache(ctx context.Context, key string, result *nutrition.RecipeNutrition) {
	if s.store == nil {
		return
	}
	data, err := common.ToJSON(result)
	if err != nil {
		common.LogWarn("序列化營養結果失敗", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, cache.NamespaceRecipe, key, data); err != nil {
		common.LogWarn("寫入快取失敗", zap.Error(err))
	}
}
