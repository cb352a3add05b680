package recipe

import (
	"recipe-nutrition/internal/core/nutrition"
)

// Suggestion 從 AI 回覆中取出的食譜
type Suggestion struct {
	DishName    string   `json:"dish_name"`
	Servings    int      `json:"servings"`
	Ingredients []string `json:"ingredients"`
}

// SuggestionResult 食譜建議與其營養計算結果
type SuggestionResult struct {
	Suggestion *Suggestion                `json:"suggestion"`
	Nutrition  *nutrition.RecipeNutrition `json:"nutrition"`
}

// ParseResult 單一食材解析結果
type ParseResult = nutrition.ParsedIngredient
