package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"recipe-nutrition/internal/pkg/common"
)

// 寬鬆版中繼結構：份數與食材格式不固定
type looseSuggestion struct {
	DishName    string            `json:"dish_name"`
	Servings    json.RawMessage   `json:"servings"`
	Ingredients []json.RawMessage `json:"ingredients"`
}

// ParseSuggestion 從 AI 回覆中取出食譜
// 允許 JSON 前後夾雜說明文字、鍵未加引號，食材可為字串或 {name, amount, unit}
func ParseSuggestion(content string) (*Suggestion, error) {
	var ls looseSuggestion
	if err := common.ParseLooseJSON(content, &ls); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid suggestion: %v", err))
	}

	result := &Suggestion{
		DishName: strings.TrimSpace(ls.DishName),
		Servings: parseServings(ls.Servings),
	}
	if result.DishName == "" {
		result.DishName = "未知菜名"
	}

	for _, raw := range ls.Ingredients {
		if line := ingredientLine(raw); line != "" {
			result.Ingredients = append(result.Ingredients, line)
		}
	}
	if len(result.Ingredients) == 0 {
		return nil, common.NewValidationError("suggestion has no ingredients")
	}

	return result, nil
}

// ingredientLine 將單一食材轉為 "數量 單位 名稱"
func ingredientLine(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var ing common.SuggestedIngredient
	if err := json.Unmarshal(raw, &ing); err != nil {
		return ""
	}
	name := strings.TrimSpace(ing.Name)
	if name == "" {
		return ""
	}
	parts := make([]string, 0, 3)
	if amount := strings.TrimSpace(ing.Amount); amount != "" {
		parts = append(parts, amount)
	}
	if unit := strings.TrimSpace(ing.Unit); unit != "" && len(parts) > 0 {
		parts = append(parts, unit)
	}
	parts = append(parts, name)
	return strings.Join(parts, " ")
}

// parseServings 接受數字或 "4 servings" 之類的字串，無法解析時為 1
func parseServings(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n >= 1 {
			return int(n)
		}
		return 1
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 1
	}
	digits := strings.TrimSpace(s)
	if i := strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) }); i >= 0 {
		digits = digits[:i]
	}
	if v, err := strconv.Atoi(digits); err == nil && v >= 1 {
		return v
	}
	return 1
}
