package common

// CalculateRequest 計算食譜營養的請求
type CalculateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
	Servings    int      `json:"servings"`
}

// ParseRequest 解析單一食材的請求
type ParseRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// BatchRecipe 批次請求中的單一食譜
type BatchRecipe struct {
	ID          string   `json:"id,omitempty"`
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings"`
}

// BatchRequest 批次計算請求
type BatchRequest struct {
	Recipes []BatchRecipe `json:"recipes" binding:"required"`
}

// BatchItemResult 批次中單一食譜的結果，Result 與 Error 擇一
type BatchItemResult struct {
	ID     string         `json:"id"`
	Result interface{}    `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse 批次計算回應
type BatchResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// SuggestionRequest AI 食譜建議的原始內容
type SuggestionRequest struct {
	Content  string `json:"content" binding:"required"`
	Servings int    `json:"servings,omitempty"`
}

// SuggestedIngredient AI 回覆中的結構化食材
type SuggestedIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}
