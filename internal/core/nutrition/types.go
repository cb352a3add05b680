package nutrition

// Category 食材分類
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryMeat    Category = "Meat & Seafood"
	CategoryDairy   Category = "Dairy"
	CategoryPantry  Category = "Pantry"
	CategoryOther   Category = "Other"
)

// Valid 檢查分類是否為已知值
func (c Category) Valid() bool {
	switch c {
	case CategoryProduce, CategoryMeat, CategoryDairy, CategoryPantry, CategoryOther:
		return true
	}
	return false
}

// UnitPiece 無單位時的預設單位
const UnitPiece = "piece"

// NutritionFacts 營養成分（每 100g 或指定基準）
// 指標欄位為 nil 代表「未知」，不是 0
type NutritionFacts struct {
	Calories       float64            `json:"calories"`
	Protein        float64            `json:"protein"`
	Carbs          float64            `json:"carbs"`
	Fat            float64            `json:"fat"`
	Fiber          *float64           `json:"fiber,omitempty"`
	Sugar          *float64           `json:"sugar,omitempty"`
	Sodium         *float64           `json:"sodium,omitempty"`      // mg
	Cholesterol    *float64           `json:"cholesterol,omitempty"` // mg
	SaturatedFat   *float64           `json:"saturated_fat,omitempty"`
	UnsaturatedFat *float64           `json:"unsaturated_fat,omitempty"`
	Vitamins       map[string]float64 `json:"vitamins,omitempty"`
	Minerals       map[string]float64 `json:"minerals,omitempty"` // mg
}

// IngredientLine 解析後的食材行
type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ParsedIngredient 完成解析、換算與查表的食材
type ParsedIngredient struct {
	Raw          string         `json:"raw"`
	Name         string         `json:"name"`
	Quantity     float64        `json:"quantity"`
	Unit         string         `json:"unit"`
	Grams        float64        `json:"standardized_quantity_grams"`
	Category     Category       `json:"category"`
	Nutrition    NutritionFacts `json:"nutrition"` // 每 100g
	Contribution NutritionFacts `json:"contribution"`
}

// MacroPercentages 三大營養素熱量佔比
type MacroPercentages struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// RecipeNutrition 食譜營養計算結果
type RecipeNutrition struct {
	Total         NutritionFacts     `json:"total"`
	Ingredients   []ParsedIngredient `json:"ingredients"`
	Servings      int                `json:"servings"`
	PerServing    NutritionFacts     `json:"nutrition_per_serving"`
	Macros        MacroPercentages   `json:"macro_percentages"`
	HealthScore   int                `json:"health_score"`
	DietaryLabels []string           `json:"dietary_labels"`
	Allergens     []string           `json:"allergens"`
	GlycemicLoad  int                `json:"glycemic_load"`
}

func float64Ptr(v float64) *float64 {
	return &v
}
