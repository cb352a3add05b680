package nutrition

import (
	"context"
	"math"
	"strings"

	"recipe-nutrition/internal/pkg/common"
)

// 驗證錯誤
var (
	ErrInvalidServings = common.NewValidationError("servings must be greater than zero")
	ErrNoIngredients   = common.NewValidationError("at least one ingredient is required")
)

// Calculator 食譜營養計算器
// 建立後不可變，可被多個 goroutine 同時使用
type Calculator struct {
	tables      *Tables
	categorizer Categorizer
	strategy    MatchStrategy
}

// Option 計算器選項
type Option func(*Calculator)

// WithTables 使用自訂參考資料
func WithTables(t *Tables) Option {
	return func(c *Calculator) {
		if t != nil {
			c.tables = t
		}
	}
}

// WithCategorizer 使用自訂分類器
func WithCategorizer(cat Categorizer) Option {
	return func(c *Calculator) {
		if cat != nil {
			c.categorizer = cat
		}
	}
}

// WithMatchStrategy 設定子字串比對規則
func WithMatchStrategy(s MatchStrategy) Option {
	return func(c *Calculator) {
		if s != "" {
			c.strategy = s
		}
	}
}

// NewCalculator 建立計算器，未指定時使用預設參考資料與關鍵字分類器
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		tables:      DefaultTables(),
		categorizer: NewKeywordCategorizer(),
		strategy:    MatchFirst,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables 回傳目前使用的參考資料（唯讀）
func (c *Calculator) Tables() *Tables {
	return c.tables
}

// ParseLine 解析單行食材並完成換算、查表與縮放
func (c *Calculator) ParseLine(line string) ParsedIngredient {
	return c.ParseLineContext(context.Background(), line)
}

// ParseLineContext 同 ParseLine，ctx 會傳給支援 ContextCategorizer 的分類器
func (c *Calculator) ParseLineContext(ctx context.Context, line string) ParsedIngredient {
	parsed := ParseIngredient(line)
	grams := c.ToGrams(parsed.Quantity, parsed.Unit, parsed.Name)
	category := c.categorize(ctx, parsed.Name)

	per100g, ok := c.lookupDatabase(parsed.Name)
	if !ok {
		per100g = c.categoryDefault(category)
	}

	return ParsedIngredient{
		Raw:          line,
		Name:         parsed.Name,
		Quantity:     parsed.Quantity,
		Unit:         parsed.Unit,
		Grams:        grams,
		Category:     category,
		Nutrition:    per100g,
		Contribution: scaleFacts(per100g, grams/100),
	}
}

// CalculateRecipeNutrition 計算整份食譜的營養資訊
// servings <= 0 或沒有任何非空白食材時回傳驗證錯誤
func (c *Calculator) CalculateRecipeNutrition(lines []string, servings int) (*RecipeNutrition, error) {
	return c.CalculateRecipeNutritionContext(context.Background(), lines, servings)
}

// CalculateRecipeNutritionContext 同 CalculateRecipeNutrition，ctx 取消後停止處理剩餘食材
func (c *Calculator) CalculateRecipeNutritionContext(ctx context.Context, lines []string, servings int) (*RecipeNutrition, error) {
	if servings <= 0 {
		return nil, ErrInvalidServings
	}

	ingredients := make([]ParsedIngredient, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, c.ParseLineContext(ctx, line))
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	total := sumContributions(ingredients)
	perServing := scaleFacts(total, 1/float64(servings))
	macros := MacroPercentagesOf(perServing)

	return &RecipeNutrition{
		Total:         total,
		Ingredients:   ingredients,
		Servings:      servings,
		PerServing:    perServing,
		Macros:        macros,
		HealthScore:   HealthScore(perServing, ingredients),
		DietaryLabels: c.DietaryLabels(ingredients, perServing),
		Allergens:     c.Allergens(ingredients),
		GlycemicLoad:  c.GlycemicLoad(ingredients),
	}, nil
}

// MacroPercentagesOf 計算蛋白質、碳水、脂肪的熱量佔比
// 三者熱量皆為 0 時回傳 {0,0,0}
func MacroPercentagesOf(f NutritionFacts) MacroPercentages {
	proteinCal := f.Protein * 4
	carbsCal := f.Carbs * 4
	fatCal := f.Fat * 9
	total := proteinCal + carbsCal + fatCal
	if total <= 0 {
		return MacroPercentages{}
	}
	return MacroPercentages{
		Protein: int(math.Round(proteinCal / total * 100)),
		Carbs:   int(math.Round(carbsCal / total * 100)),
		Fat:     int(math.Round(fatCal / total * 100)),
	}
}

// scaleFacts 乘上倍率並套用捨入規則：熱量取整數、其餘一位小數
func scaleFacts(f NutritionFacts, factor float64) NutritionFacts {
	out := NutritionFacts{
		Calories:       math.Round(f.Calories * factor),
		Protein:        round1(f.Protein * factor),
		Carbs:          round1(f.Carbs * factor),
		Fat:            round1(f.Fat * factor),
		Fiber:          scalePtr(f.Fiber, factor),
		Sugar:          scalePtr(f.Sugar, factor),
		Sodium:         scalePtr(f.Sodium, factor),
		Cholesterol:    scalePtr(f.Cholesterol, factor),
		SaturatedFat:   scalePtr(f.SaturatedFat, factor),
		UnsaturatedFat: scalePtr(f.UnsaturatedFat, factor),
		Vitamins:       scaleMap(f.Vitamins, factor),
		Minerals:       scaleMap(f.Minerals, factor),
	}
	return out
}

// sumContributions 加總所有食材貢獻
// 選填欄位只要有任一食材提供就會出現在總和中
func sumContributions(ingredients []ParsedIngredient) NutritionFacts {
	var total NutritionFacts
	for _, ing := range ingredients {
		f := ing.Contribution
		total.Calories += f.Calories
		total.Protein += f.Protein
		total.Carbs += f.Carbs
		total.Fat += f.Fat
		total.Fiber = addPtr(total.Fiber, f.Fiber)
		total.Sugar = addPtr(total.Sugar, f.Sugar)
		total.Sodium = addPtr(total.Sodium, f.Sodium)
		total.Cholesterol = addPtr(total.Cholesterol, f.Cholesterol)
		total.SaturatedFat = addPtr(total.SaturatedFat, f.SaturatedFat)
		total.UnsaturatedFat = addPtr(total.UnsaturatedFat, f.UnsaturatedFat)
		total.Vitamins = addMap(total.Vitamins, f.Vitamins)
		total.Minerals = addMap(total.Minerals, f.Minerals)
	}
	// 消除浮點累加誤差
	return scaleFacts(total, 1)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func scalePtr(p *float64, factor float64) *float64 {
	if p == nil {
		return nil
	}
	return float64Ptr(round1(*p * factor))
}

func addPtr(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil {
		return float64Ptr(*v)
	}
	return float64Ptr(*acc + *v)
}

func scaleMap(m map[string]float64, factor float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v * factor)
	}
	return out
}

func addMap(acc, m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return acc
	}
	if acc == nil {
		acc = make(map[string]float64, len(m))
	}
	for k, v := range m {
		acc[k] += v
	}
	return acc
}
