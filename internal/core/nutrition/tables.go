package nutrition

import (
	"fmt"
	"strings"
)

// MatchStrategy 子字串比對時的勝出規則
type MatchStrategy string

const (
	// MatchFirst 依表格順序，第一個命中者勝出
	MatchFirst MatchStrategy = "first"
	// MatchLongest 最長（最具體）的關鍵字勝出，同長度時取表格中較前者
	MatchLongest MatchStrategy = "longest"
)

// ParseMatchStrategy 解析設定值，空字串視為 MatchFirst
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchLongest:
		return MatchLongest, nil
	}
	return "", fmt.Errorf("unknown match strategy %q", s)
}

// pick 在 n 個候選中挑出命中的索引，沒有命中回傳 -1
func (s MatchStrategy) pick(n int, key func(i int) string, hit func(i int) bool) int {
	best := -1
	for i := 0; i < n; i++ {
		if !hit(i) {
			continue
		}
		if s != MatchLongest {
			return i
		}
		if best == -1 || len(key(i)) > len(key(best)) {
			best = i
		}
	}
	return best
}

// FoodEntry 營養資料庫中的一筆（每 100g）
type FoodEntry struct {
	Name  string         `json:"name"`
	Facts NutritionFacts `json:"facts"`
}

// DensityOverride 特定食材的體積單位克數（1 單位 = N 克）
type DensityOverride struct {
	Keyword string             `json:"keyword"`
	Grams   map[string]float64 `json:"grams"`
}

// PieceWeight 單顆/單個食材的平均重量
type PieceWeight struct {
	Keyword string  `json:"keyword"`
	Grams   float64 `json:"grams"`
}

// AllergenRule 過敏原與其關鍵字
// Exclude 中的片語會先從名稱移除再比對，例如 eggplant 不算蛋
type AllergenRule struct {
	Allergen string   `json:"allergen"`
	Keywords []string `json:"keywords"`
	Exclude  []string `json:"exclude,omitempty"`
}

// 會讓食譜失去 Vegan 標籤的過敏原
const (
	AllergenDairy = "Dairy"
	AllergenEggs  = "Eggs"
)

// GlycemicEntry 升糖指數
type GlycemicEntry struct {
	Keyword string  `json:"keyword"`
	Index   float64 `json:"index"`
}

// Tables 計算器使用的靜態參考資料
// 切片順序即比對順序，屬於可觀察行為
type Tables struct {
	Foods            []FoodEntry                 `json:"foods"`
	Densities        []DensityOverride           `json:"densities"`
	UnitGrams        map[string]float64          `json:"unit_grams"`
	PieceWeights     []PieceWeight               `json:"piece_weights"`
	CategoryDefaults map[Category]NutritionFacts `json:"category_defaults"`
	Allergens        []AllergenRule              `json:"allergens"`
	GlycemicIndex    []GlycemicEntry             `json:"glycemic_index"`
}

type factOption func(*NutritionFacts)

func fiber(v float64) factOption       { return func(f *NutritionFacts) { f.Fiber = float64Ptr(v) } }
func sugar(v float64) factOption       { return func(f *NutritionFacts) { f.Sugar = float64Ptr(v) } }
func sodium(v float64) factOption      { return func(f *NutritionFacts) { f.Sodium = float64Ptr(v) } }
func cholesterol(v float64) factOption { return func(f *NutritionFacts) { f.Cholesterol = float64Ptr(v) } }
func satFat(v float64) factOption      { return func(f *NutritionFacts) { f.SaturatedFat = float64Ptr(v) } }
func unsatFat(v float64) factOption    { return func(f *NutritionFacts) { f.UnsaturatedFat = float64Ptr(v) } }

func vitamins(m map[string]float64) factOption {
	return func(f *NutritionFacts) { f.Vitamins = m }
}

func minerals(m map[string]float64) factOption {
	return func(f *NutritionFacts) { f.Minerals = m }
}

func facts(calories, protein, carbs, fat float64, opts ...factOption) NutritionFacts {
	f := NutritionFacts{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func food(name string, calories, protein, carbs, fat float64, opts ...factOption) FoodEntry {
	return FoodEntry{Name: name, Facts: facts(calories, protein, carbs, fat, opts...)}
}

// DefaultTables 回傳一份全新的預設參考資料
func DefaultTables() *Tables {
	return &Tables{
		Foods: []FoodEntry{
			food("chicken breast", 165, 31, 0, 3.6, fiber(0), sugar(0), sodium(74), cholesterol(85), satFat(1), unsatFat(2.1),
				vitamins(map[string]float64{"b3": 13.7, "b6": 0.6, "b12": 0.3}),
				minerals(map[string]float64{"phosphorus": 228, "potassium": 256, "zinc": 1})),
			food("ground beef", 250, 26, 0, 15, sodium(72), cholesterol(90), satFat(6), unsatFat(7.5),
				minerals(map[string]float64{"iron": 2.6, "zinc": 6.3})),
			food("salmon", 208, 20, 0, 13, sodium(59), cholesterol(55), satFat(3.1), unsatFat(8.6),
				vitamins(map[string]float64{"d": 526, "b12": 3.2})),
			food("egg", 155, 13, 1.1, 11, sugar(1.1), sodium(124), cholesterol(373), satFat(3.3), unsatFat(6.1),
				vitamins(map[string]float64{"a": 540, "d": 87, "b12": 1.1})),
			food("tofu", 76, 8, 1.9, 4.8, fiber(0.3), sodium(7), satFat(0.7),
				minerals(map[string]float64{"calcium": 350, "iron": 5.4})),
			food("rice", 130, 2.7, 28, 0.3, fiber(0.4), sugar(0.1), sodium(1)),
			food("pasta", 131, 5, 25, 1.1, fiber(1.8), sugar(0.6), sodium(6)),
			food("bread", 265, 9, 49, 3.2, fiber(2.7), sugar(5), sodium(491)),
			food("flour", 364, 10, 76, 1, fiber(2.7), sugar(0.3), sodium(2)),
			food("oats", 389, 16.9, 66, 6.9, fiber(10.6), sugar(1), sodium(2),
				minerals(map[string]float64{"iron": 4.7, "magnesium": 177})),
			food("quinoa", 120, 4.4, 21, 1.9, fiber(2.8), sugar(0.9), sodium(7)),
			food("potato", 77, 2, 17, 0.1, fiber(2.2), sugar(0.8), sodium(6),
				vitamins(map[string]float64{"c": 19.7, "b6": 0.3}),
				minerals(map[string]float64{"potassium": 425})),
			food("broccoli", 34, 2.8, 7, 0.4, fiber(2.6), sugar(1.7), sodium(33),
				vitamins(map[string]float64{"c": 89.2, "k": 101.6})),
			food("spinach", 23, 2.9, 3.6, 0.4, fiber(2.2), sugar(0.4), sodium(79),
				vitamins(map[string]float64{"a": 9377, "k": 482.9, "folate": 194}),
				minerals(map[string]float64{"iron": 2.7})),
			food("tomato", 18, 0.9, 3.9, 0.2, fiber(1.2), sugar(2.6), sodium(5),
				vitamins(map[string]float64{"c": 13.7})),
			food("onion", 40, 1.1, 9.3, 0.1, fiber(1.7), sugar(4.2), sodium(4)),
			food("carrot", 41, 0.9, 10, 0.2, fiber(2.8), sugar(4.7), sodium(69),
				vitamins(map[string]float64{"a": 16706})),
			food("apple", 52, 0.3, 14, 0.2, fiber(2.4), sugar(10), sodium(1)),
			food("banana", 89, 1.1, 23, 0.3, fiber(2.6), sugar(12), sodium(1),
				minerals(map[string]float64{"potassium": 358})),
			food("milk", 61, 3.2, 4.8, 3.3, sugar(5.1), sodium(43), cholesterol(10), satFat(1.9),
				minerals(map[string]float64{"calcium": 113})),
			food("cheese", 402, 25, 1.3, 33, sugar(0.5), sodium(621), cholesterol(105), satFat(21),
				minerals(map[string]float64{"calcium": 721})),
			food("yogurt", 59, 10, 3.6, 0.4, sugar(3.2), sodium(36), cholesterol(5),
				minerals(map[string]float64{"calcium": 110})),
			food("butter", 717, 0.9, 0.1, 81, sugar(0.1), sodium(11), cholesterol(215), satFat(51), unsatFat(24)),
			food("olive oil", 884, 0, 0, 100, sodium(2), satFat(14), unsatFat(84)),
			food("almonds", 579, 21, 22, 50, fiber(12.5), sugar(4.4), sodium(1), satFat(3.8), unsatFat(43),
				vitamins(map[string]float64{"e": 25.6}),
				minerals(map[string]float64{"magnesium": 270})),
			food("black beans", 132, 8.9, 24, 0.5, fiber(8.7), sugar(0.3), sodium(1)),
			food("lentils", 116, 9, 20, 0.4, fiber(7.9), sugar(1.8), sodium(2),
				vitamins(map[string]float64{"folate": 181})),
			food("sugar", 387, 0, 100, 0, sugar(100), sodium(1)),
		},
		Densities: []DensityOverride{
			{Keyword: "flour", Grams: map[string]float64{"cup": 120, "tbsp": 8, "tsp": 2.6}},
			{Keyword: "sugar", Grams: map[string]float64{"cup": 200, "tbsp": 12.5, "tsp": 4.2}},
			{Keyword: "rice", Grams: map[string]float64{"cup": 185, "tbsp": 11.6, "tsp": 3.9}},
			{Keyword: "oats", Grams: map[string]float64{"cup": 80, "tbsp": 5, "tsp": 1.7}},
			{Keyword: "butter", Grams: map[string]float64{"cup": 227, "tbsp": 14.2, "tsp": 4.7}},
			{Keyword: "oil", Grams: map[string]float64{"cup": 218, "tbsp": 13.6, "tsp": 4.5}},
		},
		UnitGrams: map[string]float64{
			"ml":   1,
			"l":    1000,
			"cup":  240,
			"tbsp": 15,
			"tsp":  5,
			"g":    1,
			"kg":   1000,
			"oz":   28.35,
			"lb":   453.6,
		},
		PieceWeights: []PieceWeight{
			{Keyword: "egg", Grams: 50},
			{Keyword: "onion", Grams: 150},
			{Keyword: "apple", Grams: 182},
			{Keyword: "banana", Grams: 118},
			{Keyword: "tomato", Grams: 123},
			{Keyword: "potato", Grams: 173},
			{Keyword: "carrot", Grams: 61},
			{Keyword: "garlic", Grams: 5},
			{Keyword: "lemon", Grams: 58},
			{Keyword: "orange", Grams: 131},
		},
		CategoryDefaults: map[Category]NutritionFacts{
			CategoryProduce: facts(25, 1, 6, 0.2, fiber(2)),
			CategoryMeat:    facts(200, 25, 0, 10),
			CategoryDairy:   facts(150, 8, 5, 10),
			CategoryPantry:  facts(350, 10, 70, 2),
			CategoryOther:   facts(100, 3, 15, 3),
		},
		Allergens: []AllergenRule{
			{Allergen: AllergenDairy, Keywords: []string{"milk", "cheese", "butter", "cream", "yogurt", "whey"}, Exclude: []string{
				"peanut butter", "almond butter", "nut butter", "cocoa butter", "butternut",
				"almond milk", "soy milk", "oat milk", "rice milk", "coconut milk", "coconut cream",
			}},
			{Allergen: AllergenEggs, Keywords: []string{"egg", "mayonnaise"}, Exclude: []string{"eggplant"}},
			{Allergen: "Nuts", Keywords: []string{"almond", "walnut", "pecan", "cashew", "pistachio", "hazelnut", "peanut", "nuts"}},
			{Allergen: "Gluten", Keywords: []string{"wheat", "flour", "bread", "pasta", "barley", "rye", "couscous"}},
			{Allergen: "Soy", Keywords: []string{"soy", "tofu", "edamame", "tempeh"}},
			{Allergen: "Shellfish", Keywords: []string{"shrimp", "prawn", "crab", "lobster", "clam", "mussel", "oyster", "scallop"}},
			{Allergen: "Fish", Keywords: []string{"fish", "salmon", "tuna", "cod", "tilapia", "anchovy", "trout"}},
		},
		GlycemicIndex: []GlycemicEntry{
			{Keyword: "rice", Index: 70},
			{Keyword: "pasta", Index: 45},
			{Keyword: "bread", Index: 75},
			{Keyword: "potato", Index: 85},
			{Keyword: "oats", Index: 55},
			{Keyword: "quinoa", Index: 53},
			{Keyword: "apple", Index: 36},
			{Keyword: "banana", Index: 51},
			{Keyword: "orange", Index: 45},
		},
	}
}
