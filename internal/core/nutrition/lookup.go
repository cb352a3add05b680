package nutrition

import (
	"context"
	"strings"
)

// Lookup 取得食材每 100g 的營養成分
// 依序：完全比對 > 雙向子字串比對 > 分類預設值，永遠有回傳值
func (c *Calculator) Lookup(name string) NutritionFacts {
	if facts, ok := c.lookupDatabase(name); ok {
		return facts
	}
	return c.categoryDefault(c.categorize(context.Background(), name))
}

// lookupDatabase 只查營養資料庫，不做分類退回
func (c *Calculator) lookupDatabase(name string) (NutritionFacts, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return NutritionFacts{}, false
	}
	foods := c.tables.Foods

	for _, entry := range foods {
		if strings.ToLower(entry.Name) == n {
			return cloneFacts(entry.Facts), true
		}
	}

	i := c.strategy.pick(len(foods),
		func(i int) string { return foods[i].Name },
		func(i int) bool {
			key := strings.ToLower(foods[i].Name)
			return key != "" && (strings.Contains(n, key) || strings.Contains(key, n))
		})
	if i < 0 {
		return NutritionFacts{}, false
	}
	return cloneFacts(foods[i].Facts), true
}

// categoryDefault 分類預設營養值，缺表時退回 Other
func (c *Calculator) categoryDefault(category Category) NutritionFacts {
	if facts, ok := c.tables.CategoryDefaults[category]; ok {
		return cloneFacts(facts)
	}
	return cloneFacts(c.tables.CategoryDefaults[CategoryOther])
}

// categorize 呼叫外部分類器，未知的回傳值視為 Other
func (c *Calculator) categorize(ctx context.Context, name string) Category {
	var category Category
	if cc, ok := c.categorizer.(ContextCategorizer); ok {
		category = cc.CategorizeContext(ctx, name)
	} else {
		category = c.categorizer.Categorize(name)
	}
	if !category.Valid() {
		return CategoryOther
	}
	return category
}

// cloneFacts 深拷貝，避免結果與參考表共用指標與 map
func cloneFacts(f NutritionFacts) NutritionFacts {
	out := NutritionFacts{
		Calories:       f.Calories,
		Protein:        f.Protein,
		Carbs:          f.Carbs,
		Fat:            f.Fat,
		Fiber:          clonePtr(f.Fiber),
		Sugar:          clonePtr(f.Sugar),
		Sodium:         clonePtr(f.Sodium),
		Cholesterol:    clonePtr(f.Cholesterol),
		SaturatedFat:   clonePtr(f.SaturatedFat),
		UnsaturatedFat: clonePtr(f.UnsaturatedFat),
	}
	if f.Vitamins != nil {
		out.Vitamins = make(map[string]float64, len(f.Vitamins))
		for k, v := range f.Vitamins {
			out.Vitamins[k] = v
		}
	}
	if f.Minerals != nil {
		out.Minerals = make(map[string]float64, len(f.Minerals))
		for k, v := range f.Minerals {
			out.Minerals[k] = v
		}
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return float64Ptr(*p)
}
