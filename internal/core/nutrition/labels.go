package nutrition

import "strings"

// 飲食標籤
const (
	LabelVegan        = "Vegan"
	LabelVegetarian   = "Vegetarian"
	LabelHighProtein  = "High Protein"
	LabelHighFiber    = "High Fiber"
	LabelLowSodium    = "Low Sodium"
	LabelLowFat       = "Low Fat"
	LabelLowCalorie   = "Low Calorie"
	LabelKetoFriendly = "Keto Friendly"
	LabelProteinRich  = "Protein Rich"
)

// DietaryLabels 依食材分類與每份營養值產生飲食標籤
// Vegan 與 Vegetarian 互斥，只要有肉類兩者都不會出現
func (c *Calculator) DietaryLabels(ingredients []ParsedIngredient, perServing NutritionFacts) []string {
	labels := make([]string, 0, 4)

	hasMeat, hasAnimalProduct := false, false
	for _, ing := range ingredients {
		switch {
		case ing.Category == CategoryMeat:
			hasMeat = true
		case ing.Category == CategoryDairy, c.isAnimalProduct(ing.Name):
			hasAnimalProduct = true
		}
	}
	if !hasMeat {
		if hasAnimalProduct {
			labels = append(labels, LabelVegetarian)
		} else {
			labels = append(labels, LabelVegan)
		}
	}

	if perServing.Protein > 20 {
		labels = append(labels, LabelHighProtein)
	}
	if above(perServing.Fiber, 8) {
		labels = append(labels, LabelHighFiber)
	}
	if below(perServing.Sodium, 300) {
		labels = append(labels, LabelLowSodium)
	}
	if perServing.Fat < 5 {
		labels = append(labels, LabelLowFat)
	}
	if perServing.Calories < 300 {
		labels = append(labels, LabelLowCalorie)
	}

	macros := MacroPercentagesOf(perServing)
	if macros.Carbs < 20 && macros.Fat > 60 {
		labels = append(labels, LabelKetoFriendly)
	}
	if macros.Protein > 30 {
		labels = append(labels, LabelProteinRich)
	}

	return labels
}

// isAnimalProduct 與 Allergens 共用規則：觸發乳製品或蛋過敏原即視為動物性食材
func (c *Calculator) isAnimalProduct(name string) bool {
	n := strings.ToLower(name)
	for _, rule := range c.tables.Allergens {
		if (rule.Allergen == AllergenDairy || rule.Allergen == AllergenEggs) && rule.matches(n) {
			return true
		}
	}
	return false
}

// Allergens 以關鍵字比對食材名稱，回傳去重後的過敏原（保留首次出現順序）
func (c *Calculator) Allergens(ingredients []ParsedIngredient) []string {
	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, ing := range ingredients {
		n := strings.ToLower(ing.Name)
		for _, rule := range c.tables.Allergens {
			if seen[rule.Allergen] || !rule.matches(n) {
				continue
			}
			seen[rule.Allergen] = true
			found = append(found, rule.Allergen)
		}
	}
	return found
}

// matches 移除排除片語後比對關鍵字，name 需為小寫
func (r AllergenRule) matches(name string) bool {
	for _, ex := range r.Exclude {
		if ex != "" {
			name = strings.ReplaceAll(name, ex, " ")
		}
	}
	return containsAny(name, r.Keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
