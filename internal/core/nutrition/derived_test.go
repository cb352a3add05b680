package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthScore(t *testing.T) {
	produce := func(n int) []ParsedIngredient {
		out := make([]ParsedIngredient, n)
		for i := range out {
			out[i] = ParsedIngredient{Category: CategoryProduce}
		}
		return out
	}

	t.Run("base", func(t *testing.T) {
		assert.Equal(t, 50, HealthScore(NutritionFacts{Calories: 400}, nil))
	})

	t.Run("clamped high", func(t *testing.T) {
		f := NutritionFacts{Calories: 150, Protein: 30, Fiber: float64Ptr(10), Sodium: float64Ptr(100)}
		assert.Equal(t, 100, HealthScore(f, produce(10)))
	})

	t.Run("produce bonus capped", func(t *testing.T) {
		assert.Equal(t, 70, HealthScore(NutritionFacts{Calories: 400}, produce(6)))
		assert.Equal(t, 60, HealthScore(NutritionFacts{Calories: 400}, produce(2)))
	})

	t.Run("penalties", func(t *testing.T) {
		f := NutritionFacts{
			Calories:    1200,
			Sodium:      float64Ptr(2500),
			Sugar:       float64Ptr(60),
			Cholesterol: float64Ptr(300),
		}
		assert.Equal(t, 5, HealthScore(f, nil))
	})

	t.Run("bounds across recipes", func(t *testing.T) {
		c := NewCalculator()
		recipes := [][]string{
			{"5 cups sugar", "2 lb butter", "1 cup cheese"},
			{"3 cups broccoli", "2 cups spinach", "1 carrot", "1 apple", "1 cup lentils"},
			{"10 large eggs"},
		}
		for _, lines := range recipes {
			result, err := c.CalculateRecipeNutrition(lines, 1)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.HealthScore, 0)
			assert.LessOrEqual(t, result.HealthScore, 100)
		}
	})
}

func TestDietaryLabels(t *testing.T) {
	c := NewCalculator()

	t.Run("vegan", func(t *testing.T) {
		result, err := c.CalculateRecipeNutrition([]string{"1 cup rice", "2 cups broccoli", "1 tbsp olive oil"}, 2)
		require.NoError(t, err)
		assert.Contains(t, result.DietaryLabels, LabelVegan)
		assert.NotContains(t, result.DietaryLabels, LabelVegetarian)
	})

	t.Run("vegetarian", func(t *testing.T) {
		result, err := c.CalculateRecipeNutrition([]string{"1 cup rice", "3 large eggs"}, 2)
		require.NoError(t, err)
		assert.Contains(t, result.DietaryLabels, LabelVegetarian)
		assert.NotContains(t, result.DietaryLabels, LabelVegan)
	})

	t.Run("eggplant is not an egg", func(t *testing.T) {
		result, err := c.CalculateRecipeNutrition([]string{"1 eggplant", "1 tbsp olive oil"}, 1)
		require.NoError(t, err)
		assert.Contains(t, result.DietaryLabels, LabelVegan)
		assert.NotContains(t, result.Allergens, "Eggs")
	})

	t.Run("graham crackers are not ham", func(t *testing.T) {
		result, err := c.CalculateRecipeNutrition([]string{"2 cups flour", "1 cup graham crackers", "1 cup sugar"}, 4)
		require.NoError(t, err)
		assert.Contains(t, result.DietaryLabels, LabelVegan)
		assert.NotContains(t, result.DietaryLabels, LabelVegetarian)
	})

	t.Run("labels agree with allergens", func(t *testing.T) {
		tests := []struct {
			lines   []string
			vegan   bool
			allergy string
		}{
			{[]string{"2 tbsp peanut butter", "2 slices bread"}, true, "Nuts"},
			{[]string{"1 cup almond milk", "1 banana"}, true, "Nuts"},
			{[]string{"1 butternut squash"}, true, ""},
			{[]string{"1 cup cream of mushroom soup"}, false, "Dairy"},
			{[]string{"2 tbsp mayonnaise", "1 cup lettuce"}, false, "Eggs"},
		}
		for _, tt := range tests {
			result, err := c.CalculateRecipeNutrition(tt.lines, 1)
			require.NoError(t, err)
			for _, allergen := range result.Allergens {
				if allergen == AllergenDairy || allergen == AllergenEggs {
					assert.NotContains(t, result.DietaryLabels, LabelVegan, tt.lines)
				}
			}
			if tt.vegan {
				assert.Contains(t, result.DietaryLabels, LabelVegan, tt.lines)
				assert.NotContains(t, result.Allergens, AllergenDairy, tt.lines)
			} else {
				assert.Contains(t, result.DietaryLabels, LabelVegetarian, tt.lines)
			}
			if tt.allergy != "" {
				assert.Contains(t, result.Allergens, tt.allergy, tt.lines)
			}
		}
	})

	t.Run("keto", func(t *testing.T) {
		labels := c.DietaryLabels(nil, NutritionFacts{Calories: 500, Protein: 10, Carbs: 2, Fat: 50})
		assert.Contains(t, labels, LabelKetoFriendly)
		assert.Contains(t, labels, LabelVegan)
		assert.NotContains(t, labels, LabelLowFat)
	})

	t.Run("thresholds", func(t *testing.T) {
		labels := c.DietaryLabels(nil, NutritionFacts{
			Calories: 250,
			Protein:  25,
			Carbs:    10,
			Fat:      4,
			Fiber:    float64Ptr(9),
			Sodium:   float64Ptr(120),
		})
		assert.Subset(t, labels, []string{LabelHighProtein, LabelHighFiber, LabelLowSodium, LabelLowFat, LabelLowCalorie, LabelProteinRich})
	})
}

func TestAllergens(t *testing.T) {
	c := NewCalculator()

	result, err := c.CalculateRecipeNutrition([]string{"1 cup whole milk", "2 cups wheat flour", "1 cup cheese"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dairy", "Gluten"}, result.Allergens)

	result, err = c.CalculateRecipeNutrition([]string{"200 g shrimp", "1 tbsp soy sauce", "1/4 cup peanuts", "2 eggs"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shellfish", "Soy", "Nuts", "Eggs"}, result.Allergens)
}

func TestGlycemicLoad(t *testing.T) {
	c := NewCalculator()
	ingredients := []ParsedIngredient{
		{Name: "white rice", Nutrition: NutritionFacts{Carbs: 28}},
		{Name: "banana", Nutrition: NutritionFacts{Carbs: 23}},
		{Name: "chicken breast", Nutrition: NutritionFacts{Carbs: 0}},
		{Name: "broccoli", Nutrition: NutritionFacts{Carbs: 7}},
	}
	// 70*28/100 + 51*23/100 = 19.6 + 11.73
	assert.Equal(t, 31, c.GlycemicLoad(ingredients))
	assert.Equal(t, 0, c.GlycemicLoad(nil))
}

func TestGlycemicLoadFirstMatchWins(t *testing.T) {
	c := NewCalculator()
	// rice 在表中排在 potato 之前
	got := c.GlycemicLoad([]ParsedIngredient{{Name: "potato rice cake", Nutrition: NutritionFacts{Carbs: 100}}})
	assert.Equal(t, 70, got)
}
