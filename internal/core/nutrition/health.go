package nutrition

import "math"

const (
	healthBaseScore       = 50
	healthProduceBonus    = 5
	healthProduceBonusCap = 20
)

// HealthScore 0-100 的健康分數
// 以每份營養值加減分，蔬果類食材每項 +5（上限 +20）
func HealthScore(perServing NutritionFacts, ingredients []ParsedIngredient) int {
	score := healthBaseScore

	if above(perServing.Fiber, 5) {
		score += 10
	}
	if perServing.Protein > 15 {
		score += 10
	}
	if below(perServing.Sodium, 600) {
		score += 10
	}

	produce := 0
	for _, ing := range ingredients {
		if ing.Category == CategoryProduce {
			produce++
		}
	}
	score += int(math.Min(float64(produce*healthProduceBonus), healthProduceBonusCap))

	if above(perServing.Sodium, 1000) {
		score -= 15
	}
	if above(perServing.Sugar, 20) {
		score -= 10
	}
	if above(perServing.Cholesterol, 100) {
		score -= 10
	}
	if perServing.Calories > 600 {
		score -= 10
	}
	if perServing.Calories < 200 {
		score += 5
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// above 欄位存在且大於門檻
func above(p *float64, limit float64) bool {
	return p != nil && *p > limit
}

// below 欄位存在且小於門檻
func below(p *float64, limit float64) bool {
	return p != nil && *p < limit
}
