package nutrition

import (
	"math"
	"strings"
)

// GlycemicLoad 估算整份食譜的升糖負荷
// 每項食材以每 100g 碳水計算：GI * carbs / 100，未命中者貢獻 0
func (c *Calculator) GlycemicLoad(ingredients []ParsedIngredient) int {
	table := c.tables.GlycemicIndex
	var load float64
	for _, ing := range ingredients {
		n := strings.ToLower(ing.Name)
		i := c.strategy.pick(len(table),
			func(i int) string { return table[i].Keyword },
			func(i int) bool { return table[i].Keyword != "" && strings.Contains(n, table[i].Keyword) })
		if i < 0 {
			continue
		}
		load += table[i].Index * ing.Nutrition.Carbs / 100
	}
	return int(math.Round(math.Max(load, 0)))
}
