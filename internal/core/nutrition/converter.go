package nutrition

import "strings"

// fallbackGramsPerUnit 無法換算時每單位視為 100g
const fallbackGramsPerUnit = 100

// ToGrams 將 (數量, 單位, 食材) 換算為克數
// 順序：食材專屬密度 > 通用單位 > 單顆重量 > 每單位 100g
func (c *Calculator) ToGrams(quantity float64, unit, name string) float64 {
	if quantity <= 0 {
		return 0
	}
	unit = NormalizeUnit(unit)
	n := strings.ToLower(strings.TrimSpace(name))

	if n != "" {
		densities := c.tables.Densities
		i := c.strategy.pick(len(densities),
			func(i int) string { return densities[i].Keyword },
			func(i int) bool {
				_, ok := densities[i].Grams[unit]
				return ok && strings.Contains(n, densities[i].Keyword)
			})
		if i >= 0 {
			return quantity * densities[i].Grams[unit]
		}
	}

	if grams, ok := c.tables.UnitGrams[unit]; ok {
		return quantity * grams
	}

	if unit == UnitPiece && n != "" {
		pieces := c.tables.PieceWeights
		i := c.strategy.pick(len(pieces),
			func(i int) string { return pieces[i].Keyword },
			func(i int) bool { return strings.Contains(n, pieces[i].Keyword) })
		if i >= 0 {
			return quantity * pieces[i].Grams
		}
	}

	return quantity * fallbackGramsPerUnit
}
