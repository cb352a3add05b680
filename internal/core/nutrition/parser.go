package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

const quantityPattern = `(\d+(?:\s+\d+/\d+|\.\d+|/\d+)?)`

var (
	unitLinePattern = regexp.MustCompile(`(?i)^` + quantityPattern +
		`\s+(cups?|tablespoons?|tbsps?|teaspoons?|tsps?|pounds?|lbs?|ounces?|oz|grams?|g|kilograms?|kgs?|milliliters?|millilitres?|ml|liters?|litres?|l)\.?\s+(.+)$`)
	sizeLinePattern  = regexp.MustCompile(`(?i)^` + quantityPattern + `\s+(?:(large|medium|small|whole)\s+)?(.+)$`)
	plainLinePattern = regexp.MustCompile(`(?i)^` + quantityPattern + `\s+(.+)$`)
)

// vulgarFractions Unicode 分數字元
var vulgarFractions = strings.NewReplacer(
	"½", " 1/2", "⅓", " 1/3", "⅔", " 2/3", "¼", " 1/4", "¾", " 3/4",
	"⅕", " 1/5", "⅛", " 1/8", "⅜", " 3/8", "⅝", " 5/8", "⅞", " 7/8",
)

// unitAliases 單位別名對應到標準短寫
var unitAliases = map[string]string{
	"cup": "cup", "cups": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbsps": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp", "tsps": "tsp",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg", "kgs": "kg",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml", "ml": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
	"piece": UnitPiece, "pieces": UnitPiece,
}

// NormalizeUnit 將複數或縮寫單位轉成標準寫法，未知單位轉小寫後原樣回傳
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	return u
}

// ParseIngredient 從自由文字解析出名稱、數量與單位
// 無法解析時回傳 {原文, 1, piece}，不會失敗
func ParseIngredient(line string) IngredientLine {
	trimmed := strings.TrimSpace(line)
	// "1½" 轉為 "1 1/2"
	if strings.ContainsAny(trimmed, "½⅓⅔¼¾⅕⅛⅜⅝⅞") {
		trimmed = strings.Join(strings.Fields(vulgarFractions.Replace(trimmed)), " ")
	}

	if m := unitLinePattern.FindStringSubmatch(trimmed); m != nil {
		return IngredientLine{
			Name:     strings.TrimSpace(m[3]),
			Quantity: parseQuantity(m[1]),
			Unit:     NormalizeUnit(m[2]),
		}
	}

	// 尺寸描述（large/medium/...）不保留在名稱中
	if m := sizeLinePattern.FindStringSubmatch(trimmed); m != nil {
		return IngredientLine{
			Name:     strings.TrimSpace(m[3]),
			Quantity: parseQuantity(m[1]),
			Unit:     UnitPiece,
		}
	}

	if m := plainLinePattern.FindStringSubmatch(trimmed); m != nil {
		return IngredientLine{
			Name:     strings.TrimSpace(m[2]),
			Quantity: parseQuantity(m[1]),
			Unit:     UnitPiece,
		}
	}

	return IngredientLine{Name: trimmed, Quantity: 1, Unit: UnitPiece}
}

// parseQuantity 解析帶分數、分數、小數與整數，失敗回傳 1
func parseQuantity(s string) float64 {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], "/") {
			if v, ok := parseFraction(fields[0]); ok {
				return v
			}
			return 1
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 1
		}
		return v
	case 2:
		whole, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 1
		}
		frac, ok := parseFraction(fields[1])
		if !ok {
			return 1
		}
		return whole + frac
	}
	return 1
}

func parseFraction(s string) (float64, bool) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
