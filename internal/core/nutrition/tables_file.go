package nutrition

import (
	"fmt"
	"os"
	"strings"

	"recipe-nutrition/internal/pkg/common"
)

// LoadTables 讀取 JSON 參考資料並覆蓋在預設值之上
// 檔案中出現且非空的區段會整段取代預設值，其餘保留
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("讀取參考資料失敗: %w", err)
	}

	var overlay Tables
	if err := common.ParseJSONBytesStrict(data, &overlay); err != nil {
		return nil, fmt.Errorf("解析參考資料失敗 %s: %w", path, err)
	}

	tables := DefaultTables()
	tables.merge(&overlay)
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("參考資料無效 %s: %w", path, err)
	}
	return tables, nil
}

func (t *Tables) merge(o *Tables) {
	if len(o.Foods) > 0 {
		t.Foods = o.Foods
	}
	if len(o.Densities) > 0 {
		t.Densities = o.Densities
	}
	if len(o.UnitGrams) > 0 {
		t.UnitGrams = o.UnitGrams
	}
	if len(o.PieceWeights) > 0 {
		t.PieceWeights = o.PieceWeights
	}
	if len(o.CategoryDefaults) > 0 {
		t.CategoryDefaults = o.CategoryDefaults
	}
	if len(o.Allergens) > 0 {
		t.Allergens = o.Allergens
	}
	if len(o.GlycemicIndex) > 0 {
		t.GlycemicIndex = o.GlycemicIndex
	}
	t.normalize()
}

// normalize 關鍵字與單位一律轉小寫，比對時才不用重複處理
func (t *Tables) normalize() {
	for i := range t.Foods {
		t.Foods[i].Name = lowerTrim(t.Foods[i].Name)
	}
	for i := range t.Densities {
		t.Densities[i].Keyword = lowerTrim(t.Densities[i].Keyword)
		t.Densities[i].Grams = normalizeUnitKeys(t.Densities[i].Grams)
	}
	t.UnitGrams = normalizeUnitKeys(t.UnitGrams)
	for i := range t.PieceWeights {
		t.PieceWeights[i].Keyword = lowerTrim(t.PieceWeights[i].Keyword)
	}
	for i := range t.Allergens {
		for j := range t.Allergens[i].Keywords {
			t.Allergens[i].Keywords[j] = lowerTrim(t.Allergens[i].Keywords[j])
		}
		for j := range t.Allergens[i].Exclude {
			t.Allergens[i].Exclude[j] = lowerTrim(t.Allergens[i].Exclude[j])
		}
	}
	for i := range t.GlycemicIndex {
		t.GlycemicIndex[i].Keyword = lowerTrim(t.GlycemicIndex[i].Keyword)
	}
}

// Validate 檢查參考資料是否可用
func (t *Tables) Validate() error {
	for _, f := range t.Foods {
		if f.Name == "" {
			return common.NewValidationError("food entry without name")
		}
		if f.Facts.Calories < 0 || f.Facts.Protein < 0 || f.Facts.Carbs < 0 || f.Facts.Fat < 0 {
			return common.NewValidationError(fmt.Sprintf("negative nutrition values for %q", f.Name))
		}
	}
	for _, d := range t.Densities {
		if d.Keyword == "" {
			return common.NewValidationError("density override without keyword")
		}
		for unit, grams := range d.Grams {
			if grams <= 0 {
				return common.NewValidationError(fmt.Sprintf("density %q/%s must be positive", d.Keyword, unit))
			}
		}
	}
	for unit, grams := range t.UnitGrams {
		if grams <= 0 {
			return common.NewValidationError(fmt.Sprintf("unit %q must be positive", unit))
		}
	}
	for _, p := range t.PieceWeights {
		if p.Keyword == "" || p.Grams <= 0 {
			return common.NewValidationError(fmt.Sprintf("invalid piece weight %q", p.Keyword))
		}
	}
	for category := range t.CategoryDefaults {
		if !category.Valid() {
			return common.NewValidationError(fmt.Sprintf("unknown category %q", category))
		}
	}
	if _, ok := t.CategoryDefaults[CategoryOther]; !ok {
		return common.NewValidationError("category defaults must include Other")
	}
	for _, g := range t.GlycemicIndex {
		if g.Keyword == "" || g.Index < 0 {
			return common.NewValidationError(fmt.Sprintf("invalid glycemic entry %q", g.Keyword))
		}
	}
	return nil
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeUnitKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for unit, grams := range m {
		out[NormalizeUnit(unit)] = grams
	}
	return out
}
