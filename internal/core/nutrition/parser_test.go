package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		line string
		want IngredientLine
	}{
		{"2 cups flour", IngredientLine{Name: "flour", Quantity: 2, Unit: "cup"}},
		{"1 1/2 cups sugar", IngredientLine{Name: "sugar", Quantity: 1.5, Unit: "cup"}},
		{"3 large eggs", IngredientLine{Name: "eggs", Quantity: 3, Unit: UnitPiece}},
		{"1/2 tsp salt", IngredientLine{Name: "salt", Quantity: 0.5, Unit: "tsp"}},
		{"0.25 lb ground beef", IngredientLine{Name: "ground beef", Quantity: 0.25, Unit: "lb"}},
		{"2 Tablespoons Olive Oil", IngredientLine{Name: "Olive Oil", Quantity: 2, Unit: "tbsp"}},
		{"500 g chicken breast", IngredientLine{Name: "chicken breast", Quantity: 500, Unit: "g"}},
		{"2 garlic cloves", IngredientLine{Name: "garlic cloves", Quantity: 2, Unit: UnitPiece}},
		{"  1 medium onion  ", IngredientLine{Name: "onion", Quantity: 1, Unit: UnitPiece}},
		{"salt and pepper to taste", IngredientLine{Name: "salt and pepper to taste", Quantity: 1, Unit: UnitPiece}},
		{"1/0 cup milk", IngredientLine{Name: "milk", Quantity: 1, Unit: "cup"}},
		{"", IngredientLine{Name: "", Quantity: 1, Unit: UnitPiece}},
		{"0 cups sugar", IngredientLine{Name: "sugar", Quantity: 0, Unit: "cup"}},
		{"2 onions", IngredientLine{Name: "onions", Quantity: 2, Unit: UnitPiece}},
		{"1 lb. ground beef", IngredientLine{Name: "ground beef", Quantity: 1, Unit: "lb"}},
		{"2 tbsp. honey", IngredientLine{Name: "honey", Quantity: 2, Unit: "tbsp"}},
		{"½ cup milk", IngredientLine{Name: "milk", Quantity: 0.5, Unit: "cup"}},
		{"1½ cups sugar", IngredientLine{Name: "sugar", Quantity: 1.5, Unit: "cup"}},
		{"2 ¾ cups water", IngredientLine{Name: "water", Quantity: 2.75, Unit: "cup"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredient(tt.line)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.InDelta(t, tt.want.Quantity, got.Quantity, 1e-9)
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "cup", NormalizeUnit("Cups"))
	assert.Equal(t, "tbsp", NormalizeUnit("tablespoon"))
	assert.Equal(t, "ml", NormalizeUnit(" millilitres "))
	assert.Equal(t, UnitPiece, NormalizeUnit("pieces"))
	assert.Equal(t, "pinch", NormalizeUnit("Pinch"))
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 2.0, parseQuantity("2"))
	assert.Equal(t, 0.75, parseQuantity("3/4"))
	assert.Equal(t, 2.5, parseQuantity("2 1/2"))
	assert.Equal(t, 1.0, parseQuantity(""))
	assert.Equal(t, 1.0, parseQuantity("1 2 3"))
}

func TestParseLineAbbreviatedUnit(t *testing.T) {
	c := NewCalculator()
	assert.InDelta(t, 453.6, c.ParseLine("1 lb. ground beef").Grams, 1e-9)
	assert.InDelta(t, 60.0, c.ParseLine("½ cup flour").Grams, 1e-9)
}
