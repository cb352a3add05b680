package nutrition

import (
	"context"
	"strings"
	"unicode"
)

// Categorizer 將食材名稱分類的外部協作者
type Categorizer interface {
	Categorize(name string) Category
}

// ContextCategorizer 可感知請求生命週期的分類器
// 請求取消後應立即回傳，不再進行外部呼叫
type ContextCategorizer interface {
	Categorizer
	CategorizeContext(ctx context.Context, name string) Category
}

// CategorizerFunc 讓一般函式實作 Categorizer
type CategorizerFunc func(name string) Category

// Categorize 實作 Categorizer
func (f CategorizerFunc) Categorize(name string) Category {
	return f(name)
}

// categoryKeywords keywords 以子字串比對；words 是容易出現在其他單字中的短字，
// 只比對完整單字（允許 s/es 複數）
type categoryKeywords struct {
	category Category
	keywords []string
	words    []string
}

// 肉類優先判斷，避免含肉食材被誤判為蔬果而標成 Vegan
// 植物性乳品替代品排在蔬果與乳製品之前
var defaultCategoryKeywords = []categoryKeywords{
	{category: CategoryMeat, keywords: []string{
		"chicken", "beef", "pork", "turkey", "bacon", "sausage", "steak", "meat",
		"fish", "salmon", "tuna", "tilapia", "trout", "anchovy",
		"shrimp", "prawn", "crab", "lobster", "mussel", "oyster", "scallop",
	}, words: []string{"ham", "lamb", "cod", "clam"}},
	{category: CategoryPantry, keywords: []string{
		"peanut", "almond milk", "soy milk", "oat milk", "rice milk", "coconut milk", "coconut cream",
		"almond butter", "nut butter", "cocoa butter",
	}},
	{category: CategoryProduce, keywords: []string{
		"apple", "banana", "orange", "lemon", "berry", "berries", "grape", "mango",
		"peach", "avocado", "coconut", "tomato", "potato", "onion", "garlic", "carrot", "broccoli",
		"spinach", "lettuce", "kale", "cabbage", "pepper", "cucumber", "zucchini", "squash",
		"eggplant", "mushroom", "celery", "ginger", "herb", "basil", "cilantro", "parsley",
	}, words: []string{"pea", "corn", "lime", "pear"}},
	{category: CategoryDairy, keywords: []string{"milk", "cheese", "butter", "cream", "yogurt", "whey", "egg"}},
	{category: CategoryPantry, keywords: []string{
		"flour", "sugar", "rice", "pasta", "oatmeal", "noodle", "bread", "quinoa", "bean", "lentil",
		"oil", "vinegar", "salt", "spice", "sauce", "honey", "syrup", "almond", "walnut", "pecan",
		"cashew", "cereal", "cracker", "tofu", "soy", "stock", "broth",
	}, words: []string{"oat", "nut"}},
}

// KeywordCategorizer 以關鍵字判斷食材分類，結果固定可重現
type KeywordCategorizer struct{}

// NewKeywordCategorizer 建立關鍵字分類器
func NewKeywordCategorizer() *KeywordCategorizer {
	return &KeywordCategorizer{}
}

// Categorize 實作 Categorizer
func (KeywordCategorizer) Categorize(name string) Category {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return CategoryOther
	}
	tokens := tokenize(n)
	for _, group := range defaultCategoryKeywords {
		if containsAny(n, group.keywords) || hasWord(tokens, group.words) {
			return group.category
		}
	}
	return CategoryOther
}

// tokenize 依非字母數字切開
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hasWord 任一 token 等於 word 或其 s/es 複數
func hasWord(tokens, words []string) bool {
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w || tok == w+"s" || tok == w+"es" {
				return true
			}
		}
	}
	return false
}
