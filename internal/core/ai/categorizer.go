package ai

import (
	"context"
	"strings"
	"time"

	"recipe-nutrition/internal/core/ai/openrouter"
	"recipe-nutrition/internal/core/cache"
	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"go.uber.org/zap"
)

const categorizePrompt = `You classify grocery ingredients. Reply with JSON only, in the form {"category": "<value>"}, ` +
	`where <value> is exactly one of: "Produce", "Meat & Seafood", "Dairy", "Pantry", "Other".`

var knownCategories = []nutrition.Category{
	nutrition.CategoryMeat,
	nutrition.CategoryProduce,
	nutrition.CategoryDairy,
	nutrition.CategoryPantry,
	nutrition.CategoryOther,
}

// Completer 聊天模型
type Completer interface {
	Complete(ctx context.Context, messages []openrouter.Message) (string, error)
}

// memoSize 行程內記住的分類數量上限
const memoSize = 10000

// Categorizer 以 AI 判斷食材分類，失敗時退回備援分類器
// 模型回覆的結果會記在有上限的行程內快取，store 可再跨實例共用
type Categorizer struct {
	client   Completer
	store    cache.Store
	fallback nutrition.Categorizer
	timeout  time.Duration
	memo     *cache.CacheManager
}

// NewCategorizer 建立 AI 分類器，store 可為 nil
func NewCategorizer(client Completer, store cache.Store, fallback nutrition.Categorizer, timeout time.Duration) *Categorizer {
	if fallback == nil {
		fallback = nutrition.NewKeywordCategorizer()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Categorizer{
		client:   client,
		store:    store,
		fallback: fallback,
		timeout:  timeout,
		memo:     cache.NewManager(config.CacheConfig{MaxSize: memoSize, TTL: 24 * time.Hour}),
	}
}

// Categorize 實作 nutrition.Categorizer
func (c *Categorizer) Categorize(name string) nutrition.Category {
	return c.CategorizeContext(context.Background(), name)
}

// CategorizeContext 實作 nutrition.ContextCategorizer
// ctx 已取消時不再呼叫模型，直接使用備援分類器
func (c *Categorizer) CategorizeContext(ctx context.Context, name string) nutrition.Category {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if key == "" {
		return nutrition.CategoryOther
	}

	if value, ok, _ := c.memo.Get(ctx, cache.NamespaceCategory, key); ok {
		return nutrition.Category(value)
	}
	if ctx.Err() != nil {
		return c.fallback.Categorize(key)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	category, ok := c.resolve(ctx, key)
	if !ok {
		return c.fallback.Categorize(key)
	}
	_ = c.memo.Set(ctx, cache.NamespaceCategory, key, string(category))
	return category
}

// resolve 依序查共用快取與模型，失敗時回傳 false
func (c *Categorizer) resolve(ctx context.Context, key string) (nutrition.Category, bool) {
	if c.store != nil {
		if value, ok, err := c.store.Get(ctx, cache.NamespaceCategory, key); err == nil && ok {
			if category := nutrition.Category(value); category.Valid() {
				return category, true
			}
		} else if err != nil {
			common.LogWarn("讀取分類快取失敗", zap.Error(err))
		}
	}

	reply, err := c.client.Complete(ctx, []openrouter.Message{
		{Role: "system", Content: categorizePrompt},
		{Role: "user", Content: key},
	})
	if err != nil {
		common.LogWarn("AI 分類失敗，改用關鍵字分類",
			zap.String("ingredient", common.TruncateString(key, 40)),
			zap.Error(err),
		)
		return "", false
	}

	category, ok := ParseCategory(reply)
	if !ok {
		common.LogWarn("AI 分類回覆無法解析，改用關鍵字分類",
			zap.String("ingredient", common.TruncateString(key, 40)),
			zap.String("reply", common.TruncateString(reply, 80)),
		)
		return "", false
	}

	if c.store != nil {
		if err := c.store.Set(ctx, cache.NamespaceCategory, key, string(category)); err != nil {
			common.LogWarn("寫入分類快取失敗", zap.Error(err))
		}
	}
	return category, true
}

// ParseCategory 從模型回覆中取出分類
// 先嘗試 JSON，再退回到在文字中尋找分類名稱
func ParseCategory(reply string) (nutrition.Category, bool) {
	var payload struct {
		Category string `json:"category"`
	}
	if err := common.ParseLooseJSON(reply, &payload); err == nil {
		if category, ok := matchCategory(payload.Category); ok {
			return category, true
		}
	}

	lower := strings.ToLower(reply)
	for _, category := range knownCategories {
		if strings.Contains(lower, strings.ToLower(string(category))) {
			return category, true
		}
	}
	// "Meat" 或 "Seafood" 單獨出現
	if strings.Contains(lower, "meat") || strings.Contains(lower, "seafood") {
		return nutrition.CategoryMeat, true
	}
	return "", false
}

func matchCategory(s string) (nutrition.Category, bool) {
	s = strings.TrimSpace(s)
	for _, category := range knownCategories {
		if strings.EqualFold(s, string(category)) {
			return category, true
		}
	}
	return "", false
}
