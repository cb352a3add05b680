package cache

import (
	"context"
	"fmt"

	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"
)

// 快取命名空間
const (
	NamespaceRecipe   = "recipe"
	NamespaceCategory = "category"
)

// Store 快取後端
// Get 未命中時回傳 ok=false 且 err=nil
type Store interface {
	Get(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// New 依設定建立快取，停用時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		store, err := NewRedisStore(cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg.Cache), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func storeKey(namespace, key string) string {
	return namespace + ":" + key
}
