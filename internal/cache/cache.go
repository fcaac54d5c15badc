package cache

import (
	"fmt"
	"time"
)

// Cache 查询结果缓存接口
// 缓存序列化后的检索响应，键由语料加载ID、查询和topK共同决定
type Cache interface {
	Get(key string) (value string, found bool, err error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Factory 缓存工厂函数类型
type Factory func(config Config) (Cache, error)

// 注册的缓存实现
var registry = make(map[string]Factory)

// RegisterCache 注册缓存实现
func RegisterCache(name string, factory Factory) {
	registry[name] = factory
}

// NewCache 创建缓存实例
func NewCache(config Config) (Cache, error) {
	if factory, ok := registry[config.Type]; ok {
		return factory(config)
	}
	// 默认使用内存缓存
	return NewMemoryCache(config)
}

// Config 缓存配置
type Config struct {
	// 缓存类型: "memory", "redis"
	Type string
	// Redis连接地址 (仅Redis缓存使用)
	RedisAddr string
	// Redis密码 (仅Redis缓存使用)
	RedisPassword string
	// Redis数据库编号 (仅Redis缓存使用)
	RedisDB int
	// 默认缓存过期时间
	DefaultTTL time.Duration
	// 自动清理间隔时间 (仅内存缓存使用)
	CleanupInterval time.Duration
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute * 10,
	}
}

// RetrievalKey 生成检索结果的缓存键
// 包含加载ID：语料重载后旧缓存键自然失效，不会串用到新索引
func RetrievalKey(loadID, query string, topK int) string {
	return fmt.Sprintf("retrieval:%s:%d:%s", loadID, topK, query)
}

// ContextKey 生成上下文拼装结果的缓存键
func ContextKey(loadID, query string) string {
	return fmt.Sprintf("context:%s:%s", loadID, query)
}
