package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryCache 测试内存缓存实现
func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(DefaultConfig())
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		err := c.Set("key1", "value1", time.Minute)
		require.NoError(t, err)

		value, found, err := c.Get("key1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "value1", value)
	})

	t.Run("missing key", func(t *testing.T) {
		_, found, err := c.Get("missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("key2", "value2", time.Minute))
		require.NoError(t, c.Delete("key2"))

		_, found, _ := c.Get("key2")
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set("key3", "value3", time.Minute))
		require.NoError(t, c.Clear())

		_, found, _ := c.Get("key3")
		assert.False(t, found)
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, c.Set("short", "lived", 30*time.Millisecond))
		time.Sleep(60 * time.Millisecond)

		_, found, _ := c.Get("short")
		assert.False(t, found, "过期的缓存项不应该命中")
	})
}

// TestRedisCache 测试Redis缓存实现
func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Type:      "redis",
		RedisAddr: mr.Addr(),
	})
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set("retrieval:abc:5:consulta", `[{"score":0.5}]`, time.Minute))

		value, found, err := c.Get("retrieval:abc:5:consulta")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"score":0.5}]`, value)
	})

	t.Run("missing key", func(t *testing.T) {
		_, found, err := c.Get("missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, c.Set("short", "lived", time.Second))
		mr.FastForward(2 * time.Second)

		_, found, _ := c.Get("short")
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("apagar", "valor", time.Minute))
		require.NoError(t, c.Delete("apagar"))

		_, found, _ := c.Get("apagar")
		assert.False(t, found)
	})

	t.Run("unreachable server rejected at construction", func(t *testing.T) {
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		_, err := NewRedisCache(Config{Type: "redis", RedisAddr: addr})
		assert.Error(t, err, "连接检查应该在创建时失败而不是首次读取时")
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set("key", "value", time.Minute))
		require.NoError(t, c.Clear())

		_, found, _ := c.Get("key")
		assert.False(t, found)
	})
}

// TestNewCache 测试缓存工厂
func TestNewCache(t *testing.T) {
	t.Run("memory cache by type", func(t *testing.T) {
		c, err := NewCache(Config{Type: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryCache{}, c)
	})

	t.Run("unknown type falls back to memory", func(t *testing.T) {
		c, err := NewCache(Config{Type: "unknown"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryCache{}, c)
	})
}

// TestCacheKeys 测试缓存键生成
func TestCacheKeys(t *testing.T) {
	key := RetrievalKey("load-1", "minha consulta", 5)
	assert.Equal(t, "retrieval:load-1:5:minha consulta", key)

	// 不同加载批次的键互不冲突
	assert.NotEqual(t, RetrievalKey("load-1", "q", 5), RetrievalKey("load-2", "q", 5))

	assert.Equal(t, "context:load-1:minha consulta", ContextKey("load-1", "minha consulta"))
}
