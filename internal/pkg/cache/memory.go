package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache 进程内临时存储，Redis 不可用时使用
// 容量受限，超出后按 LRU 淘汰；每个 key 另有独立过期时间
type MemoryCache struct {
	mu         sync.Mutex
	lru        *expirable.LRU[string, memoryEntry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache 创建进程内临时存储
func NewMemoryCache(size int, defaultTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = 10000
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	// LRU 只负责容量淘汰，单条过期由 memoryEntry 判断
	return &MemoryCache{
		lru:        expirable.NewLRU[string, memoryEntry](size, nil, 0),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (c *MemoryCache) load(key string) (memoryEntry, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(c.now()) {
		c.lru.Remove(key)
		return memoryEntry{}, false
	}
	return e, true
}

// Set 设置缓存
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, memoryEntry{data: data, expiresAt: c.now().Add(ttl)})
	return nil
}

// Get 获取缓存
func (c *MemoryCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	e, ok := c.load(key)
	c.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(e.data, dest)
}

// Delete 删除缓存
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.lru.Remove(k)
	}
	return nil
}

// Exists 检查 key 是否存在
func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.load(key)
	return ok, nil
}

// Incr 计数器自增
func (c *MemoryCache) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	e, ok := c.load(key)
	if ok {
		if err := json.Unmarshal(e.data, &n); err != nil {
			return 0, err
		}
	} else {
		e = memoryEntry{expiresAt: c.now().Add(window)}
	}
	n++

	data, err := json.Marshal(n)
	if err != nil {
		return 0, err
	}
	e.data = data
	c.lru.Add(key, e)
	return n, nil
}

// Ping 进程内存储始终可用
func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

// Close 清空数据
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	return nil
}

// Name 存储类型
func (c *MemoryCache) Name() string {
	return "memory"
}
