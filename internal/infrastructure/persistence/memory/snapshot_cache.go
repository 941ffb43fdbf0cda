package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// SnapshotCache 进程内图书快照缓存(单实例部署)
type SnapshotCache struct {
	mu      sync.RWMutex
	books   []*book.Book
	expires time.Time
	valid   bool
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshotCache 创建进程内快照缓存,ttl<=0表示不过期
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

// Get 读取快照(返回切片副本)
func (c *SnapshotCache) Get(_ context.Context) ([]*book.Book, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || (c.ttl > 0 && !c.now().Before(c.expires)) {
		return nil, false, nil
	}
	return append([]*book.Book{}, c.books...), true, nil
}

// Set 写入快照
func (c *SnapshotCache) Set(_ context.Context, books []*book.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = append([]*book.Book{}, books...)
	c.valid = true
	c.expires = c.now().Add(c.ttl)
	return nil
}

// Invalidate 失效快照
func (c *SnapshotCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = nil
	c.valid = false
	return nil
}
