package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookdash/internal/domain/book"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// SnapshotCache Redis图书快照缓存
// 设计说明：
// 1. 整个集合序列化为一个JSON值，Key：{prefix}:snapshot:books
// 2. 多个仪表盘实例共享同一份快照，任一实例写入后失效即对所有实例生效
// 3. TTL兜底，防止远端被其他客户端修改后长期读到旧数据
type SnapshotCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSnapshotCache 创建Redis快照缓存
func NewSnapshotCache(client *redis.Client, prefix string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		key:    key(prefix, "snapshot", "books"),
		ttl:    ttl,
	}
}

// Get 读取快照
func (c *SnapshotCache) Get(ctx context.Context) ([]*book.Book, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.ErrRedisError.WithCause(err)
	}

	var books []*book.Book
	if err := json.Unmarshal(data, &books); err != nil {
		// 格式损坏按未命中处理，下次Set覆盖
		return nil, false, nil
	}
	if books == nil {
		books = []*book.Book{}
	}
	return books, true, nil
}

// Set 写入快照
func (c *SnapshotCache) Set(ctx context.Context, books []*book.Book) error {
	if books == nil {
		books = []*book.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return apperrors.Wrap(err, "序列化图书快照失败")
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Invalidate 失效快照
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}
