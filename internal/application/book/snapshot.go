package book

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/bookdash/internal/domain/book"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
	"github.com/xiebiao/bookdash/pkg/metrics"
)

const snapshotKey = "books"

// Snapshot 图书集合快照
// 设计说明:
// 1. 读: 先查缓存,未命中时拉取远端并回写;并发的未命中合并为一次远端请求(singleflight)
// 2. 写操作成功后调用Refresh:失效缓存并重新拉取,不做本地乐观更新
// 3. 缓存故障只记日志,退化为直接访问远端
type Snapshot struct {
	repo  book.Repository
	cache book.SnapshotCache
	group singleflight.Group
	log   *zap.Logger
}

// NewSnapshot 创建快照加载器
func NewSnapshot(repo book.Repository, cache book.SnapshotCache, log *zap.Logger) *Snapshot {
	metrics.InitMetrics()
	return &Snapshot{repo: repo, cache: cache, log: log}
}

// Load 读取完整集合(远端顺序)
func (s *Snapshot) Load(ctx context.Context) ([]*book.Book, error) {
	// 1. 查缓存
	books, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.IncCounterVec(metrics.SnapshotCacheTotal, map[string]string{"result": metrics.CacheError})
		s.log.Warn("读取图书快照缓存失败", zap.Error(err))
	case ok:
		metrics.IncCounterVec(metrics.SnapshotCacheTotal, map[string]string{"result": metrics.CacheHit})
		return books, nil
	default:
		metrics.IncCounterVec(metrics.SnapshotCacheTotal, map[string]string{"result": metrics.CacheMiss})
	}

	// 2. 合并并发拉取
	return s.fetch(ctx)
}

// Refresh 失效缓存并重新拉取
func (s *Snapshot) Refresh(ctx context.Context) ([]*book.Book, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("失效图书快照缓存失败", zap.Error(err))
	}
	// 写之前发起的拉取结果可能已过期,不能复用
	s.group.Forget(snapshotKey)
	return s.fetch(ctx)
}

// Find 按ID查找记录
func (s *Snapshot) Find(ctx context.Context, id string) (*book.Book, error) {
	books, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		if b != nil && b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

// fetch 合并并发拉取
// 共享拉取不随任一调用方取消,远端客户端自带超时;调用方取消时只是自己提前返回
func (s *Snapshot) fetch(ctx context.Context) ([]*book.Book, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(snapshotKey, func() (interface{}, error) {
		books, err := s.repo.List(shared)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(shared, books); err != nil {
			s.log.Warn("写入图书快照缓存失败", zap.Error(err))
		}
		return books, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.ErrRemoteError.WithCause(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*book.Book), nil
	}
}
