package book

import (
	"context"
)

// Repository 图书集合仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(远端REST接口)
// 2. 每个方法对应一个HTTP动词,不重试、不补偿
// 3. 任何非2xx响应或网络错误都以error返回,由调用方决定如何提示用户
type Repository interface {
	// List 拉取全部图书(GET /book)
	List(ctx context.Context) ([]*Book, error)

	// Create 新增图书,ID由远端分配(POST /book)
	Create(ctx context.Context, draft Draft) (*Book, error)

	// Update 整体更新图书(PUT /book/{id})
	Update(ctx context.Context, id string, draft Draft) (*Book, error)

	// Delete 删除图书(DELETE /book/{id})
	Delete(ctx context.Context, id string) error
}

// SnapshotCache 图书集合快照缓存
// 相当于前端查询库的缓存:读列表先查快照,写操作成功后失效并重新拉取
type SnapshotCache interface {
	// Get 读取快照,未命中返回(nil, false, nil)
	Get(ctx context.Context) ([]*Book, bool, error)

	// Set 写入快照
	Set(ctx context.Context, books []*Book) error

	// Invalidate 失效快照
	Invalidate(ctx context.Context) error
}

// EventPublisher 图书变更事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventType 事件类型(同时作为MQ的routing key)
type EventType string

const (
	EventCreated EventType = "book.created"
	EventUpdated EventType = "book.updated"
	EventDeleted EventType = "book.deleted"
)

// Event 图书变更事件
type Event struct {
	Type   EventType `json:"type"`
	BookID string    `json:"book_id"`
	Title  string    `json:"title,omitempty"`
}
