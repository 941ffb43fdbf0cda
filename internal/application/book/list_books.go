package book

import (
	"context"

	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/domain/listing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 过滤和分页在本地完成(远端只提供整个集合)
// 2. 页码越界时夹到最后一页;派生流水线本身不做夹取
type ListBooksUseCase struct {
	snapshot *Snapshot
	pageSize int
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(snapshot *Snapshot, pageSize int) *ListBooksUseCase {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &ListBooksUseCase{snapshot: snapshot, pageSize: pageSize}
}

// PageSize 默认每页条数
func (uc *ListBooksUseCase) PageSize() int {
	return uc.pageSize
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Search   string
	Genre    string // 空表示全部
	Status   string // 空表示全部
	Page     int    // 从1开始
	PageSize int    // 0使用默认值,最大100
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	Page listing.Page
	View listing.ViewState // 实际生效的视图状态(页码已夹取)
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 解析过滤条件
	genre, err := book.ParseGenre(req.Genre)
	if err != nil {
		return nil, err
	}
	status, err := book.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	view := listing.NewViewState().
		WithSearch(req.Search).
		WithGenre(genre).
		WithStatus(status).
		WithPage(req.Page)

	return uc.ExecuteView(ctx, view, req.PageSize)
}

// ExecuteView 按已有视图状态查询(仪表盘使用)
func (uc *ListBooksUseCase) ExecuteView(ctx context.Context, view listing.ViewState, pageSize int) (*ListBooksResponse, error) {
	// 1. 每页条数
	if pageSize <= 0 {
		pageSize = uc.pageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}

	// 2. 读取集合
	books, err := uc.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 3. 派生当前页,越界则夹取后重新派生
	page := listing.Derive(books, view, pageSize)
	if clamped := listing.ClampPage(view.Page, page.TotalPages); clamped != view.Page {
		view = view.WithPage(clamped)
		page = listing.Derive(books, view, pageSize)
	}

	return &ListBooksResponse{Page: page, View: view}, nil
}
