package listing

import (
	"strings"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// Page 派生结果
type Page struct {
	Items      []*book.Book // 当前页记录
	Filtered   int          // 过滤后的记录数
	Total      int          // 源集合记录数
	Page       int          // 请求的页码(原样返回)
	PageSize   int          // 每页条数
	TotalPages int          // 总页数,无结果时为0
}

// Empty 过滤后没有任何记录
func (p Page) Empty() bool {
	return p.Filtered == 0
}

// HasPagination 超过一页才需要分页条
func (p Page) HasPagination() bool {
	return p.TotalPages > 1
}

// Filter 按搜索词、类型、状态过滤
//
// 规则:
// 1. 搜索词非空时,标题或作者包含搜索词(不区分大小写)
// 2. 类型、状态非空时精确匹配
// 3. 条件之间是AND关系
//
// 返回新切片,保持源集合顺序,不修改源集合。
func Filter(books []*book.Book, v ViewState) []*book.Book {
	needle := strings.ToLower(v.Search)

	out := make([]*book.Book, 0, len(books))
	for _, b := range books {
		if b == nil {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			continue
		}
		if v.Genre != "" && b.Genre != v.Genre {
			continue
		}
		if v.Status != "" && b.Status != v.Status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// TotalPages ceil(n / pageSize),n为0时返回0
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Derive 过滤并切出当前页
//
// 页码超出范围时返回空页,不做修正;是否修正由调用方决定(ClampPage)。
func Derive(books []*book.Book, v ViewState, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := Filter(books, v)
	p := Page{
		Items:      []*book.Book{},
		Filtered:   len(filtered),
		Total:      len(books),
		Page:       v.Page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(filtered), pageSize),
	}

	start := (v.Page - 1) * pageSize
	if v.Page < 1 || start >= len(filtered) {
		return p
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Items = filtered[start:end]
	return p
}

// ClampPage 把页码修正到[1, totalPages]内,无结果时为1
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
