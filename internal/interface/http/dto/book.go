package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// BookRequest HTTP新增/更新请求
// 必填与枚举校验由领域层Draft.Validate完成,这里只负责绑定
// year同时接受数字和数字字符串
type BookRequest struct {
	Title  string    `json:"title" example:"Dune"`
	Author string    `json:"author" example:"Frank Herbert"`
	Genre  string    `json:"genre" enums:"Fiction,Non-Fiction,Sci-Fi,Other" example:"Sci-Fi"`
	Year   book.Year `json:"year" swaggertype:"integer" example:"1965"`
	Status string    `json:"status" enums:"Available,Issued" example:"Available"`
}

// Draft 转换为领域表单
func (r BookRequest) Draft() book.Draft {
	return book.Draft{
		Title:  r.Title,
		Author: r.Author,
		Genre:  book.Genre(r.Genre),
		Year:   r.Year,
		Status: book.Status(r.Status),
	}
}

// BookForm 仪表盘表单提交(application/x-www-form-urlencoded)
type BookForm struct {
	Title  string `form:"title"`
	Author string `form:"author"`
	Genre  string `form:"genre"`
	Year   string `form:"year"`
	Status string `form:"status"`
}

// Draft 转换为领域表单,年份无法解析时置0(校验时报year字段缺失)
func (f BookForm) Draft() book.Draft {
	year, err := strconv.Atoi(strings.TrimSpace(f.Year))
	if err != nil {
		year = 0
	}
	return book.Draft{
		Title:  f.Title,
		Author: f.Author,
		Genre:  book.Genre(f.Genre),
		Year:   book.Year(year),
		Status: book.Status(f.Status),
	}
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID        string `json:"id" example:"7"`
	Title     string `json:"title" example:"Dune"`
	Author    string `json:"author" example:"Frank Herbert"`
	Genre     string `json:"genre" example:"Sci-Fi"`
	Year      int    `json:"year" example:"1965"`
	Status    string `json:"status" example:"Available"`
	CreatedAt string `json:"created_at,omitempty" example:"2025-09-18 10:30:00"`
}

// NewBookResponse 领域对象转响应
func NewBookResponse(b *book.Book) *BookResponse {
	if b == nil {
		return nil
	}
	resp := &BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Genre:  string(b.Genre),
		Year:   int(b.Year),
		Status: string(b.Status),
	}
	if b.CreatedAt != nil {
		resp.CreatedAt = b.CreatedAt.Format(time.DateTime)
	}
	return resp
}

// NewBookList 批量转换,空集合返回空切片而不是nil
func NewBookList(books []*book.Book) []*BookResponse {
	list := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		list = append(list, NewBookResponse(b))
	}
	return list
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Search   string `form:"search" binding:"omitempty,max=100" example:"tolkien"`
	Genre    string `form:"genre" binding:"omitempty,oneof=Fiction Non-Fiction Sci-Fi Other" example:"Fiction"`
	Status   string `form:"status" binding:"omitempty,oneof=Available Issued" example:"Available"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}

// ListBooksResponse HTTP图书列表响应(swag文档使用)
type ListBooksResponse struct {
	List       []*BookResponse `json:"list"`
	Total      int             `json:"total" example:"15"`
	Overall    int             `json:"overall" example:"42"`
	Page       int             `json:"page" example:"1"`
	PageSize   int             `json:"page_size" example:"10"`
	TotalPages int             `json:"total_pages" example:"2"`
}
