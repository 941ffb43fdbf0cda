package remote

import (
	"context"
	"net/http"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// BookRepository 基于远端REST集合的图书仓储
type BookRepository struct {
	client *Client
}

// NewBookRepository 创建图书仓储
func NewBookRepository(client *Client) book.Repository {
	return &BookRepository{client: client}
}

// List GET {base}/book
func (r *BookRepository) List(ctx context.Context) ([]*book.Book, error) {
	var books []*book.Book
	if err := r.client.do(ctx, "list", http.MethodGet, "", nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []*book.Book{}
	}
	return books, nil
}

// Create POST {base}/book
func (r *BookRepository) Create(ctx context.Context, draft book.Draft) (*book.Book, error) {
	var created book.Book
	if err := r.client.do(ctx, "create", http.MethodPost, "", draft.Normalize(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update PUT {base}/book/{id}
func (r *BookRepository) Update(ctx context.Context, id string, draft book.Draft) (*book.Book, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var updated book.Book
	if err := r.client.do(ctx, "update", http.MethodPut, id, draft.Normalize(), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete DELETE {base}/book/{id}
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.client.do(ctx, "delete", http.MethodDelete, id, nil, nil)
}

// checkID "."和".."经路径清理后会指向集合本身或上级,不可能是记录ID
func checkID(id string) error {
	switch id {
	case "":
		return book.ErrMissingID
	case ".", "..":
		return book.ErrBookNotFound
	}
	return nil
}
