package book

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiebiao/bookdash/internal/domain/book"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// fakeRepo 内存版远端集合
type fakeRepo struct {
	mu        sync.Mutex
	books     []*book.Book
	nextID    int
	failNext  error
	listCalls atomic.Int32
	listDelay time.Duration
	listGate  chan struct{} // 非nil时List阻塞到关闭或ctx取消
}

func newFakeRepo(books ...*book.Book) *fakeRepo {
	return &fakeRepo{books: books, nextID: len(books) + 1}
}

func (r *fakeRepo) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *fakeRepo) List(ctx context.Context) ([]*book.Book, error) {
	r.listCalls.Add(1)
	if r.listDelay > 0 {
		time.Sleep(r.listDelay)
	}
	if r.listGate != nil {
		select {
		case <-r.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	out := make([]*book.Book, len(r.books))
	for i, b := range r.books {
		c := *b
		out[i] = &c
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, d book.Draft) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	b := stored(fmt.Sprint(r.nextID), d)
	r.nextID++
	r.books = append(r.books, b)
	c := *b
	return &c, nil
}

func (r *fakeRepo) Update(_ context.Context, id string, d book.Draft) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	for _, b := range r.books {
		if b.ID == id {
			*b = *stored(id, d)
			c := *b
			return &c, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	for i, b := range r.books {
		if b.ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return book.ErrBookNotFound
}

func (r *fakeRepo) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

// fakePublisher 记录事件
type fakePublisher struct {
	mu     sync.Mutex
	events []book.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e book.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

// failingCache 模拟Redis故障
type failingCache struct{}

func (failingCache) Get(context.Context) ([]*book.Book, bool, error) {
	return nil, false, apperrors.ErrRedisError
}
func (failingCache) Set(context.Context, []*book.Book) error { return apperrors.ErrRedisError }
func (failingCache) Invalidate(context.Context) error       { return apperrors.ErrRedisError }

var errRemote = apperrors.ErrRemoteError.WithCause(fmt.Errorf("status 500"))

func seedBooks(n int) []*book.Book {
	books := make([]*book.Book, n)
	for i := range books {
		books[i] = &book.Book{
			ID:     fmt.Sprint(i + 1),
			Title:  fmt.Sprintf("Book %02d", i+1),
			Author: "Author",
			Genre:  book.GenreFiction,
			Year:   2000,
			Status: book.StatusAvailable,
		}
	}
	return books
}

func dune() book.Draft {
	return book.Draft{Title: "Dune", Author: "Frank Herbert", Genre: book.GenreSciFi, Year: 1965, Status: book.StatusAvailable}
}

// stored 远端保存表单后的记录(整体替换,ID不变)
func stored(id string, d book.Draft) *book.Book {
	d = d.Normalize()
	return &book.Book{ID: id, Title: d.Title, Author: d.Author, Genre: d.Genre, Year: d.Year, Status: d.Status}
}
