package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/application/dashboard"
	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/internal/infrastructure/events"
	"github.com/xiebiao/bookdash/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookdash/internal/interface/http/handler"
	"github.com/xiebiao/bookdash/internal/interface/http/middleware"
	"github.com/xiebiao/bookdash/internal/interface/http/router"
	"github.com/xiebiao/bookdash/pkg/jwt"
	"github.com/xiebiao/bookdash/pkg/logger"
)

// memRepo 内存版远端集合
type memRepo struct {
	mu     sync.Mutex
	books  []*book.Book
	nextID int
	fail   error
}

func newMemRepo(n int) *memRepo {
	r := &memRepo{}
	genres := book.Genres()
	statuses := book.Statuses()
	for i := 0; i < n; i++ {
		r.nextID++
		r.books = append(r.books, &book.Book{
			ID:     fmt.Sprint(r.nextID),
			Title:  fmt.Sprintf("Book %02d", i+1),
			Author: fmt.Sprintf("Author %d", i%3),
			Genre:  genres[i%len(genres)],
			Year:   book.Year(1950 + i),
			Status: statuses[i%len(statuses)],
		})
	}
	return r
}

func (r *memRepo) List(context.Context) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, d book.Draft) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	r.nextID++
	b := stored(fmt.Sprint(r.nextID), d)
	r.books = append(r.books, b)
	c := *b
	return &c, nil
}

func (r *memRepo) Update(_ context.Context, id string, d book.Draft) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
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

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for i, b := range r.books {
		if b.ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return book.ErrBookNotFound
}

func (r *memRepo) setFail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *memRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books)
}

func (r *memRepo) find(id string) *book.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			c := *b
			return &c
		}
	}
	return nil
}

type testServer struct {
	repo   *memRepo
	engine *gin.Engine
}

// newTestServer 与生产相同的路由和中间件,远端换成内存集合
func newTestServer(t *testing.T, n int, settle time.Duration) *testServer {
	t.Helper()

	log := logger.Nop()
	repo := newMemRepo(n)

	snapshot := appbook.NewSnapshot(repo, memory.NewSnapshotCache(time.Minute), log)
	list := appbook.NewListBooksUseCase(snapshot, 10)
	add := appbook.NewAddBookUseCase(repo, snapshot, events.NopPublisher{}, log)
	update := appbook.NewUpdateBookUseCase(repo, snapshot, events.NopPublisher{}, log)
	del := appbook.NewDeleteBookUseCase(repo, snapshot, events.NopPublisher{}, log)

	coord := dashboard.NewCoordinator(memory.NewSessionStore(time.Hour), snapshot, list, add, update, del,
		dashboard.Options{PageSize: 10, SettleDelay: settle}, log)
	sessions := middleware.NewSessionMiddleware(jwt.NewManager("test-secret", time.Hour, time.Minute), false)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		CORS:   config.CORSConfig{Enabled: true, AllowOrigins: []string{"*"}},
	}
	engine, err := router.New(cfg, log,
		handler.NewBookHandler(list, add, update, del),
		handler.NewDashboardHandler(coord, sessions),
		sessions,
	)
	require.NoError(t, err)

	return &testServer{repo: repo, engine: engine}
}

// browser 带Cookie的客户端
type browser struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func (s *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, engine: s.engine, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

// page 打开仪表盘并返回HTML
func (b *browser) page() string {
	b.t.Helper()
	w := b.get("/")
	require.Equal(b.t, http.StatusOK, w.Code)
	return w.Body.String()
}

// rows 表格行数(每行一个编辑按钮)
func rows(html string) int {
	return strings.Count(html, `title="Edit"`)
}

// apiResponse 统一响应结构
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) apiResponse {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "JSON API始终返回200")

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// stored 远端保存表单后的记录(整体替换,ID不变)
func stored(id string, d book.Draft) *book.Book {
	d = d.Normalize()
	return &book.Book{ID: id, Title: d.Title, Author: d.Author, Genre: d.Genre, Year: d.Year, Status: d.Status}
}
