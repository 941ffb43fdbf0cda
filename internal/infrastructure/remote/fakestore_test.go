package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// fakeStore 模拟mockapi.io的/book集合
type fakeStore struct {
	mu      sync.Mutex
	books   []map[string]interface{}
	nextID  int
	fail    int // >0时返回该状态码
	headers []http.Header
	uris    []string
	calls   int
}

func newFakeStore(t *testing.T, seed ...map[string]interface{}) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{books: seed, nextID: len(seed) + 1}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.calls++
	fs.headers = append(fs.headers, r.Header.Clone())
	fs.uris = append(fs.uris, r.Method+" "+r.RequestURI)

	if fs.fail > 0 {
		http.Error(w, `"upstream broke"`, fs.fail)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/books/book")
	id := strings.TrimPrefix(rest, "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, fs.books)

	case r.Method == http.MethodPost && id == "":
		var rec map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = strconv.Itoa(fs.nextID)
		fs.nextID++
		fs.books = append(fs.books, rec)
		writeJSON(w, http.StatusCreated, rec)

	case r.Method == http.MethodPut && id != "":
		i := fs.index(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, "Not found")
			return
		}
		var rec map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = id
		fs.books[i] = rec
		writeJSON(w, http.StatusOK, rec)

	case r.Method == http.MethodDelete && id != "":
		i := fs.index(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, "Not found")
			return
		}
		rec := fs.books[i]
		fs.books = append(fs.books[:i], fs.books[i+1:]...)
		writeJSON(w, http.StatusOK, rec)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (fs *fakeStore) index(id string) int {
	for i, b := range fs.books {
		if b["id"] == id {
			return i
		}
	}
	return -1
}

func (fs *fakeStore) setFail(code int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fail = code
}

func (fs *fakeStore) callCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.calls
}

func (fs *fakeStore) requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.uris...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func record(id, title, author string, genre book.Genre, year interface{}, status book.Status) map[string]interface{} {
	return map[string]interface{}{
		"id":     id,
		"title":  title,
		"author": author,
		"genre":  string(genre),
		"year":   year,
		"status": string(status),
	}
}
