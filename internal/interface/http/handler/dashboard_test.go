package handler_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookdash/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

func bookForm(title, author, genre, year, status string) url.Values {
	return url.Values{
		"title":  {title},
		"author": {author},
		"genre":  {genre},
		"year":   {year},
		"status": {status},
	}
}

func assertRedirectHome(t *testing.T, code int, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/", location)
}

func TestDashboard_InitialRender(t *testing.T) {
	srv := newTestServer(t, 15, 0)
	b := srv.browser(t)

	html := b.page()

	assert.Contains(t, html, "Book Dashboard")
	assert.Contains(t, html, "+ Add Book")
	assert.Equal(t, 10, rows(html))
	assert.Contains(t, html, `href="/page/2"`)
	assert.Contains(t, html, "chip chip-ok")
	assert.Contains(t, html, "chip chip-bad")
	assert.Contains(t, b.cookies, middleware.SessionCookie, "首次访问签发会话")
}

func TestDashboard_EmptyCollection(t *testing.T) {
	srv := newTestServer(t, 0, 0)
	html := srv.browser(t).page()

	assert.Contains(t, html, "No books found")
	assert.Contains(t, html, "Try adding your book!")
	assert.NotContains(t, html, `class="pagination"`)
}

func TestDashboard_SinglePageHasNoPagination(t *testing.T) {
	srv := newTestServer(t, 10, 0)
	html := srv.browser(t).page()

	assert.Equal(t, 10, rows(html))
	assert.NotContains(t, html, `class="pagination"`)
}

func TestDashboard_SearchResetsPage(t *testing.T) {
	srv := newTestServer(t, 15, 0)
	b := srv.browser(t)

	w := b.get("/page/2")
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))
	assert.Equal(t, 5, rows(b.page()))

	w = b.post("/search", url.Values{"search": {"BOOK 1"}})
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html := b.page()
	assert.Equal(t, 6, rows(html), "Book 10-15")
	assert.Contains(t, html, `value="BOOK 1"`)
	assert.NotContains(t, html, `class="pagination"`)
}

func TestDashboard_SettleDelayShowsLoader(t *testing.T) {
	srv := newTestServer(t, 15, time.Minute)
	b := srv.browser(t)

	b.post("/search", url.Values{"search": {"book"}})
	html := b.page()

	assert.Contains(t, html, "Please wait!")
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.Equal(t, 0, rows(html))
}

func TestDashboard_FilterByGenreAndStatus(t *testing.T) {
	srv := newTestServer(t, 15, 0)
	b := srv.browser(t)

	b.post("/filter", url.Values{"genre": {"Sci-Fi"}, "status": {""}})
	assert.Equal(t, 4, rows(b.page()), "第3、7、11、15本")

	b.post("/filter", url.Values{"genre": {"Sci-Fi"}, "status": {"Issued"}})
	html := b.page()
	assert.Equal(t, 0, rows(html), "Sci-Fi的几本都是Available")
	assert.Contains(t, html, "No books found")
	assert.Contains(t, html, `<option value="Sci-Fi" selected>`)
	assert.Contains(t, html, `<option value="Issued" selected>`)

	b.post("/filter", url.Values{"genre": {""}, "status": {""}})
	assert.Equal(t, 10, rows(b.page()))
}

func TestDashboard_InvalidFilterShowsError(t *testing.T) {
	srv := newTestServer(t, 3, 0)
	b := srv.browser(t)

	w := b.post("/filter", url.Values{"genre": {"Horror"}})
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html := b.page()
	assert.Contains(t, html, "Unknown genre")
	assert.Equal(t, 3, rows(html))
}

func TestDashboard_PageOutOfRangeIsClamped(t *testing.T) {
	srv := newTestServer(t, 15, 0)
	b := srv.browser(t)

	b.get("/page/9")
	assert.Equal(t, 5, rows(b.page()))

	b.get("/page/abc")
	assert.Equal(t, 10, rows(b.page()))
}

func TestDashboard_AddBook(t *testing.T) {
	srv := newTestServer(t, 3, 0)
	b := srv.browser(t)

	b.get("/books/new")
	html := b.page()
	assert.Contains(t, html, "<h2>Add Book</h2>")

	w := b.post("/books", bookForm("Dune", "Frank Herbert", "Sci-Fi", "1965", "Available"))
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html = b.page()
	assert.Contains(t, html, "Book added successfully")
	assert.Contains(t, html, "Dune")
	assert.NotContains(t, html, "<h2>Add Book</h2>", "提交后关闭表单")
	assert.Equal(t, 4, srv.repo.len())

	assert.NotContains(t, b.page(), "Book added successfully", "提示只显示一次")
}

func TestDashboard_SubmitValidationKeepsFormOpen(t *testing.T) {
	srv := newTestServer(t, 3, 0)
	b := srv.browser(t)

	b.get("/books/new")
	w := b.post("/books", bookForm("Half Written", "", "", "", "Available"))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "<h2>Add Book</h2>")
	assert.Contains(t, html, "Please fill in all required fields")
	assert.Contains(t, html, `value="Half Written"`)
	assert.Equal(t, 3, srv.repo.len(), "校验失败不调用远端")
}

func TestDashboard_AddFailureClosesFormWithErrorNotice(t *testing.T) {
	srv := newTestServer(t, 3, 0)
	b := srv.browser(t)
	b.page() // 预热快照

	b.get("/books/new")
	srv.repo.setFail(apperrors.ErrRemoteError)
	w := b.post("/books", bookForm("Dune", "Frank Herbert", "Sci-Fi", "1965", "Available"))
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html := b.page()
	assert.Contains(t, html, "Failed to add book")
	assert.NotContains(t, html, "<h2>Add Book</h2>")
	assert.Equal(t, 3, rows(html))
}

func TestDashboard_EditBook(t *testing.T) {
	srv := newTestServer(t, 5, 0)
	b := srv.browser(t)

	b.get("/books/3/edit")
	html := b.page()
	assert.Contains(t, html, "<h2>Edit Book</h2>")
	assert.Contains(t, html, `value="Book 03"`)

	b.post("/books", bookForm("Book 03 (2nd ed.)", "Author 2", "Sci-Fi", "1999", "Issued"))

	html = b.page()
	assert.Contains(t, html, "Book updated successfully")
	assert.Contains(t, html, "Book 03 (2nd ed.)")
	assert.Equal(t, 5, srv.repo.len())
	assert.Equal(t, "Book 03 (2nd ed.)", srv.repo.find("3").Title)
}

func TestDashboard_EditMissingBook(t *testing.T) {
	srv := newTestServer(t, 2, 0)
	b := srv.browser(t)

	w := b.get("/books/999/edit")
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html := b.page()
	assert.Contains(t, html, "Book not found")
	assert.NotContains(t, html, "<h2>Edit Book</h2>")
}

func TestDashboard_CloseFormWritesNothing(t *testing.T) {
	srv := newTestServer(t, 2, 0)
	b := srv.browser(t)

	b.get("/books/1/edit")
	b.post("/form/close", nil)

	html := b.page()
	assert.NotContains(t, html, "<h2>Edit Book</h2>")
	assert.Equal(t, "Book 01", srv.repo.find("1").Title)
}

func TestDashboard_DeleteCancelAndConfirm(t *testing.T) {
	srv := newTestServer(t, 11, 0)
	b := srv.browser(t)

	b.get("/books/2/delete")
	html := b.page()
	assert.Contains(t, html, "Are you sure you want to delete this book?")

	b.post("/delete/cancel", nil)
	html = b.page()
	assert.NotContains(t, html, "Are you sure you want to delete this book?")
	assert.Equal(t, 11, srv.repo.len())
	assert.Equal(t, 10, rows(html))

	b.get("/books/2/delete")
	w := b.post("/delete/confirm", nil)
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))

	html = b.page()
	assert.Contains(t, html, "Book deleted")
	assert.Equal(t, 10, srv.repo.len())
	assert.Nil(t, srv.repo.find("2"))
	assert.NotContains(t, html, `class="pagination"`)
}

func TestDashboard_DeleteLastItemOnPageClamps(t *testing.T) {
	srv := newTestServer(t, 11, 0)
	b := srv.browser(t)

	b.get("/page/2")
	b.get("/books/11/delete")
	b.post("/delete/confirm", nil)

	html := b.page()
	assert.Equal(t, 10, rows(html), "第2页已空,回到第1页")
}

func TestDashboard_ConfirmWithoutPendingIsNoop(t *testing.T) {
	srv := newTestServer(t, 2, 0)
	b := srv.browser(t)

	w := b.post("/delete/confirm", nil)
	assertRedirectHome(t, w.Code, w.Header().Get("Location"))
	assert.Equal(t, 2, srv.repo.len())
	assert.NotContains(t, b.page(), `role="status"`)
}

func TestDashboard_SessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, 15, 0)
	alice := srv.browser(t)
	bob := srv.browser(t)

	alice.post("/search", url.Values{"search": {"Book 01"}})

	assert.Equal(t, 1, rows(alice.page()))
	assert.Equal(t, 10, rows(bob.page()))
}

func TestDashboard_TamperedSessionIsReplaced(t *testing.T) {
	srv := newTestServer(t, 1, 0)
	b := srv.browser(t)
	b.cookies[middleware.SessionCookie] = &http.Cookie{Name: middleware.SessionCookie, Value: "forged"}

	w := b.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "forged", b.cookies[middleware.SessionCookie].Value)
}

func TestDashboard_FetchFailureShowsLoader(t *testing.T) {
	srv := newTestServer(t, 3, 0)
	srv.repo.setFail(apperrors.ErrRemoteError)

	html := srv.browser(t).page()

	assert.Contains(t, html, "Please wait!")
	assert.Contains(t, html, `http-equiv="refresh"`)
}
