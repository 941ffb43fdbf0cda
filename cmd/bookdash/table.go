package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
)

// 列宽，Title列占用剩余宽度
const (
	colID     = 6
	colAuthor = 24
	colGenre  = 12
	colYear   = 6
	colStatus = 10

	minTitle     = 12
	maxTitle     = 40
	defaultWidth = 120
)

// terminalWidth 非终端（管道、重定向）时使用默认宽度
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// titleWidth 按终端宽度计算Title列宽
func titleWidth(width int) int {
	fixed := colID + colAuthor + colGenre + colYear + colStatus + 5 // 列间空格
	w := width - fixed
	if w < minTitle {
		return minTitle
	}
	if w > maxTitle {
		return maxTitle
	}
	return w
}

// printPage 打印一页图书，空结果打印与页面相同的提示
func printPage(w io.Writer, resp *appbook.ListBooksResponse, width int) {
	page := resp.Page
	if page.Empty() {
		fmt.Fprintln(w, "No books found")
		fmt.Fprintln(w, "Try adding your book!")
		return
	}

	tw := titleWidth(width)
	row := fmt.Sprintf("%%-%ds %%-%ds %%-%ds %%-%ds %%-%ds %%-%ds\n", colID, tw, colAuthor, colGenre, colYear, colStatus)

	fmt.Fprintf(w, row, "ID", "Title", "Author", "Genre", "Year", "Status")
	fmt.Fprintln(w, strings.Repeat("-", colID+tw+colAuthor+colGenre+colYear+colStatus+5))

	for _, b := range page.Items {
		year := ""
		if b.Year > 0 {
			year = strconv.Itoa(int(b.Year))
		}
		fmt.Fprintf(w, row,
			truncate(b.ID, colID),
			truncate(b.Title, tw),
			truncate(b.Author, colAuthor),
			truncate(string(b.Genre), colGenre),
			year,
			truncate(string(b.Status), colStatus),
		)
	}

	fmt.Fprintf(w, "\nPage %d of %d (%d matching, %d total)\n", resp.View.Page, page.TotalPages, page.Filtered, page.Total)
}

// truncate 按字符截断，超长时以...结尾
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
