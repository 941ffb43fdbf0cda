// Package view 仪表盘HTML模板(编译进二进制)
package view

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/xiebiao/bookdash/internal/application/dashboard"
	"github.com/xiebiao/bookdash/internal/domain/book"
)

//go:embed templates/*.html
var templatesFS embed.FS

// 模板名
const (
	DashboardTemplate = "dashboard.html"
	ErrorTemplate     = "error.html"
)

// Notice 页面右上角提示
type Notice struct {
	Kind    string // success | error
	Message string
}

// Page 仪表盘页面数据
type Page struct {
	View    *dashboard.View
	Notice  *Notice
	Refresh int // >0时页面在该秒数后自动刷新(加载提示期间)
}

// ErrorPage 错误页数据
type ErrorPage struct {
	Code    int
	Message string
}

// Templates 解析全部模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templatesFS, "templates/*.html")
}

// Funcs 模板函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"statusClass": statusClass,
		"yearValue":   yearValue,
	}
}

// statusClass 状态标签颜色:可借绿色,其余红色
func statusClass(b *book.Book) string {
	if b.IsAvailable() {
		return "chip chip-ok"
	}
	return "chip chip-bad"
}

// yearValue 表单里年份为0时留空
func yearValue(y book.Year) string {
	if y <= 0 {
		return ""
	}
	return strconv.Itoa(int(y))
}
