package book

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Genre 图书类型(封闭枚举)
type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreSciFi      Genre = "Sci-Fi"
	GenreOther      Genre = "Other"
)

// Genres 返回全部类型,顺序即下拉框顺序
func Genres() []Genre {
	return []Genre{GenreFiction, GenreNonFiction, GenreSciFi, GenreOther}
}

// Valid 是否属于枚举
func (g Genre) Valid() bool {
	switch g {
	case GenreFiction, GenreNonFiction, GenreSciFi, GenreOther:
		return true
	}
	return false
}

// ParseGenre 解析类型,空字符串表示"全部"
func ParseGenre(s string) (Genre, error) {
	g := Genre(strings.TrimSpace(s))
	if g == "" || g.Valid() {
		return g, nil
	}
	return "", ErrInvalidGenre
}

// Status 借阅状态(封闭枚举)
type Status string

const (
	StatusAvailable Status = "Available"
	StatusIssued    Status = "Issued"
)

// Statuses 返回全部状态
func Statuses() []Status {
	return []Status{StatusAvailable, StatusIssued}
}

// Valid 是否属于枚举
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusIssued
}

// ParseStatus 解析状态,空字符串表示"全部"
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if st == "" || st.Valid() {
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Year 出版年份
// 远端mock服务原样保存前端提交的值,历史数据里年份可能是字符串("1954")甚至任意文本。
// 反序列化规则:
// 1. 数字与数字字符串按数值读取,小数直接截断(1954.9 → 1954)
// 2. null、空字符串以及无法解析的值读作0,不让一条脏数据拖垮整个列表
// 3. 写入前由Draft.Validate拒绝0,序列化时统一输出数字
type Year int

// UnmarshalJSON 兼容数字与数字字符串,无法解析时为0
func (y *Year) UnmarshalJSON(data []byte) error {
	*y = 0
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	n := json.Number(data)
	if i, err := n.Int64(); err == nil {
		*y = Year(i)
		return nil
	}
	if f, err := n.Float64(); err == nil && math.Abs(f) < math.MaxInt32 {
		*y = Year(int64(f))
	}
	return nil
}

// Book 图书记录
// 设计说明:
// 1. ID由远端服务分配,客户端从不生成ID
// 2. 更新是整体替换(PUT),没有局部字段更新
// 3. 从远端读取的记录不做枚举校验,只有写入前才校验(见Draft)
type Book struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Genre     Genre      `json:"genre"`
	Year      Year       `json:"year"`
	Status    Status     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsAvailable 是否可借
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable
}

// Draft 表单提交的图书字段(新增和编辑共用)
type Draft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  Genre  `json:"genre"`
	Year   Year   `json:"year"`
	Status Status `json:"status"`
}

// NewDraft 新增模式下的空表单,状态默认Available
func NewDraft() Draft {
	return Draft{Status: StatusAvailable}
}

// DraftOf 编辑模式下用已有记录预填表单
func DraftOf(b *Book) Draft {
	return Draft{
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Year:   b.Year,
		Status: b.Status,
	}
}

// Normalize 去除首尾空白
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Genre = Genre(strings.TrimSpace(string(d.Genre)))
	d.Status = Status(strings.TrimSpace(string(d.Status)))
	return d
}

// Validate 校验必填项与枚举
// 只做存在性和取值范围校验,没有跨字段规则
func (d Draft) Validate() error {
	d = d.Normalize()

	var fields []string
	if d.Title == "" {
		fields = append(fields, "title")
	}
	if d.Author == "" {
		fields = append(fields, "author")
	}
	if !d.Genre.Valid() {
		fields = append(fields, "genre")
	}
	if d.Year <= 0 {
		fields = append(fields, "year")
	}
	if !d.Status.Valid() {
		fields = append(fields, "status")
	}

	if len(fields) > 0 {
		return ErrInvalidDraft.WithFields(fields...)
	}
	return nil
}
