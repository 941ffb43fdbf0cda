// Package listing 列表派生:搜索 + 过滤 + 分页
//
// 视图状态(ViewState)是不可变值,每次用户操作都返回一个新值;
// Derive是从(全量集合, 视图状态)到(当前页)的纯函数投影。
package listing

import (
	"time"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// DefaultPageSize 每页条数
const DefaultPageSize = 10

// ViewState 仪表盘视图状态(只在会话内存活,不持久化)
//
// 字段分两组:
// 1. Search/Genre/Status/Page 决定列表派生结果
// 2. Creating/EditingID/PendingDeleteID/SettleUntil 决定对话框与加载提示
//
// 同一时刻最多只有一个记录处于"编辑中"或"待删除"。
type ViewState struct {
	Search string      `json:"search,omitempty"`
	Genre  book.Genre  `json:"genre,omitempty"`
	Status book.Status `json:"status,omitempty"`
	Page   int         `json:"page"`

	Creating        bool      `json:"creating,omitempty"`
	EditingID       string    `json:"editing_id,omitempty"`
	PendingDeleteID string    `json:"pending_delete_id,omitempty"`
	SettleUntil     time.Time `json:"settle_until,omitempty"`
}

// NewViewState 初始状态:无过滤,第1页
func NewViewState() ViewState {
	return ViewState{Page: 1}
}

// WithSearch 修改搜索词,页码回到1
func (v ViewState) WithSearch(search string) ViewState {
	v.Search = search
	v.Page = 1
	return v
}

// WithGenre 修改类型过滤,页码回到1
func (v ViewState) WithGenre(g book.Genre) ViewState {
	v.Genre = g
	v.Page = 1
	return v
}

// WithStatus 修改状态过滤,页码回到1
func (v ViewState) WithStatus(s book.Status) ViewState {
	v.Status = s
	v.Page = 1
	return v
}

// WithPage 翻页(不做范围校验,见ClampPage)
func (v ViewState) WithPage(page int) ViewState {
	v.Page = page
	return v
}

// Settling 过滤条件刚变化后的短暂加载期
func (v ViewState) Settling(until time.Time) ViewState {
	v.SettleUntil = until
	return v
}

// IsSettling now是否仍在加载期内
func (v ViewState) IsSettling(now time.Time) bool {
	return !v.SettleUntil.IsZero() && now.Before(v.SettleUntil)
}

// OpenCreate 打开新增表单(没有编辑目标即为新增模式)
func (v ViewState) OpenCreate() ViewState {
	v.Creating = true
	v.EditingID = ""
	v.PendingDeleteID = ""
	return v
}

// OpenEdit 打开编辑表单
func (v ViewState) OpenEdit(id string) ViewState {
	v.Creating = false
	v.EditingID = id
	v.PendingDeleteID = ""
	return v
}

// FormOpen 表单对话框是否打开
func (v ViewState) FormOpen() bool {
	return v.Creating || v.EditingID != ""
}

// CloseForm 关闭表单并清空编辑目标
func (v ViewState) CloseForm() ViewState {
	v.Creating = false
	v.EditingID = ""
	return v
}

// RequestDelete 打开删除确认框
func (v ViewState) RequestDelete(id string) ViewState {
	v.Creating = false
	v.EditingID = ""
	v.PendingDeleteID = id
	return v
}

// CancelDelete 关闭删除确认框,其余状态不变
func (v ViewState) CancelDelete() ViewState {
	v.PendingDeleteID = ""
	return v
}
