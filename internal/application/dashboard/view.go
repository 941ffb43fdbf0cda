package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/domain/listing"
)

// Form 表单对话框
type Form struct {
	Open    bool
	Editing bool
	Title   string // "Add Book" | "Edit Book"
	Draft   book.Draft
	Fields  []string // 校验失败的字段
}

// HasError 字段是否校验失败(模板使用)
func (f Form) HasError(field string) bool {
	for _, name := range f.Fields {
		if name == field {
			return true
		}
	}
	return false
}

// View 一次渲染所需的全部数据
type View struct {
	State         listing.ViewState
	Page          listing.Page
	Loading       bool       // 显示"Please wait!"加载提示
	Form          Form
	PendingDelete *book.Book // 删除确认框目标
	Genres        []book.Genre
	Statuses      []book.Status
}

// PageNumbers 分页按钮
func (v *View) PageNumbers() []int {
	nums := make([]int, v.Page.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Render 按当前视图状态派生页面
// 1. 加载期内或远端拉取失败时只显示加载提示(失败写日志)
// 2. 页码越界时夹取到最后一页并保存
// 3. 编辑目标或删除目标已不存在时关闭对应对话框
func (c *Coordinator) Render(ctx context.Context, sid string) (*View, error) {
	state, err := c.State(ctx, sid)
	if err != nil {
		return nil, err
	}

	view := &View{
		State:    state,
		Genres:   book.Genres(),
		Statuses: book.Statuses(),
	}

	if state.IsSettling(c.now()) {
		view.Loading = true
		return view, nil
	}

	resp, err := c.list.ExecuteView(ctx, state, c.opts.PageSize)
	if err != nil {
		c.log.Warn("加载图书集合失败", zap.String("session", sid), zap.Error(err))
		view.Loading = true
		return view, nil
	}

	next := resp.View
	view.Page = resp.Page

	// 对话框
	switch {
	case next.Creating:
		view.Form = Form{Open: true, Title: "Add Book", Draft: book.NewDraft()}
	case next.EditingID != "":
		if b, err := c.snapshot.Find(ctx, next.EditingID); err == nil {
			view.Form = Form{Open: true, Editing: true, Title: "Edit Book", Draft: book.DraftOf(b)}
		} else {
			next = next.CloseForm()
		}
	case next.PendingDeleteID != "":
		if b, err := c.snapshot.Find(ctx, next.PendingDeleteID); err == nil {
			view.PendingDelete = b
		} else {
			next = next.CancelDelete()
		}
	}

	if next != state {
		if err := c.sessions.Save(ctx, sid, next); err != nil {
			c.log.Warn("保存视图状态失败", zap.String("session", sid), zap.Error(err))
		}
	}
	view.State = next
	return view, nil
}
