// Package dashboard 仪表盘视图状态协调
//
// 每个浏览器会话持有一个不可变的ViewState,每次用户操作:
// 读取状态 → 计算新状态 → 保存 → 返回。页面渲染时再用当前状态
// 对图书集合做派生(搜索、过滤、分页)。
package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/domain/listing"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// Options 协调器参数
type Options struct {
	PageSize    int
	SettleDelay time.Duration // 过滤条件变化后的加载提示时长,0关闭
}

// Coordinator 视图状态协调器
type Coordinator struct {
	sessions listing.SessionStore
	snapshot *appbook.Snapshot
	list     *appbook.ListBooksUseCase
	add      *appbook.AddBookUseCase
	update   *appbook.UpdateBookUseCase
	del      *appbook.DeleteBookUseCase
	opts     Options
	now      func() time.Time
	log      *zap.Logger
}

// NewCoordinator 创建协调器
func NewCoordinator(
	sessions listing.SessionStore,
	snapshot *appbook.Snapshot,
	list *appbook.ListBooksUseCase,
	add *appbook.AddBookUseCase,
	update *appbook.UpdateBookUseCase,
	del *appbook.DeleteBookUseCase,
	opts Options,
	log *zap.Logger,
) *Coordinator {
	if opts.PageSize <= 0 {
		opts.PageSize = list.PageSize()
	}
	return &Coordinator{
		sessions: sessions,
		snapshot: snapshot,
		list:     list,
		add:      add,
		update:   update,
		del:      del,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// State 当前视图状态,新会话返回初始状态
func (c *Coordinator) State(ctx context.Context, sid string) (listing.ViewState, error) {
	state, ok, err := c.sessions.Get(ctx, sid)
	if err != nil {
		return listing.ViewState{}, err
	}
	if !ok {
		return listing.NewViewState(), nil
	}
	return state, nil
}

// transition 读取-变换-保存
func (c *Coordinator) transition(ctx context.Context, sid string, fn func(listing.ViewState) (listing.ViewState, error)) (listing.ViewState, error) {
	state, err := c.State(ctx, sid)
	if err != nil {
		return listing.ViewState{}, err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	if err := c.sessions.Save(ctx, sid, next); err != nil {
		return state, err
	}
	return next, nil
}

// settle 过滤条件变化后进入加载期
func (c *Coordinator) settle(v listing.ViewState) listing.ViewState {
	if c.opts.SettleDelay <= 0 {
		return v.Settling(time.Time{})
	}
	return v.Settling(c.now().Add(c.opts.SettleDelay))
}

// Search 修改搜索词(页码回到1)
func (c *Coordinator) Search(ctx context.Context, sid, text string) (listing.ViewState, error) {
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return c.settle(v.WithSearch(text)), nil
	})
}

// FilterGenre 修改类型过滤,空串表示全部
func (c *Coordinator) FilterGenre(ctx context.Context, sid, genre string) (listing.ViewState, error) {
	g, err := book.ParseGenre(genre)
	if err != nil {
		return listing.ViewState{}, err
	}
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return c.settle(v.WithGenre(g)), nil
	})
}

// FilterStatus 修改状态过滤,空串表示全部
func (c *Coordinator) FilterStatus(ctx context.Context, sid, status string) (listing.ViewState, error) {
	s, err := book.ParseStatus(status)
	if err != nil {
		return listing.ViewState{}, err
	}
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return c.settle(v.WithStatus(s)), nil
	})
}

// GoToPage 翻页,渲染时再夹取到有效范围
func (c *Coordinator) GoToPage(ctx context.Context, sid string, page int) (listing.ViewState, error) {
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.WithPage(page), nil
	})
}

// OpenCreate 打开新增表单
func (c *Coordinator) OpenCreate(ctx context.Context, sid string) (listing.ViewState, error) {
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.OpenCreate(), nil
	})
}

// OpenEdit 打开编辑表单,记录不存在时返回ErrBookNotFound
func (c *Coordinator) OpenEdit(ctx context.Context, sid, id string) (listing.ViewState, error) {
	if _, err := c.snapshot.Find(ctx, id); err != nil {
		return listing.ViewState{}, err
	}
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.OpenEdit(id), nil
	})
}

// CloseForm 关闭表单,不做任何写入
func (c *Coordinator) CloseForm(ctx context.Context, sid string) (listing.ViewState, error) {
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.CloseForm(), nil
	})
}

// RequestDelete 打开删除确认框
func (c *Coordinator) RequestDelete(ctx context.Context, sid, id string) (listing.ViewState, error) {
	if _, err := c.snapshot.Find(ctx, id); err != nil {
		return listing.ViewState{}, err
	}
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.RequestDelete(id), nil
	})
}

// CancelDelete 关闭删除确认框,集合和其余状态不变
func (c *Coordinator) CancelDelete(ctx context.Context, sid string) (listing.ViewState, error) {
	return c.transition(ctx, sid, func(v listing.ViewState) (listing.ViewState, error) {
		return v.CancelDelete(), nil
	})
}

// SubmitResult 表单提交结果
type SubmitResult struct {
	State  listing.ViewState
	Notice *appbook.Notice // 校验失败时为nil
	Fields []string        // 校验失败的字段,表单保持打开
}

// SubmitForm 提交表单:有编辑目标则更新,否则新增
// 1. 校验失败:不调用远端,表单保持打开
// 2. 调用远端后无论成败都关闭表单,结果通过提示告知
func (c *Coordinator) SubmitForm(ctx context.Context, sid string, draft book.Draft) (*SubmitResult, error) {
	state, err := c.State(ctx, sid)
	if err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return &SubmitResult{State: state, Fields: apperrors.GetAppError(err).Fields}, nil
	}

	var resp *appbook.MutationResponse
	if state.EditingID != "" {
		resp, err = c.update.Execute(ctx, state.EditingID, draft)
	} else {
		resp, err = c.add.Execute(ctx, draft)
	}
	if resp == nil {
		return nil, err
	}

	next := state.CloseForm()
	if saveErr := c.sessions.Save(ctx, sid, next); saveErr != nil {
		return nil, saveErr
	}

	notice := resp.Notice
	return &SubmitResult{State: next, Notice: &notice}, nil
}

// ConfirmDelete 删除待确认记录,成败都关闭确认框
// 没有待确认记录时什么也不做,返回nil提示
func (c *Coordinator) ConfirmDelete(ctx context.Context, sid string) (listing.ViewState, *appbook.Notice, error) {
	state, err := c.State(ctx, sid)
	if err != nil {
		return listing.ViewState{}, nil, err
	}
	if state.PendingDeleteID == "" {
		return state, nil, nil
	}

	resp, err := c.del.Execute(ctx, state.PendingDeleteID)
	if resp == nil {
		return state, nil, err
	}

	next := state.CancelDelete()
	if saveErr := c.sessions.Save(ctx, sid, next); saveErr != nil {
		return state, nil, saveErr
	}
	notice := resp.Notice
	return next, &notice, nil
}
