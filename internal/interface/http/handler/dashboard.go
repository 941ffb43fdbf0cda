package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/application/dashboard"
	"github.com/xiebiao/bookdash/internal/interface/http/dto"
	"github.com/xiebiao/bookdash/internal/interface/http/middleware"
	"github.com/xiebiao/bookdash/internal/interface/http/view"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// loaderRefreshSeconds 加载提示页面的自动刷新间隔
const loaderRefreshSeconds = 1

// DashboardHandler 仪表盘HTML处理器
// 所有写操作都是POST/GET → 修改会话视图状态 → 303重定向回"/"(post-redirect-get),
// 提示文案通过一次性Cookie带到下一次页面渲染
type DashboardHandler struct {
	coordinator *dashboard.Coordinator
	sessions    *middleware.SessionMiddleware
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(coordinator *dashboard.Coordinator, sessions *middleware.SessionMiddleware) *DashboardHandler {
	return &DashboardHandler{
		coordinator: coordinator,
		sessions:    sessions,
	}
}

// Index 渲染仪表盘
func (h *DashboardHandler) Index(c *gin.Context) {
	v, err := h.coordinator.Render(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, v)
}

// Search 修改搜索词
func (h *DashboardHandler) Search(c *gin.Context) {
	_, err := h.coordinator.Search(c.Request.Context(), middleware.GetSessionID(c), c.PostForm("search"))
	h.redirect(c, err)
}

// Filter 修改类型/状态过滤,只处理与当前值不同的字段
func (h *DashboardHandler) Filter(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.GetSessionID(c)

	// 1. 当前状态
	state, err := h.coordinator.State(ctx, sid)
	if err != nil {
		h.redirect(c, err)
		return
	}

	// 2. 类型
	if genre, ok := c.GetPostForm("genre"); ok && genre != string(state.Genre) {
		if _, err := h.coordinator.FilterGenre(ctx, sid, genre); err != nil {
			h.redirect(c, err)
			return
		}
	}

	// 3. 状态
	if status, ok := c.GetPostForm("status"); ok && status != string(state.Status) {
		if _, err := h.coordinator.FilterStatus(ctx, sid, status); err != nil {
			h.redirect(c, err)
			return
		}
	}

	h.redirect(c, nil)
}

// GoToPage 翻页,非法页码按第1页处理(渲染时再夹取)
func (h *DashboardHandler) GoToPage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		page = 1
	}
	_, err = h.coordinator.GoToPage(c.Request.Context(), middleware.GetSessionID(c), page)
	h.redirect(c, err)
}

// NewBook 打开新增表单
func (h *DashboardHandler) NewBook(c *gin.Context) {
	_, err := h.coordinator.OpenCreate(c.Request.Context(), middleware.GetSessionID(c))
	h.redirect(c, err)
}

// EditBook 打开编辑表单
func (h *DashboardHandler) EditBook(c *gin.Context) {
	_, err := h.coordinator.OpenEdit(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	h.redirect(c, err)
}

// CloseForm 关闭表单
func (h *DashboardHandler) CloseForm(c *gin.Context) {
	_, err := h.coordinator.CloseForm(c.Request.Context(), middleware.GetSessionID(c))
	h.redirect(c, err)
}

// SubmitForm 提交表单
// 1. 校验失败:直接渲染页面,表单保持打开并回填提交的值
// 2. 其余情况:写入提示后重定向
func (h *DashboardHandler) SubmitForm(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.GetSessionID(c)

	// 1. 参数绑定
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, apperrors.ErrBindError.WithCause(err))
		return
	}
	draft := form.Draft()

	// 2. 调用协调器
	result, err := h.coordinator.SubmitForm(ctx, sid, draft)
	if err != nil {
		h.redirect(c, err)
		return
	}

	// 3. 校验失败
	if len(result.Fields) > 0 {
		v, err := h.coordinator.Render(ctx, sid)
		if err != nil {
			h.fail(c, err)
			return
		}
		if v.Form.Open {
			v.Form.Draft = draft
			v.Form.Fields = result.Fields
		}
		h.render(c, http.StatusUnprocessableEntity, v)
		return
	}

	h.notice(c, result.Notice)
	c.Redirect(http.StatusSeeOther, "/")
}

// RequestDelete 打开删除确认框
func (h *DashboardHandler) RequestDelete(c *gin.Context) {
	_, err := h.coordinator.RequestDelete(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	h.redirect(c, err)
}

// CancelDelete 取消删除
func (h *DashboardHandler) CancelDelete(c *gin.Context) {
	_, err := h.coordinator.CancelDelete(c.Request.Context(), middleware.GetSessionID(c))
	h.redirect(c, err)
}

// ConfirmDelete 确认删除
func (h *DashboardHandler) ConfirmDelete(c *gin.Context) {
	_, n, err := h.coordinator.ConfirmDelete(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.redirect(c, err)
		return
	}
	h.notice(c, n)
	c.Redirect(http.StatusSeeOther, "/")
}

// render 渲染仪表盘页面,顺带取出一次性提示
func (h *DashboardHandler) render(c *gin.Context, status int, v *dashboard.View) {
	page := view.Page{View: v}
	if kind, msg, ok := h.sessions.TakeNotice(c); ok {
		page.Notice = &view.Notice{Kind: kind, Message: msg}
	}
	if v.Loading {
		page.Refresh = loaderRefreshSeconds
	}
	c.HTML(status, view.DashboardTemplate, page)
}

// redirect 回到仪表盘;出错时把错误提示带过去
// 会话存储失败和未知错误直接渲染错误页
func (h *DashboardHandler) redirect(c *gin.Context, err error) {
	if err != nil {
		appErr := apperrors.GetAppError(err)
		if appErr.Code == apperrors.ErrCodeInternal || appErr.Code == apperrors.ErrCodeRedisError {
			h.fail(c, err)
			return
		}
		_ = c.Error(err)
		h.sessions.SetNotice(c, string(appbook.NoticeError), appErr.Message)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *DashboardHandler) notice(c *gin.Context, n *appbook.Notice) {
	if n == nil {
		return
	}
	h.sessions.SetNotice(c, string(n.Kind), n.Message)
}

// fail 错误页
func (h *DashboardHandler) fail(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, view.ErrorTemplate, view.ErrorPage{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
