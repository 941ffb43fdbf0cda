package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookdash/internal/application/book"
	"github.com/xiebiao/bookdash/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
	"github.com/xiebiao/bookdash/pkg/response"
)

// BookHandler 图书JSON API处理器
type BookHandler struct {
	listBooksUseCase  *appbook.ListBooksUseCase
	addBookUseCase    *appbook.AddBookUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	addBookUseCase *appbook.AddBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:  listBooksUseCase,
		addBookUseCase:    addBookUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按标题/作者搜索,按类型和状态过滤,本地分页;页码越界时返回最后一页
// @Tags         图书
// @Produce      json
// @Param        search     query string false "标题或作者(不区分大小写)"
// @Param        genre      query string false "类型" Enums(Fiction, Non-Fiction, Sci-Fi, Other)
// @Param        status     query string false "状态" Enums(Available, Issued)
// @Param        page       query int    false "页码,从1开始"
// @Param        page_size  query int    false "每页条数,最大100"
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Failure      200 {object} response.Response "远端服务异常(code=50003/50004)"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Search:   req.Search,
		Genre:    req.Genre,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	page := result.Page
	response.SuccessWithPage(c, response.PageData{
		List:       dto.NewBookList(page.Items),
		Total:      page.Filtered,
		Overall:    page.Total,
		Page:       result.View.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// AddBook 新增图书
// @Summary      新增图书
// @Description  校验必填项后POST到远端集合,ID由远端分配
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response{data=response.FieldErrors} "缺少必填项(code=40900)"
// @Router       /api/v1/books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.addBookUseCase.Execute(c.Request.Context(), req.Draft())
	if err != nil {
		mutationError(c, result, err)
		return
	}

	// 3. 构建HTTP响应
	response.SuccessWithMessage(c, result.Notice.Message, dto.NewBookResponse(result.Book))
}

// UpdateBook 更新图书(整体替换)
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string          true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "图书不存在(code=40402)"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.updateBookUseCase.Execute(c.Request.Context(), c.Param("id"), req.Draft())
	if err != nil {
		mutationError(c, result, err)
		return
	}

	// 3. 构建HTTP响应
	response.SuccessWithMessage(c, result.Notice.Message, dto.NewBookResponse(result.Book))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "图书不存在(code=40402)"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	result, err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		mutationError(c, result, err)
		return
	}
	response.SuccessWithMessage(c, result.Notice.Message, nil)
}

// mutationError 远端写入失败时用失败提示作为message,错误码保持不变
func mutationError(c *gin.Context, result *appbook.MutationResponse, err error) {
	if result == nil || result.Notice.Message == "" {
		response.Error(c, err)
		return
	}
	appErr := apperrors.GetAppError(err)
	_ = c.Error(err)
	response.ErrorWithCode(c, appErr.Code, result.Notice.Message)
}
