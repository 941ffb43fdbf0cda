package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），0表示成功
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，失败时省略
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldErrors 校验失败时的字段列表
type FieldErrors struct {
	Fields []string `json:"fields"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 成功响应，Message使用提示文案（如"Book deleted"）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 内部错误通过c.Error挂到gin上下文，由日志中间件统一记录
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}

	resp := Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		resp.Data = FieldErrors{Fields: appErr.Fields}
	}
	c.JSON(http.StatusOK, resp)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int         `json:"total"`    // 过滤后的记录数
	Overall    int         `json:"overall"`  // 集合总数
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, page PageData) {
	Success(c, page)
}
