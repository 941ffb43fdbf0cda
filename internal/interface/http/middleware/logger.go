package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/pkg/tracing"
)

const (
	// HeaderRequestID 请求ID响应头,上游已带则沿用
	HeaderRequestID = "X-Request-ID"

	contextKeyRequestID = "request_id"

	slowRequestThreshold = 3 * time.Second
)

// Logger 请求日志中间件
// 1. 生成请求ID并写入响应头
// 2. 记录方法、路由、状态码、耗时、客户端IP
// 3. Handler通过c.Error挂上的内部错误在这里统一输出
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 请求ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(contextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		// 2. 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 3. 结构化输出
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("请求失败", fields...)
		case len(c.Errors) > 0:
			log.Warn("请求出错", fields...)
		case latency > slowRequestThreshold:
			log.Warn("慢请求", fields...)
		default:
			log.Info("请求完成", fields...)
		}
	}
}

// Recovery panic恢复,记录堆栈后返回500
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("请求处理panic",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// GetRequestID 从Context获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
