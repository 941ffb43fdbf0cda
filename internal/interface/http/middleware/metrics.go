package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookdash/pkg/metrics"
	"github.com/xiebiao/bookdash/pkg/tracing"
)

const (
	tracerName     = "bookdash/http"
	unmatchedRoute = "unmatched"
)

// route 路由模板(/books/:id/edit),避免按真实路径产生高基数标签
func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}

// Metrics 请求计数、耗时、并发数
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		path := route(c)
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}

// Tracing 为每个请求创建服务端Span,上游traceparent作为父Span
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := tracing.ExtractHTTP(c.Request.Context(), c.Request.Header)
		ctx, span := tracing.StartSpan(ctx, tracerName, c.Request.Method+" "+route(c),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route(c)),
			),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		var err error
		if len(c.Errors) > 0 {
			err = c.Errors.Last()
		}
		tracing.End(span, err)
	}
}
