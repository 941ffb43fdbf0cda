package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/internal/infrastructure/config"
	"github.com/xiebiao/bookdash/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
	"github.com/xiebiao/bookdash/pkg/metrics"
	"github.com/xiebiao/bookdash/pkg/tracing"
)

const (
	tracerName  = "bookdash/remote"
	breakerName = "books-remote"

	// maxErrorBody 错误响应只读取前几百字节用于日志
	maxErrorBody = 512
)

// Client 远端REST客户端
// 设计说明：
// 1. 每次调用：超时 → Span → 熔断器（可选）→ HTTP → 指标
// 2. 不重试；失败统一转换为AppError
// 3. 404单独映射为ErrBookNotFound，熔断器不把它计为失败
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	timeout    time.Duration
	breaker    *circuitbreaker.CircuitBreaker
	log        *zap.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层http.Client（测试注入httptest服务端）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker 启用熔断器
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// NewClient 创建远端客户端
// collectionURL形如 https://xxx.mockapi.io/api/books/book
func NewClient(collectionURL string, timeout time.Duration, log *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(collectionURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("无效的远端地址: %q", collectionURL)
	}

	metrics.InitMetrics()

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    u,
		timeout:    timeout,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig 按配置创建客户端，breaker.enabled时挂上熔断器
func NewClientFromConfig(cfg *config.Config, log *zap.Logger) (*Client, error) {
	var opts []Option
	if cfg.Remote.Breaker.Enabled {
		opts = append(opts, WithBreaker(NewBreaker(cfg.Remote.Breaker, log)))
	}
	return NewClient(cfg.Remote.CollectionURL(), cfg.Remote.Timeout, log, opts...)
}

// NewBreaker 创建远端熔断器，状态变化写指标和日志
func NewBreaker(cfg config.BreakerConfig, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	metrics.InitMetrics()
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": breakerName}, float64(circuitbreaker.StateClosed))

	return circuitbreaker.New(breakerName, circuitbreaker.Config{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.ConsecutiveFailures),
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.HasCode(err, apperrors.ErrCodeBookNotFound)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
}

// do 发送请求，out非nil时解析JSON响应体
func (c *Client) do(ctx context.Context, operation, method, id string, in, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "remote."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("book.id", id),
		))

	start := time.Now()
	call := func(ctx context.Context) error {
		return c.roundTrip(ctx, method, id, in, out)
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}

	result := metrics.Result(err)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = metrics.ResultRejected
		err = apperrors.ErrRemoteUnavailable.WithCause(err)
	case err != nil && !apperrors.IsAppError(err):
		// 熔断器在ctx已取消时直接返回ctx.Err()
		err = apperrors.ErrRemoteError.WithCause(err)
	}
	if c.breaker != nil {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": c.breaker.Name(), "result": result})
	}
	metrics.IncCounterVec(metrics.RemoteRequestsTotal, map[string]string{"operation": operation, "result": result})
	metrics.ObserveHistogramVec(metrics.RemoteRequestDuration, map[string]string{"operation": operation}, time.Since(start).Seconds())

	tracing.End(span, err)

	if err != nil {
		fields := []zap.Field{
			zap.String("operation", operation),
			zap.String("id", id),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		}
		if c.breaker != nil {
			counts := c.breaker.Counts()
			fields = append(fields,
				zap.Stringer("breaker_state", c.breaker.State()),
				zap.Uint32("consecutive_failures", counts.ConsecutiveFailures))
		}
		c.log.Warn("远端调用失败", fields...)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, id string, in, out interface{}) error {
	// 1. 构造请求
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperrors.ErrRemoteError.WithCause(fmt.Errorf("序列化请求失败: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resourceURL(id), body)
	if err != nil {
		return apperrors.ErrRemoteError.WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.InjectHTTP(ctx, req.Header)

	// 2. 发送
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ErrRemoteError.WithCause(err)
	}
	defer resp.Body.Close()

	// 3. 状态码
	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrBookNotFound.WithCause(statusError(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.ErrRemoteError.WithCause(statusError(resp))
	}

	// 4. 响应体
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ErrRemoteError.WithCause(fmt.Errorf("解析响应失败: %w", err))
	}
	return nil
}

// resourceURL 集合地址或单条记录地址
// id作为单个路径段转义,"a/b"、"a?b"不会改变请求的资源
func (c *Client) resourceURL(id string) string {
	if id == "" {
		return c.baseURL.String()
	}
	return c.baseURL.JoinPath(url.PathEscape(id)).String()
}

// statusError 非2xx响应的内部错误，附带响应体片段
func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s %s: status %d: %s",
		resp.Request.Method, resp.Request.URL.Redacted(), resp.StatusCode, bytes.TrimSpace(snippet))
}
