// Package metrics 仪表盘的Prometheus指标
//
// 指标分四组：
//   - HTTP：仪表盘页面与JSON API的请求数、耗时、并发数
//   - 远端：对图书集合(mockapi)的每次调用，按操作和结果区分
//   - 缓存：集合快照的命中情况
//   - 熔断器与消息队列
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾，标签只用有限取值
// （method、operation、result），不要用book_id这类高基数字段。
//
// 使用：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected" // 熔断器拒绝
)

// 缓存结果标签取值
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/page/:n）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// RemoteRequestsTotal 远端调用总数
	// 标签：operation（list/create/update/delete）、result（success/failure/rejected）
	RemoteRequestsTotal *prometheus.CounterVec

	// RemoteRequestDuration 远端调用耗时
	// 远端是公网服务，桶比本地HTTP宽
	RemoteRequestDuration *prometheus.HistogramVec

	// SnapshotCacheTotal 集合快照缓存访问
	// 标签：result（hit/miss/error）
	SnapshotCacheTotal *prometheus.CounterVec

	// BookMutationsTotal 图书增删改
	// 标签：operation（add/update/delete）、result（success/failure）
	BookMutationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 经过熔断器的请求
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 事件发布总数
	// 标签：exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 事件消费总数
	// 标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookdash_http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookdash_http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_remote_requests_total",
			Help: "图书远端调用总数",
		},
		[]string{"operation", "result"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookdash_remote_request_duration_seconds",
			Help:    "图书远端调用耗时（秒）",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	SnapshotCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_snapshot_cache_total",
			Help: "图书集合快照缓存访问次数",
		},
		[]string{"result"},
	)

	BookMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_book_mutations_total",
			Help: "图书增删改次数",
		},
		[]string{"operation", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookdash_circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_messages_published_total",
			Help: "图书事件发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookdash_messages_consumed_total",
			Help: "图书事件消费总数",
		},
		[]string{"queue", "result"},
	)
}

// Result 按错误返回结果标签
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
