// Package circuitbreaker 远端调用熔断器
//
// 状态机：
//
//	CLOSED ──(ReadyToTrip)──▶ OPEN ──(Timeout到期)──▶ HALF_OPEN
//	   ▲                                                 │
//	   └──────────────(探测成功)─────────────────────────┘
//	                  (探测失败则回到OPEN)
//
// 熔断器只做快速失败，从不重试。被拒绝的调用返回ErrOpenState，
// 由调用方映射成自己的业务错误。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开或半开探测名额已满
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置，零值字段使用默认值
type Config struct {
	// MaxRequests 半开状态允许通过的探测请求数，默认1
	MaxRequests uint32

	// Interval 关闭状态下的统计窗口，到期清零，0表示不清零
	Interval time.Duration

	// Timeout OPEN状态持续时间，默认30s
	Timeout time.Duration

	// ReadyToTrip 关闭状态下每次失败后调用，返回true则熔断
	// 默认连续失败5次
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断一次调用是否算成功
	// 默认err==nil；业务错误（如404）应视为成功，避免误熔断
	IsSuccessful func(err error) bool

	// OnStateChange 状态变化回调（在锁内调用，不要阻塞）
	OnStateChange func(name string, from, to State)

	// Now 时钟，测试时注入
	Now func() time.Time
}

// ConsecutiveFailures 连续失败n次熔断
func ConsecutiveFailures(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

type CircuitBreaker struct {
	name   string
	config Config

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃跨代的结果
	counts     Counts
	expiry     time.Time
}

// New 创建熔断器
func New(name string, config Config) *CircuitBreaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = ConsecutiveFailures(5)
	}
	if config.IsSuccessful == nil {
		config.IsSuccessful = func(err error) bool { return err == nil }
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	cb := &CircuitBreaker{name: name, config: config, state: StateClosed}
	cb.resetWindow(config.Now())
	return cb
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute 执行fn
// 1. 熔断时不调用fn，直接返回ErrOpenState
// 2. ctx已取消时直接返回ctx.Err()，不计入统计
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = fn(ctx)

	// 调用方主动取消不代表下游故障
	if errors.Is(err, context.Canceled) {
		cb.release(generation)
		return err
	}

	cb.afterRequest(generation, cb.config.IsSuccessful(err))
	return err
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.config.Now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.config.MaxRequests:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.config.Now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.onSuccess()
		if state == StateHalfOpen {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	switch state {
	case StateClosed:
		if cb.config.ReadyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// release 归还探测名额
func (cb *CircuitBreaker) release(before uint64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.generation == before && cb.counts.Requests > 0 {
		cb.counts.Requests--
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetWindow(now)
		}
	case StateOpen:
		if !cb.expiry.After(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.counts = Counts{}
	if cb.config.Interval > 0 {
		cb.expiry = now.Add(cb.config.Interval)
	} else {
		cb.expiry = time.Time{}
	}
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.generation++

	switch state {
	case StateClosed:
		cb.resetWindow(now)
	case StateOpen:
		cb.counts = Counts{}
		cb.expiry = now.Add(cb.config.Timeout)
	case StateHalfOpen:
		cb.counts = Counts{}
		cb.expiry = time.Time{}
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(cb.config.Now())
	return state
}

func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}
