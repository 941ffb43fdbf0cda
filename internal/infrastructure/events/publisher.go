// Package events 图书变更事件的发布适配
package events

import (
	"context"
	"time"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

// messagePublisher pkg/mq.Publisher满足该接口
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Envelope 事件消息体
type Envelope struct {
	book.Event
	OccurredAt time.Time `json:"occurred_at"`
}

// MQPublisher 把图书事件发到RabbitMQ，routing key即事件类型
type MQPublisher struct {
	publisher messagePublisher
	now       func() time.Time
}

// NewMQPublisher 创建事件发布器
func NewMQPublisher(p messagePublisher) *MQPublisher {
	return &MQPublisher{publisher: p, now: time.Now}
}

// Publish 发布事件
func (p *MQPublisher) Publish(ctx context.Context, event book.Event) error {
	return p.publisher.Publish(ctx, string(event.Type), Envelope{Event: event, OccurredAt: p.now().UTC()})
}

// NopPublisher 未启用MQ时使用
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, book.Event) error { return nil }
