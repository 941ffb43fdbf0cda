// Package mq RabbitMQ发布/订阅
//
// 仪表盘把图书增删改作为事件发到topic交换机（routing key如book.created），
// 下游可以按book.*订阅。events子命令就是一个简单的订阅者。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookdash/pkg/metrics"
)

// ExchangeTopic 默认交换机类型
const ExchangeTopic = "topic"

// publishChannel Publisher依赖的Channel能力
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
	log      *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明持久化交换机
func NewPublisher(url, exchange, exchangeType string, log *zap.Logger) (*Publisher, error) {
	conn, ch, err := dialAndDeclare(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	log.Info("消息发布者已创建", zap.String("exchange", exchange), zap.String("type", exchangeType))
	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish 以JSON发布消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    p.exchange,
		"routing_key": routingKey,
		"result":      metrics.Result(err),
	})

	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.log.Debug("消息已发布", zap.String("routing_key", routingKey), zap.ByteString("body", body))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Message 投递给处理函数的消息
type Message struct {
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Handler 处理函数，返回错误时消息重新入队
type Handler func(ctx context.Context, msg Message) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// NewConsumer 声明队列并按routingKeys绑定到交换机
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, log *zap.Logger) (*Consumer, error) {
	conn, ch, err := dialAndDeclare(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	log.Info("消息消费者已创建", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))
	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log}, nil
}

// Consume 阻塞消费直到ctx取消
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.log.Info("开始消费消息", zap.String("queue", c.queue))
	return dispatch(ctx, c.queue, deliveries, handler, c.log)
}

// dispatch 逐条处理并手动确认
func dispatch(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handler Handler, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("消费者退出", zap.String("queue", queue))
			return nil

		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}

			err := handler(ctx, Message{RoutingKey: d.RoutingKey, Body: d.Body, Timestamp: d.Timestamp})
			metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{
				"queue":  queue,
				"result": metrics.Result(err),
			})

			if err != nil {
				log.Warn("消息处理失败，重新入队", zap.String("routing_key", d.RoutingKey), zap.Error(err))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func dialAndDeclare(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, ch, nil
}
