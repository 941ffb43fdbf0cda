package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookdash/internal/infrastructure/events"
	"github.com/xiebiao/bookdash/pkg/mq"
)

// eventRoutingKeys 订阅全部图书事件
var eventRoutingKeys = []string{"book.*"}

func newEventsCommand(opts *rootOptions) *cobra.Command {
	var queue string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail book change events from RabbitMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if queue == "" {
				queue = opts.cfg.MQ.Queue
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := mq.NewConsumer(opts.cfg.MQ.URL, opts.cfg.MQ.Exchange, mq.ExchangeTopic, queue, eventRoutingKeys, opts.log)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Consume(ctx, printEvent(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&queue, "queue", "", "queue name (default mq.queue)")
	return cmd
}

// printEvent 每条事件打印一行
// 无法解析的消息照样确认，避免反复重新入队
func printEvent(w io.Writer) mq.Handler {
	return func(_ context.Context, msg mq.Message) error {
		var env events.Envelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			fmt.Fprintf(w, "%s  %-13s  unparseable: %s\n", stamp(msg.Timestamp), msg.RoutingKey, msg.Body)
			return nil
		}

		at := env.OccurredAt
		if at.IsZero() {
			at = msg.Timestamp
		}
		line := fmt.Sprintf("%s  %-13s  id=%s", stamp(at), msg.RoutingKey, env.BookID)
		if env.Title != "" {
			line += fmt.Sprintf("  %q", env.Title)
		}
		fmt.Fprintln(w, line)
		return nil
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.DateTime)
}
