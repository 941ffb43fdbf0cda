package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookdash/internal/domain/book"
)

type recordingPublisher struct {
	keys     []string
	messages []interface{}
}

func (r *recordingPublisher) Publish(_ context.Context, key string, msg interface{}) error {
	r.keys = append(r.keys, key)
	r.messages = append(r.messages, msg)
	return nil
}

func TestMQPublisher_RoutingKeyIsEventType(t *testing.T) {
	rec := &recordingPublisher{}
	p := NewMQPublisher(rec)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	err := p.Publish(context.Background(), book.Event{Type: book.EventCreated, BookID: "9", Title: "Dune"})
	require.NoError(t, err)

	require.Equal(t, []string{"book.created"}, rec.keys)
	data, err := json.Marshal(rec.messages[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"book.created","book_id":"9","title":"Dune","occurred_at":"2026-03-01T08:00:00Z"}`, string(data))
}

func TestNopPublisher(t *testing.T) {
	var p book.EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), book.Event{Type: book.EventDeleted}))
}
