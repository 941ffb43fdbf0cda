package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookdash/internal/domain/book"
	"github.com/xiebiao/bookdash/internal/domain/listing"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSnapshotCache(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1000, 0)}
	c := NewSnapshotCache(30 * time.Second)
	c.now = clk.now

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "初始未命中")

	books := []*book.Book{{ID: "1"}, {ID: "2"}}
	require.NoError(t, c.Set(ctx, books))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)

	got[0] = nil
	again, _, _ := c.Get(ctx)
	assert.NotNil(t, again[0], "返回副本")

	clk.t = clk.t.Add(31 * time.Second)
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok, "过期")

	require.NoError(t, c.Set(ctx, books))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok)
}

func TestSnapshotCache_EmptyCollectionIsAHit(t *testing.T) {
	c := NewSnapshotCache(0)
	require.NoError(t, c.Set(context.Background(), nil))

	got, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1000, 0)}
	s := NewSessionStore(time.Minute)
	s.now = clk.now

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	state := listing.NewViewState().WithSearch("dune").RequestDelete("3")
	require.NoError(t, s.Save(ctx, "a", state))

	got, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)

	clk.t = clk.t.Add(2 * time.Minute)
	_, ok, _ = s.Get(ctx, "a")
	assert.False(t, ok, "过期")
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Save(ctx, "b", state))
	require.NoError(t, s.Delete(ctx, "b"))
	_, ok, _ = s.Get(ctx, "b")
	assert.False(t, ok)
}

func TestSessionStore_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1000, 0)}
	s := NewSessionStore(time.Minute)
	s.now = clk.now

	for i := 0; i < sweepEvery-1; i++ {
		require.NoError(t, s.Save(ctx, fmt.Sprintf("old-%d", i), listing.NewViewState()))
	}
	clk.t = clk.t.Add(time.Hour)
	require.NoError(t, s.Save(ctx, "fresh", listing.NewViewState()))

	assert.Equal(t, 1, s.Len())
}
