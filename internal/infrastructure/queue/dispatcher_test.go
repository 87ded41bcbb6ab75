package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountyboard/points-ledger/internal/infrastructure/telegram"
)

type recordingHandler struct {
	mu     sync.Mutex
	byChat map[int64][]int64
	done   chan struct{}
	want   int
	seen   int
}

func (h *recordingHandler) HandleUpdate(_ context.Context, u telegram.Update) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byChat[u.ChatID()] = append(h.byChat[u.ChatID()], u.UpdateID)
	h.seen++
	if h.seen == h.want {
		close(h.done)
	}
	return nil
}

func update(id, chat int64) telegram.Update {
	return telegram.Update{UpdateID: id, Message: &telegram.Message{Chat: telegram.Chat{ID: chat}}}
}

func TestDispatcher_PreservesPerChatOrder(t *testing.T) {
	h := &recordingHandler{byChat: map[int64][]int64{}, done: make(chan struct{}), want: 300}
	d := NewDispatcher(4, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	chats := []int64{-1001, -1002, 42}
	for i := int64(0); i < 100; i++ {
		for _, c := range chats {
			d.Enqueue(update(i, c))
		}
	}

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for updates")
	}
	cancel()
	d.Wait()

	for _, c := range chats {
		got := h.byChat[c]
		require.Len(t, got, 100)
		for i, id := range got {
			assert.Equal(t, int64(i), id, "chat %d out of order", c)
		}
	}
}

func TestDispatcher_ShardIndexHandlesNegativeIDs(t *testing.T) {
	d := NewDispatcher(3, nil, zerolog.Nop())
	for _, id := range []int64{-1001234567890, -1, 0, 1, 7} {
		i := d.shardIndex(id)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 3)
		assert.Equal(t, i, d.shardIndex(id))
	}
}

type blockingHandler struct {
	release chan struct{}
}

func (h *blockingHandler) HandleUpdate(ctx context.Context, _ telegram.Update) error {
	select {
	case <-h.release:
	case <-ctx.Done():
	}
	return nil
}

func TestDispatcher_EnqueueAfterStopDoesNotBlock(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{})}
	defer close(h.release)
	d := NewDispatcher(1, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(0); i < channelBuffer*2; i++ {
			d.Enqueue(update(i, 42))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked after the dispatcher stopped")
	}
}

func TestDispatcher_StopReleasesBlockedEnqueue(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{})}
	defer close(h.release)
	d := NewDispatcher(1, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// One update is held by the worker, the rest fill the buffer, and the
	// last send has to wait.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(0); i < channelBuffer+2; i++ {
			d.Enqueue(update(i, 42))
		}
	}()

	select {
	case <-done:
		t.Fatal("Enqueue returned while the shard was full")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue still blocked after stop")
	}
	d.Wait()
}
