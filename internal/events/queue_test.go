package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestQueuePreservesPublishOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue(16)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		evt := Event{Kind: KindResponseChunk, Text: fmt.Sprintf("chunk-%02d", i)}
		if err := q.Publish(ctx, evt); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	for i := 0; i < 10; i++ {
		evt, ok := q.Next()
		if !ok {
			t.Fatalf("queue drained early at %d", i)
		}
		if want := fmt.Sprintf("chunk-%02d", i); evt.Text != want {
			t.Fatalf("order broken: got %q want %q", evt.Text, want)
		}
	}
}

func TestQueueStampsTimestamp(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	if err := q.Publish(context.Background(), Event{Kind: KindUserPrompt, Text: "hi"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	evt, ok := q.Next()
	if !ok || evt.Timestamp.IsZero() {
		t.Fatalf("event must carry an arrival timestamp: %+v ok=%v", evt, ok)
	}
}

func TestQueuePublishAfterClose(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	q.Close()
	err := q.Publish(context.Background(), Event{Kind: KindSystemInfo})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueueDrainsBufferAfterClose(t *testing.T) {
	t.Parallel()

	q := NewQueue(4)
	ctx := context.Background()
	if err := q.Publish(ctx, Event{Kind: KindUserPrompt, Text: "kept"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	q.Close()

	evt, ok := q.Next()
	if !ok || evt.Text != "kept" {
		t.Fatalf("buffered events must survive close: %+v ok=%v", evt, ok)
	}
	if _, ok := q.Next(); ok {
		t.Fatalf("drained closed queue must report false")
	}
}

func TestQueuePublishHonorsContext(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	ctx := context.Background()
	if err := q.Publish(ctx, Event{Kind: KindUserPrompt}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// 队列已满，带期限的 Publish 应在期限到达时返回。
	dctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := q.Publish(dctx, Event{Kind: KindUserPrompt})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestQueueUnblocksPublisherOnClose(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	ctx := context.Background()
	if err := q.Publish(ctx, Event{Kind: KindUserPrompt}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- q.Publish(ctx, Event{Kind: KindUserPrompt})
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("expected ErrQueueClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("publisher stayed blocked after close")
	}
}

func TestNewSubmissionIDIsUnique(t *testing.T) {
	t.Parallel()

	a, b := NewSubmissionID(), NewSubmissionID()
	if a == "" || a == b {
		t.Fatalf("submission ids must be non-empty and unique: %q %q", a, b)
	}
}
