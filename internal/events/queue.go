package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed 表示事件队列已关闭。
var ErrQueueClosed = errors.New("events: queue closed")

// Queue 是并发生产者与 UI 循环之间唯一的有序通道。所有 append/chunk
// 请求都经由它进入持有 HistoryStore 的循环，相对用户输入事件保持全序，
// 渲染器永远观察不到撕裂的单元状态。
type Queue struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue 创建队列，buffer <= 0 时使用默认缓冲。
func NewQueue(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 128
	}
	return &Queue{ch: make(chan Event, buffer), done: make(chan struct{})}
}

// Publish 按到达顺序投递事件。队列满时阻塞生产者而不是乱序或丢弃。
func (q *Queue) Publish(ctx context.Context, evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- evt:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next 取出下一个事件；队列关闭且排空后返回 false。
// 应当只有一个消费者：持有 UI 状态的循环。
func (q *Queue) Next() (Event, bool) {
	select {
	case evt := <-q.ch:
		return evt, true
	case <-q.done:
		// 关闭后仍然先排空缓冲，保持全序。
		select {
		case evt := <-q.ch:
			return evt, true
		default:
			return Event{}, false
		}
	}
}

// Close 关闭队列。之后 Publish 返回 ErrQueueClosed，已缓冲事件仍可被消费。
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}
