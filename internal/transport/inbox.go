// Package transport implements the bounded Processor→Tracker inboxes and
// the per-(processor,tracker) sequence-gap detection this pipeline relies on.
// Each tracker owns one buffered channel that every processor writes
// into; channel sends from a single goroutine are strictly ordered, so
// per-sender FIFO holds without any additional locking on the write side.
package transport

import (
	"go.uber.org/atomic"

	"github.com/nettelescope/reportcore/internal/wire"
)

// Inbox is a tracker's bounded message queue.
type Inbox struct {
	ch       chan *wire.Message
	capacity int
	depth    atomic.Int64
}

// NewInbox creates an inbox with room for capacity messages — the
// internal_hwm high-water mark.
func NewInbox(capacity int) *Inbox {
	return &Inbox{ch: make(chan *wire.Message, capacity), capacity: capacity}
}

// Send enqueues msg, blocking (applying backpressure to the processor) if
// the inbox is at capacity.
func (ib *Inbox) Send(msg *wire.Message) {
	ib.ch <- msg
	ib.depth.Inc()
}

// Recv exposes the receive side for the tracker's message loop.
func (ib *Inbox) Recv() <-chan *wire.Message {
	return ib.ch
}

// Drained marks one message as taken off the queue by the tracker loop.
func (ib *Inbox) Drained() {
	ib.depth.Dec()
}

// Depth returns the approximate number of queued messages, for metrics.
func (ib *Inbox) Depth() int64 {
	return ib.depth.Load()
}

// Capacity returns the inbox's configured high-water mark.
func (ib *Inbox) Capacity() int {
	return ib.capacity
}
