package engine

import (
	"sync"

	"github.com/dshills/xiterm/internal/protocol"
)

// queue is an unbounded FIFO between the reader and the control loop. The
// reader must never block on a slow consumer: the consumer may itself be
// waiting on a response that only the reader can deliver.
type queue struct {
	in   chan protocol.Inbound
	out  chan protocol.Inbound
	quit chan struct{}

	closeOnce sync.Once
	stopOnce  sync.Once
}

func newQueue() *queue {
	q := &queue{
		in:   make(chan protocol.Inbound),
		out:  make(chan protocol.Inbound),
		quit: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *queue) push(n protocol.Inbound) {
	select {
	case q.in <- n:
	case <-q.quit:
	}
}

// close ends input; queued items are still delivered.
func (q *queue) close() {
	q.closeOnce.Do(func() { close(q.in) })
}

// stop discards anything still queued.
func (q *queue) stop() {
	q.stopOnce.Do(func() { close(q.quit) })
}

func (q *queue) run() {
	defer close(q.out)

	var buf []protocol.Inbound
	in := q.in
	for in != nil || len(buf) > 0 {
		var out chan protocol.Inbound
		var next protocol.Inbound
		if len(buf) > 0 {
			out = q.out
			next = buf[0]
		}

		select {
		case n, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			buf = append(buf, n)
		case out <- next:
			buf[0] = nil
			buf = buf[1:]
		case <-q.quit:
			return
		}
	}
}
