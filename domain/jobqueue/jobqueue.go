package jobqueue

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
)

type Queue string

const (
	QueueOrderUpdatesById Queue = "order-updates-by-id"
	QueueOrderbookOrders  Queue = "orderbook-orders"
	QueueFillPostProcess  Queue = "fill-post-process"
	QueueExpiredOrders    Queue = "expired-orders"
)

// Job is one queued unit of work. JobId dedupes: while a job with the
// same id is pending, publishing it again is a no-op.
type Job struct {
	Queue   Queue
	JobId   string
	Payload []byte
	Delay   time.Duration
}

type Publisher interface {
	Publish(ctx ctx.Ctx, jobs ...*Job) error
}

// Handler processes one job payload. A returned error requeues the job
// until its retry budget runs out.
type Handler func(ctx ctx.Ctx, payload []byte) error

type Consumer interface {
	// Subscribe registers the handler and starts the queue's workers
	Subscribe(queue Queue, handler Handler)
	Run(ctx ctx.Ctx) error
	Close()
}
