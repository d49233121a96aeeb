package usecase

import (
	"encoding/json"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain/jobqueue"
	"github.com/floorbook/goapi/domain/orderupdate"
)

type publisher struct {
	jobQueue jobqueue.Publisher
}

// NewPublisher builds the enqueue-only half of the propagation pipeline.
// It lets producers publish triggers without depending on the full
// processing use case.
func NewPublisher(jobQueue jobqueue.Publisher) orderupdate.Publisher {
	return &publisher{jobQueue: jobQueue}
}

// PublishById enqueues the payloads keyed by their contexts, so the same
// state transition never processes twice while a copy is still pending
func (p *publisher) PublishById(c ctx.Ctx, payloads []*orderupdate.Payload) error {
	jobs := make([]*jobqueue.Job, 0, len(payloads))
	for _, pl := range payloads {
		body, err := json.Marshal(pl)
		if err != nil {
			return err
		}
		jobs = append(jobs, &jobqueue.Job{
			Queue:   jobqueue.QueueOrderUpdatesById,
			JobId:   pl.Context,
			Payload: body,
		})
	}
	return p.jobQueue.Publish(c, jobs...)
}
