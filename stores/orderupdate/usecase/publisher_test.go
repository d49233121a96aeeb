package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain/jobqueue"
	mJobqueue "github.com/floorbook/goapi/domain/jobqueue/mocks"
	"github.com/floorbook/goapi/domain/orderupdate"
)

func TestPublishById(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	payloads := []*orderupdate.Payload{
		{
			Context: orderupdate.FilledContext("0xaaa", "0xtx"),
			ChainId: 1,
			Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerSale, TxHash: "0xtx"},
			Id:      "0xaaa",
		},
		{
			Context: orderupdate.NewOrderContext("0xbbb"),
			ChainId: 1,
			Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerNewOrder},
			Id:      "0xbbb",
		},
	}

	jobQueue := mJobqueue.NewPublisher(t)
	var jobs []*jobqueue.Job
	jobQueue.On("Publish", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		jobs = []*jobqueue.Job{
			args.Get(1).(*jobqueue.Job),
			args.Get(2).(*jobqueue.Job),
		}
	}).Return(nil)

	p := NewPublisher(jobQueue)
	req.NoError(p.PublishById(c, payloads))

	req.Len(jobs, 2)
	for i, job := range jobs {
		req.Equal(jobqueue.QueueOrderUpdatesById, job.Queue)
		// the payload context doubles as the dedupe key
		req.Equal(payloads[i].Context, job.JobId)

		var decoded orderupdate.Payload
		req.NoError(json.Unmarshal(job.Payload, &decoded))
		req.Equal(payloads[i].Id, decoded.Id)
		req.Equal(payloads[i].Trigger.Kind, decoded.Trigger.Kind)
	}
}

func TestPublishByIdEmpty(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	jobQueue := mJobqueue.NewPublisher(t)
	jobQueue.On("Publish", mock.Anything).Return(nil)

	p := NewPublisher(jobQueue)
	req.NoError(p.PublishById(c, nil))
}
