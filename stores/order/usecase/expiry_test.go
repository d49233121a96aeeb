package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
	"github.com/floorbook/goapi/domain/orderupdate"
	mOrderupdate "github.com/floorbook/goapi/domain/orderupdate/mocks"
)

func TestSweepExpired(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	overdue := []*order.Order{
		{ChainId: 1, Id: "0xaaa", FillabilityStatus: order.FillabilityFillable},
		{ChainId: 1, Id: "0xbbb", FillabilityStatus: order.FillabilityFillable},
	}

	orderRepo := mOrder.NewRepo(t)
	orderUpdate := mOrderupdate.NewPublisher(t)

	orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(overdue, nil)

	patches := map[domain.OrderHash]order.Patchable{}
	orderRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		id := args.Get(1).(order.Id)
		patches[id.Id] = args.Get(2).(order.Patchable)
	}).Return(nil)

	var published []*orderupdate.Payload
	orderUpdate.On("PublishById", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]*orderupdate.Payload)
	}).Return(nil)

	sw := NewExpirySweeper(&SweeperCfg{OrderRepo: orderRepo, OrderUpdate: orderUpdate})
	n, err := sw.SweepExpired(c, 500)
	req.NoError(err)
	req.Equal(2, n)

	req.Len(patches, 2)
	for id, patch := range patches {
		req.NotNil(patch.FillabilityStatus, string(id))
		req.Equal(order.FillabilityExpired, *patch.FillabilityStatus)
		req.NotNil(patch.UpdatedAt)
	}

	req.Len(published, 2)
	req.Equal(domain.OrderHash("0xaaa"), published[0].Id)
	req.Equal(orderupdate.TriggerExpiry, published[0].Trigger.Kind)
	req.NotEqual(published[0].Context, published[1].Context)
}

func TestSweepExpiredNothingOverdue(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	orderRepo := mOrder.NewRepo(t)
	orderUpdate := mOrderupdate.NewPublisher(t)
	orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*order.Order{}, nil)

	sw := NewExpirySweeper(&SweeperCfg{OrderRepo: orderRepo, OrderUpdate: orderUpdate})
	n, err := sw.SweepExpired(c, 500)
	req.NoError(err)
	req.Zero(n)
	orderUpdate.AssertNotCalled(t, "PublishById", mock.Anything, mock.Anything)
}

func TestSweepExpiredPatchFailureSkipsOrder(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	overdue := []*order.Order{
		{ChainId: 1, Id: "0xaaa", FillabilityStatus: order.FillabilityFillable},
		{ChainId: 1, Id: "0xbbb", FillabilityStatus: order.FillabilityFillable},
	}

	orderRepo := mOrder.NewRepo(t)
	orderUpdate := mOrderupdate.NewPublisher(t)
	orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(overdue, nil)
	orderRepo.On("Update", mock.Anything, order.Id{ChainId: 1, Id: "0xaaa"}, mock.Anything).Return(domain.ErrInternalServerError)
	orderRepo.On("Update", mock.Anything, order.Id{ChainId: 1, Id: "0xbbb"}, mock.Anything).Return(nil)

	var published []*orderupdate.Payload
	orderUpdate.On("PublishById", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]*orderupdate.Payload)
	}).Return(nil)

	sw := NewExpirySweeper(&SweeperCfg{OrderRepo: orderRepo, OrderUpdate: orderUpdate})
	n, err := sw.SweepExpired(c, 500)
	req.NoError(err)
	req.Equal(1, n)
	req.Len(published, 1)
	req.Equal(domain.OrderHash("0xbbb"), published[0].Id)
}
