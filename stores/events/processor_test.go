package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	mActivity "github.com/floorbook/goapi/domain/activity/mocks"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	mFill "github.com/floorbook/goapi/domain/fill/mocks"
	mJobqueue "github.com/floorbook/goapi/domain/jobqueue/mocks"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
	"github.com/floorbook/goapi/domain/orderupdate"
	mOrderupdate "github.com/floorbook/goapi/domain/orderupdate/mocks"
	"github.com/floorbook/goapi/domain/source"
	mSource "github.com/floorbook/goapi/domain/source/mocks"
)

// stubHandler emits pre-baked on-chain data for its kind
type stubHandler struct {
	kind exchange.EventKind
	data *exchange.OnChainData
}

func (h *stubHandler) Kind() exchange.EventKind { return h.kind }

func (h *stubHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	data.Merge(h.data)
	return nil
}

func TestCollectFillInfos(t *testing.T) {
	req := require.New(t)
	p := NewProcessor(&ProcessorCfg{}).(*processorImpl)

	handlerInfo := &exchange.FillInfo{
		Context: orderupdate.FilledContext("0xaaa", "0xtx1"),
		OrderId: "0xaaa",
		Price:   "override",
	}
	data := &exchange.OnChainData{
		FillInfos: []*exchange.FillInfo{handlerInfo},
		FillEvents: []*fill.Event{
			{ChainId: 1, OrderId: "0xaaa", TxHash: "0xtx1", Price: "derived"},
			{ChainId: 1, OrderId: "0xbbb", TxHash: "0xtx1", Price: "100"},
			{ChainId: 1, TxHash: "0xtx1", LogIndex: 7, BatchIndex: 0, Price: "50"},
		},
	}

	p.collectFillInfos(data)

	req.Len(data.FillInfos, 3)
	// the handler's own info wins over the derived one
	req.Same(handlerInfo, data.FillInfos[0])
	req.Equal("override", data.FillInfos[0].Price)

	req.Equal(orderupdate.FilledContext("0xbbb", "0xtx1"), data.FillInfos[1].Context)
	req.Equal("100", data.FillInfos[1].Price)

	// orderless fills key on log position
	req.Equal("filled:0xtx1:7:0", data.FillInfos[2].Context)

	// re-collecting is a no-op
	p.collectFillInfos(data)
	req.Len(data.FillInfos, 3)
}

func TestProcessEventsBatchAppliesFills(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	chainId := domain.ChainId(1)
	orderId := domain.OrderHash("0x2f4fdff9082aede554f65adce4468e7ce84aceb74363f4ea64e5a038176f3690")
	txHash := domain.TxHash("0xb32c0eefd9f89677fd7e7dfe4bd8683d5a41fae3a47a5d530d75dc410c60bc81")
	ts := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	o := &order.Order{
		ChainId:           chainId,
		Id:                orderId,
		Kind:              "seaport",
		Side:              order.SideSell,
		FillabilityStatus: order.FillabilityFillable,
		ApprovalStatus:    order.ApprovalApproved,
		Maker:             "0xce4468e7ce84aceb74363f4ea64e5a038176f369",
		Contract:          "0xdcf0de6b17785a143d006e1515a6afd123cde8ba",
		TokenSetId:        "token:0xdcf0de6b17785a143d006e1515a6afd123cde8ba:5",
		QuantityRemaining: "2",
		QuantityFilled:    "0",
	}

	fillRepo := mFill.NewRepo(t)
	orderRepo := mOrder.NewRepo(t)
	sourceUC := mSource.NewUseCase(t)
	orderUpdate := mOrderupdate.NewPublisher(t)
	jobQueue := mJobqueue.NewPublisher(t)

	orderRepo.On("FindOne", mock.Anything, order.Id{ChainId: chainId, Id: orderId}).Return(o, nil)
	sourceUC.On("Attribute", mock.Anything, "seaport", mock.Anything, "").Return(&source.Attribution{}, nil)
	fillRepo.On("StoreEvents", mock.Anything, mock.Anything).Return(nil)

	var patched order.Patchable
	orderRepo.On("Update", mock.Anything, o.ToId(), mock.Anything).Run(func(args mock.Arguments) {
		patched = args.Get(2).(order.Patchable)
	}).Return(nil)

	var published []*orderupdate.Payload
	orderUpdate.On("PublishById", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]*orderupdate.Payload)
	}).Return(nil)

	jobQueue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	p := NewProcessor(&ProcessorCfg{
		FillRepo:    fillRepo,
		OrderRepo:   orderRepo,
		Source:      sourceUC,
		OrderUpdate: orderUpdate,
		JobQueue:    jobQueue,
		Handlers: []exchange.Handler{&stubHandler{
			kind: exchange.EventKindSeaport,
			data: &exchange.OnChainData{
				FillEvents: []*fill.Event{{
					ChainId:   chainId,
					OrderKind: "seaport",
					OrderId:   orderId,
					OrderSide: order.SideSell,
					Taker:     "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad",
					Amount:    "1",
					TxHash:    txHash,
					LogIndex:  5,
					Timestamp: ts,
				}},
			},
		}},
	})

	batch := &exchange.EventsBatch{
		Id:      "batch-1",
		ChainId: chainId,
		Events: []exchange.EventsByKind{
			{Kind: exchange.EventKindSeaport, Events: []*exchange.EnhancedEvent{{Kind: exchange.EventKindSeaport}}},
		},
	}

	req.NoError(p.ProcessEventsBatch(c, batch))

	// a partial fill decrements the remaining quantity without flipping
	// the order to filled
	req.NotNil(patched.QuantityRemaining)
	req.Equal("1", *patched.QuantityRemaining)
	req.NotNil(patched.QuantityFilled)
	req.Equal("1", *patched.QuantityFilled)
	req.Nil(patched.FillabilityStatus)

	req.Len(published, 1)
	req.Equal(orderupdate.FilledContext(orderId, txHash), published[0].Context)
	req.Equal(orderupdate.TriggerSale, published[0].Trigger.Kind)
	req.Equal(orderId, published[0].Id)
}

func TestProcessEventsBatchFinalFillFlipsStatus(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	chainId := domain.ChainId(1)
	orderId := domain.OrderHash("0xaaa")
	o := &order.Order{
		ChainId:           chainId,
		Id:                orderId,
		Kind:              "seaport",
		Side:              order.SideSell,
		FillabilityStatus: order.FillabilityFillable,
		QuantityRemaining: "1",
		QuantityFilled:    "1",
	}

	fillRepo := mFill.NewRepo(t)
	orderRepo := mOrder.NewRepo(t)
	sourceUC := mSource.NewUseCase(t)
	orderUpdate := mOrderupdate.NewPublisher(t)
	jobQueue := mJobqueue.NewPublisher(t)

	orderRepo.On("FindOne", mock.Anything, order.Id{ChainId: chainId, Id: orderId}).Return(o, nil)
	sourceUC.On("Attribute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&source.Attribution{}, nil)
	fillRepo.On("StoreEvents", mock.Anything, mock.Anything).Return(nil)

	var patched order.Patchable
	orderRepo.On("Update", mock.Anything, o.ToId(), mock.Anything).Run(func(args mock.Arguments) {
		patched = args.Get(2).(order.Patchable)
	}).Return(nil)
	orderUpdate.On("PublishById", mock.Anything, mock.Anything).Return(nil)
	jobQueue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	p := NewProcessor(&ProcessorCfg{
		FillRepo:    fillRepo,
		OrderRepo:   orderRepo,
		Source:      sourceUC,
		OrderUpdate: orderUpdate,
		JobQueue:    jobQueue,
		Handlers: []exchange.Handler{&stubHandler{
			kind: exchange.EventKindSeaport,
			data: &exchange.OnChainData{
				FillEvents: []*fill.Event{{
					ChainId: chainId,
					OrderId: orderId,
					Amount:  "1",
					TxHash:  "0xtx",
				}},
			},
		}},
	})

	batch := &exchange.EventsBatch{
		Id:      "batch-2",
		ChainId: chainId,
		Events: []exchange.EventsByKind{
			{Kind: exchange.EventKindSeaport, Events: []*exchange.EnhancedEvent{{Kind: exchange.EventKindSeaport}}},
		},
	}
	req.NoError(p.ProcessEventsBatch(c, batch))

	req.Equal("0", *patched.QuantityRemaining)
	req.Equal("2", *patched.QuantityFilled)
	req.NotNil(patched.FillabilityStatus)
	req.Equal(order.FillabilityFilled, *patched.FillabilityStatus)
}

func TestProcessEventsBatchBackfillSkipsPropagation(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	chainId := domain.ChainId(1)
	orderId := domain.OrderHash("0xaaa")
	o := &order.Order{
		ChainId:           chainId,
		Id:                orderId,
		FillabilityStatus: order.FillabilityFillable,
		QuantityRemaining: "1",
	}

	fillRepo := mFill.NewRepo(t)
	orderRepo := mOrder.NewRepo(t)
	sourceUC := mSource.NewUseCase(t)
	orderUpdate := mOrderupdate.NewPublisher(t)
	jobQueue := mJobqueue.NewPublisher(t)

	orderRepo.On("FindOne", mock.Anything, mock.Anything).Return(o, nil)
	sourceUC.On("Attribute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&source.Attribution{}, nil)
	fillRepo.On("StoreEvents", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	p := NewProcessor(&ProcessorCfg{
		FillRepo:    fillRepo,
		OrderRepo:   orderRepo,
		Source:      sourceUC,
		OrderUpdate: orderUpdate,
		JobQueue:    jobQueue,
		Handlers: []exchange.Handler{&stubHandler{
			kind: exchange.EventKindSeaport,
			data: &exchange.OnChainData{
				FillEvents: []*fill.Event{{ChainId: chainId, OrderId: orderId, Amount: "1", TxHash: "0xtx"}},
			},
		}},
	})

	batch := &exchange.EventsBatch{
		Id:       "batch-3",
		ChainId:  chainId,
		Backfill: true,
		Events: []exchange.EventsByKind{
			{Kind: exchange.EventKindSeaport, Events: []*exchange.EnhancedEvent{{Kind: exchange.EventKindSeaport}}},
		},
	}
	req.NoError(p.ProcessEventsBatch(c, batch))

	// backfill neither publishes order updates nor fill post-process jobs
	orderUpdate.AssertNotCalled(t, "PublishById", mock.Anything, mock.Anything)
	jobQueue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestApplyCancelsSkipsAlreadyCancelled(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	chainId := domain.ChainId(1)
	orderRepo := mOrder.NewRepo(t)
	orderRepo.On("FindOne", mock.Anything, order.Id{ChainId: chainId, Id: "0xaaa"}).Return(&order.Order{
		ChainId:           chainId,
		Id:                "0xaaa",
		FillabilityStatus: order.FillabilityCancelled,
	}, nil)

	p := NewProcessor(&ProcessorCfg{OrderRepo: orderRepo}).(*processorImpl)
	payloads := p.applyCancels(c, []*fill.CancelEvent{
		{ChainId: chainId, OrderId: "0xaaa", TxHash: "0xtx"},
	})
	req.Empty(payloads)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRollbackBlock(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	chainId := domain.ChainId(1)
	blockNumber := domain.BlockNumber(100)
	blockHash := domain.BlockHash("0xstale")

	fillRepo := mFill.NewRepo(t)
	activityRepo := mActivity.NewRepo(t)
	orderUpdate := mOrderupdate.NewPublisher(t)

	fillRepo.On("FindAllEvents", mock.Anything, mock.Anything, mock.Anything).Return([]*fill.Event{
		{ChainId: chainId, OrderId: "0xaaa", TxHash: "0xtx1"},
		{ChainId: chainId, OrderId: "0xaaa", TxHash: "0xtx2"},
		{ChainId: chainId, OrderId: "0xbbb", TxHash: "0xtx2"},
		{ChainId: chainId, TxHash: "0xtx3"},
	}, nil)
	fillRepo.On("RemoveAllByBlock", mock.Anything, chainId, blockNumber, blockHash).Return(nil)
	activityRepo.On("RemoveAllByBlock", mock.Anything, chainId, blockNumber, blockHash).Return(nil)

	var published []*orderupdate.Payload
	orderUpdate.On("PublishById", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]*orderupdate.Payload)
	}).Return(nil)

	p := NewProcessor(&ProcessorCfg{
		FillRepo:     fillRepo,
		ActivityRepo: activityRepo,
		OrderUpdate:  orderUpdate,
	})

	req.NoError(p.RollbackBlock(c, chainId, blockNumber, blockHash))

	// one revalidation per distinct order, orderless fills are skipped
	req.Len(published, 2)
	req.Equal(domain.OrderHash("0xaaa"), published[0].Id)
	req.Equal(domain.OrderHash("0xbbb"), published[1].Id)
	req.Equal(orderupdate.TriggerReorg, published[0].Trigger.Kind)
	req.Equal(blockHash, published[0].Trigger.BlockHash)
}
