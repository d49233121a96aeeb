package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/activity"
	mActivity "github.com/floorbook/goapi/domain/activity/mocks"
	mCurrency "github.com/floorbook/goapi/domain/currency/mocks"
	mJobqueue "github.com/floorbook/goapi/domain/jobqueue/mocks"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
	"github.com/floorbook/goapi/domain/orderevent"
	mOrderevent "github.com/floorbook/goapi/domain/orderevent/mocks"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/domain/token"
	mToken "github.com/floorbook/goapi/domain/token/mocks"
	"github.com/floorbook/goapi/domain/tokenset"
	mTokenset "github.com/floorbook/goapi/domain/tokenset/mocks"
)

const (
	testContract = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	testMaker    = domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
)

type processMocks struct {
	order       *mOrder.Repo
	orderEvent  *mOrderevent.Repo
	activity    *mActivity.Repo
	tokenSet    *mTokenset.UseCase
	token       *mToken.UseCase
	currency    *mCurrency.UseCase
	revalidator *mOrder.Revalidator
	jobQueue    *mJobqueue.Publisher

	// side effects in the order they landed
	calls *[]string
}

func newProcessUseCase(t *testing.T) (orderupdate.UseCase, *processMocks) {
	m := &processMocks{
		order:       mOrder.NewRepo(t),
		orderEvent:  mOrderevent.NewRepo(t),
		activity:    mActivity.NewRepo(t),
		tokenSet:    mTokenset.NewUseCase(t),
		token:       mToken.NewUseCase(t),
		currency:    mCurrency.NewUseCase(t),
		revalidator: mOrder.NewRevalidator(t),
		jobQueue:    mJobqueue.NewPublisher(t),
		calls:       &[]string{},
	}
	uc := New(&UseCaseCfg{
		OrderRepo:      m.order,
		OrderEventRepo: m.orderEvent,
		ActivityRepo:   m.activity,
		TokenSet:       m.tokenSet,
		Token:          m.token,
		Currency:       m.currency,
		Revalidator:    m.revalidator,
		JobQueue:       m.jobQueue,
	})
	return uc, m
}

func (m *processMocks) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) { *m.calls = append(*m.calls, name) }
}

func singleTokenAsk() (*order.Order, *tokenset.TokenSet) {
	tokenId := domain.TokenId("123")
	o := &order.Order{
		ChainId:           1,
		Id:                "0x00000000000000000000000000000000000000000000000000000000000000aa",
		Kind:              order.KindSeaport,
		Side:              order.SideSell,
		Maker:             testMaker,
		Contract:          testContract,
		TokenSetId:        tokenset.SingleTokenId(testContract, tokenId),
		Currency:          domain.NativeAddress,
		Price:             "1000",
		CurrencyPrice:     "1000",
		Value:             "975",
		NormalizedValue:   "975",
		QuantityRemaining: "1",
		FillabilityStatus: order.FillabilityFillable,
		ApprovalStatus:    order.ApprovalApproved,
		ValidUntil:        time.Now().Add(time.Hour).UTC(),
	}
	ts := &tokenset.TokenSet{
		ChainId:  1,
		Id:       o.TokenSetId,
		Kind:     tokenset.KindSingleToken,
		Contract: testContract,
		TokenId:  &tokenId,
	}
	return o, ts
}

func contractWideBid() (*order.Order, *tokenset.TokenSet) {
	o, _ := singleTokenAsk()
	o.Side = order.SideBuy
	o.TokenSetId = tokenset.ContractWideId(testContract)
	ts := &tokenset.TokenSet{
		ChainId:  1,
		Id:       o.TokenSetId,
		Kind:     tokenset.KindContractWide,
		Contract: testContract,
	}
	return o, ts
}

// a new active listing lands an audit row first, then the activity feed
// entry, then the floor refresh
func TestProcessByIdNewOrder(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newProcessUseCase(t)

	o, ts := singleTokenAsk()
	payload := &orderupdate.Payload{
		Context: orderupdate.NewOrderContext(o.Id),
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerNewOrder},
		Id:      o.Id,
	}

	m.order.On("FindOne", mock.Anything, o.ToId()).Return(o, nil)
	m.tokenSet.On("Get", mock.Anything, tokenset.Id{ChainId: 1, Id: o.TokenSetId}).Return(ts, nil)
	m.currency.On("IsWhitelisted", mock.Anything, mock.Anything).Return(false)

	var event *orderevent.Event
	m.orderEvent.On("Store", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		m.record("event")(args)
		event = args.Get(1).(*orderevent.Event)
	}).Return(nil)

	var act *activity.Activity
	m.activity.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		m.record("activity")(args)
		act = args.Get(1).(*activity.Activity)
	}).Return(nil)

	m.token.On("RecomputeFloorAsk", mock.Anything, token.Id{ChainId: 1, Contract: testContract, TokenId: "123"}).
		Run(m.record("recompute")).Return(nil)

	req.NoError(uc.ProcessById(c, payload))

	// the audit row always precedes the user-facing side effects
	req.Equal([]string{"event", "activity", "recompute"}, *m.calls)

	req.Equal(orderevent.StatusActive, event.Status)
	req.Equal(string(orderupdate.TriggerNewOrder), event.Kind)
	req.Equal(domain.TokenId("123"), event.TokenId)
	req.Equal("1000", event.Price)
	req.Equal("975", event.OrderNormalizedValue)

	req.Equal(activity.TypeAsk, act.Type)
	req.Equal(keys.MD5(payload.Context), act.Hash)
	req.Equal(o.Id, act.OrderId)
}

// a bid on a whole contract fans the top bid recompute out across the
// set instead of being dropped on the floor
func TestProcessByIdContractWideBid(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newProcessUseCase(t)

	o, ts := contractWideBid()
	payload := &orderupdate.Payload{
		Context: orderupdate.NewOrderContext(o.Id),
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerNewOrder},
		Id:      o.Id,
	}

	m.order.On("FindOne", mock.Anything, o.ToId()).Return(o, nil)
	m.tokenSet.On("Get", mock.Anything, tokenset.Id{ChainId: 1, Id: o.TokenSetId}).Return(ts, nil)
	m.currency.On("IsWhitelisted", mock.Anything, mock.Anything).Return(false)
	m.orderEvent.On("Store", mock.Anything, mock.Anything).Return(nil)

	var act *activity.Activity
	m.activity.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		act = args.Get(1).(*activity.Activity)
	}).Return(nil)

	m.token.On("RecomputeSetTopBids", mock.Anything, domain.ChainId(1), o.TokenSetId).Return(nil)

	req.NoError(uc.ProcessById(c, payload))
	req.Equal(activity.TypeBid, act.Type)
	// no single token to pin the feed entry to
	req.Empty(act.TokenId)
}

// repricing an order that is no longer live keeps the audit trail but
// stays out of the activity feed
func TestProcessByIdRepriceInactive(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newProcessUseCase(t)

	o, ts := singleTokenAsk()
	o.ApprovalStatus = order.ApprovalNoApproval
	payload := &orderupdate.Payload{
		Context: orderupdate.RepriceContext(o.Id, "0xtx"),
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerReprice, TxHash: "0xtx"},
		Id:      o.Id,
	}

	m.order.On("FindOne", mock.Anything, o.ToId()).Return(o, nil)
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.currency.On("IsWhitelisted", mock.Anything, mock.Anything).Return(false)

	var event *orderevent.Event
	m.orderEvent.On("Store", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		event = args.Get(1).(*orderevent.Event)
	}).Return(nil)
	m.token.On("RecomputeFloorAsk", mock.Anything, mock.Anything).Return(nil)

	req.NoError(uc.ProcessById(c, payload))
	req.Equal(orderevent.StatusInactive, event.Status)
	m.activity.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// revalidation triggers re-check the order before the audit row lands,
// so the row reflects the fresh state
func TestProcessByIdRevalidationRechecks(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newProcessUseCase(t)

	o, ts := singleTokenAsk()
	payload := &orderupdate.Payload{
		Context: orderupdate.RevalidationContext(orderupdate.TriggerRevalidation, o.Id, ""),
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerRevalidation},
		Id:      o.Id,
	}

	m.order.On("FindOne", mock.Anything, o.ToId()).Return(o, nil)
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.currency.On("IsWhitelisted", mock.Anything, mock.Anything).Return(false)

	m.revalidator.On("Revalidate", mock.Anything, o).
		Run(m.record("revalidate")).Return(true, nil)
	m.orderEvent.On("Store", mock.Anything, mock.Anything).
		Run(m.record("event")).Return(nil)
	m.token.On("RecomputeFloorAsk", mock.Anything, mock.Anything).Return(nil)

	req.NoError(uc.ProcessById(c, payload))
	req.Equal([]string{"revalidate", "event"}, *m.calls)
	m.activity.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// whitelisted currencies have no usable rate, so their audit rows carry
// zero prices
func TestProcessByIdWhitelistedCurrencyZeroesPrice(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newProcessUseCase(t)

	o, ts := singleTokenAsk()
	payload := &orderupdate.Payload{
		Context: orderupdate.NewOrderContext(o.Id),
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerNewOrder},
		Id:      o.Id,
	}

	m.order.On("FindOne", mock.Anything, o.ToId()).Return(o, nil)
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.currency.On("IsWhitelisted", mock.Anything, mock.Anything).Return(true)

	var event *orderevent.Event
	m.orderEvent.On("Store", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		event = args.Get(1).(*orderevent.Event)
	}).Return(nil)
	m.activity.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.token.On("RecomputeFloorAsk", mock.Anything, mock.Anything).Return(nil)

	req.NoError(uc.ProcessById(c, payload))
	req.Equal("0", event.Price)
	req.Equal("0", event.OrderNormalizedValue)
}

// payloads without an order id have nothing to propagate
func TestProcessByIdEmptyId(t *testing.T) {
	req := require.New(t)
	uc, _ := newProcessUseCase(t)

	req.NoError(uc.ProcessById(ctx.Background(), &orderupdate.Payload{
		Context: "noop",
		ChainId: 1,
		Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerReprice},
	}))
}
