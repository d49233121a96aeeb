package usecase

import (
	"math/big"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/activity"
	"github.com/floorbook/goapi/domain/currency"
	"github.com/floorbook/goapi/domain/jobqueue"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderevent"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/domain/token"
	"github.com/floorbook/goapi/domain/tokenset"
)

type UseCaseCfg struct {
	OrderRepo      order.Repo
	OrderEventRepo orderevent.Repo
	ActivityRepo   activity.Repo
	TokenSet       tokenset.UseCase
	Token          token.UseCase
	Currency       currency.UseCase
	Revalidator    order.Revalidator
	JobQueue       jobqueue.Publisher
}

type impl struct {
	orderupdate.Publisher

	order       order.Repo
	orderEvent  orderevent.Repo
	activity    activity.Repo
	tokenSet    tokenset.UseCase
	token       token.UseCase
	currency    currency.UseCase
	revalidator order.Revalidator
	met         metrics.Service
}

func New(cfg *UseCaseCfg) orderupdate.UseCase {
	return &impl{
		Publisher:   NewPublisher(cfg.JobQueue),
		order:       cfg.OrderRepo,
		orderEvent:  cfg.OrderEventRepo,
		activity:    cfg.ActivityRepo,
		tokenSet:    cfg.TokenSet,
		token:       cfg.Token,
		currency:    cfg.Currency,
		revalidator: cfg.Revalidator,
		met:         metrics.New("orderupdate"),
	}
}

func (im *impl) ProcessById(c ctx.Ctx, payload *orderupdate.Payload) error {
	defer im.met.BumpTime("process.time", "trigger", string(payload.Trigger.Kind)).End()

	// a payload without an order id has nothing to propagate
	if payload.Id == "" {
		return nil
	}

	o, err := im.order.FindOne(c, order.Id{ChainId: payload.ChainId, Id: payload.Id})
	if err == domain.ErrNotFound {
		c.WithFields(log.Fields{"id": payload.Id, "context": payload.Context}).Warn("order vanished before propagation")
		return nil
	} else if err != nil {
		return err
	}

	// revalidation triggers re-run the off-chain check first so the audit
	// row records the order's new state, not the stale one
	switch payload.Trigger.Kind {
	case orderupdate.TriggerBalanceChange, orderupdate.TriggerApprovalChange,
		orderupdate.TriggerRevalidation, orderupdate.TriggerReorg:
		if _, err := im.revalidator.Revalidate(c, o); err != nil {
			return err
		}
	}

	// the audit row always lands before any user-facing side effect
	if err := im.storeOrderEvent(c, o, payload); err != nil {
		return err
	}

	if err := im.storeActivity(c, o, payload); err != nil {
		return err
	}

	if payload.Trigger.Kind == orderupdate.TriggerNewOrder {
		if err := im.sweepOutpricedListings(c, o); err != nil {
			return err
		}
	}

	im.recomputeTokenCaches(c, o)
	return nil
}

// recomputeTokenCaches refreshes the floor or top bid of the tokens the
// order covers. Wider sets fan out across their member tokens so a
// contract-wide bid still surfaces as a top bid.
func (im *impl) recomputeTokenCaches(c ctx.Ctx, o *order.Order) {
	ts, err := im.tokenSet.Get(c, tokenset.Id{ChainId: o.ChainId, Id: o.TokenSetId})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "orderId": o.Id}).Warn("token set lookup failed")
		return
	}

	if ts.TokenId != nil {
		id := token.Id{ChainId: o.ChainId, Contract: o.Contract, TokenId: *ts.TokenId}
		if o.Side == order.SideSell {
			err = im.token.RecomputeFloorAsk(c, id)
		} else {
			err = im.token.RecomputeTopBid(c, id)
		}
	} else if o.Side == order.SideSell {
		err = im.token.RecomputeSetFloorAsks(c, o.ChainId, o.TokenSetId)
	} else {
		err = im.token.RecomputeSetTopBids(c, o.ChainId, o.TokenSetId)
	}
	if err != nil {
		c.WithFields(log.Fields{"err": err, "orderId": o.Id}).Warn("token cache recompute failed")
	}
}

func (im *impl) storeOrderEvent(c ctx.Ctx, o *order.Order, payload *orderupdate.Payload) error {
	price := o.Price
	value := o.NormalizedValue
	// whitelisted currencies have no usable rate, events carry zero
	if im.currency.IsWhitelisted(c, currency.Id{ChainId: o.ChainId, Contract: o.Currency}) {
		price = "0"
		value = "0"
	}

	var tokenId domain.TokenId
	if ts, err := im.tokenSet.Get(c, tokenset.Id{ChainId: o.ChainId, Id: o.TokenSetId}); err == nil && ts.TokenId != nil {
		tokenId = *ts.TokenId
	}

	return im.orderEvent.Store(c, &orderevent.Event{
		ChainId:                o.ChainId,
		Kind:                   string(payload.Trigger.Kind),
		Status:                 orderevent.StatusOf(o.FillabilityStatus, o.ApprovalStatus),
		Contract:               o.Contract,
		TokenId:                tokenId,
		OrderId:                o.Id,
		OrderKind:              o.Kind,
		OrderSourceId:          o.SourceId,
		OrderTokenSetId:        o.TokenSetId,
		OrderQuantityRemaining: o.QuantityRemaining,
		OrderNonce:             o.Nonce,
		OrderCurrency:          o.Currency,
		OrderCurrencyPrice:     o.CurrencyPrice,
		OrderNormalizedValue:   value,
		Maker:                  o.Maker,
		Price:                  price,
		ValidFrom:              o.ValidFrom,
		ValidUntil:             o.ValidUntil,
		TxHash:                 payload.Trigger.TxHash,
		TxTimestamp:            payload.Trigger.TxTimestamp,
	})
}

// storeActivity writes a feed entry for cancels, and for new or repriced
// orders that are live. Every other trigger is bookkeeping only.
func (im *impl) storeActivity(c ctx.Ctx, o *order.Order, payload *orderupdate.Payload) error {
	var typ activity.Type
	switch payload.Trigger.Kind {
	case orderupdate.TriggerCancel:
		typ = activity.TypeAskCancel
		if o.Side == order.SideBuy {
			typ = activity.TypeBidCancel
		}
	case orderupdate.TriggerNewOrder, orderupdate.TriggerReprice:
		if !o.IsActive() {
			return nil
		}
		typ = activity.TypeAsk
		if o.Side == order.SideBuy {
			typ = activity.TypeBid
		}
	default:
		return nil
	}

	var tokenId domain.TokenId
	if ts, err := im.tokenSet.Get(c, tokenset.Id{ChainId: o.ChainId, Id: o.TokenSetId}); err == nil && ts.TokenId != nil {
		tokenId = *ts.TokenId
	}

	return im.activity.Upsert(c, &activity.Activity{
		ChainId:     o.ChainId,
		Type:        typ,
		Hash:        keys.MD5(payload.Context),
		Contract:    o.Contract,
		TokenId:     tokenId,
		OrderId:     o.Id,
		FromAddress: o.Maker,
		Price:       o.Price,
		Currency:    o.Currency,
		Amount:      o.QuantityRemaining,
		SourceId:    o.SourceId,
		TxHash:      payload.Trigger.TxHash,
		BlockHash:   payload.Trigger.BlockHash,
		LogIndex:    payload.Trigger.LogIndex,
		BatchIndex:  payload.Trigger.BatchIndex,
		Timestamp:   time.Now().UTC(),
	})
}

// sweepOutpricedListings retires a maker's pricier x2y2 listings on the
// same criteria. The marketplace treats a fresh cheaper listing as an
// implicit cancel of the older ones.
func (im *impl) sweepOutpricedListings(c ctx.Ctx, o *order.Order) error {
	if o.Kind != order.KindX2Y2 || o.Side != order.SideSell {
		return nil
	}

	newPrice, ok := new(big.Int).SetString(o.CurrencyPrice, 10)
	if !ok {
		return nil
	}

	others, err := im.order.FindAll(c,
		order.WithChainId(o.ChainId),
		order.WithKind(order.KindX2Y2),
		order.WithSide(order.SideSell),
		order.WithMaker(o.Maker),
		order.WithTokenSetId(o.TokenSetId),
		order.WithFillabilityStatus(order.FillabilityFillable),
	)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, other := range others {
		if other.Id == o.Id {
			continue
		}
		otherPrice, ok := new(big.Int).SetString(other.CurrencyPrice, 10)
		if !ok || otherPrice.Cmp(newPrice) <= 0 {
			continue
		}
		im.met.BumpSum("sweep.outpriced", 1)
		cancelled := order.FillabilityCancelled
		err := im.order.Update(c, other.ToId(), order.Patchable{
			FillabilityStatus: &cancelled,
			UpdatedAt:         &now,
		})
		if err != nil && err != domain.ErrNotFound {
			return err
		}
		if err := im.PublishById(c, []*orderupdate.Payload{{
			Context: orderupdate.CancelledContext(other.Id, "off-chain", 0, 0),
			ChainId: other.ChainId,
			Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerCancel},
			Id:      other.Id,
		}}); err != nil {
			return err
		}
	}
	return nil
}
