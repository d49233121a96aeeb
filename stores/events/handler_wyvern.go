package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
)

// wyvern is a legacy protocol, sales are still recorded but no new orders
// are ingested for it
type wyvernHandler struct {
	orderRepo order.Repo
}

func NewWyvernHandler(orderRepo order.Repo) exchange.Handler {
	return &wyvernHandler{orderRepo: orderRepo}
}

func (h *wyvernHandler) Kind() exchange.EventKind {
	return exchange.EventKindWyvern
}

func (h *wyvernHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		if ev.SubKind != "wyvern-orders-matched" || len(ev.Log.Topics) < 3 {
			continue
		}
		buyHash := dataWord(ev.Log.Data, 0)
		sellHash := dataWord(ev.Log.Data, 1)
		priceWord := dataWord(ev.Log.Data, 2)
		if buyHash == nil || sellHash == nil || priceWord == nil {
			continue
		}

		// the zero hash marks the taker side of the match
		side := order.SideSell
		orderHash := sellHash
		if new(big.Int).SetBytes(sellHash).Sign() == 0 {
			side = order.SideBuy
			orderHash = buyHash
		}
		orderId := domain.OrderHash(hexutil.Encode(orderHash)).ToLower()

		event := &fill.Event{
			ChainId:       ev.ChainId,
			OrderKind:     order.KindWyvernV23,
			OrderId:       orderId,
			OrderSide:     side,
			Maker:         topicAddress(ev.Log.Topics[1]),
			Taker:         topicAddress(ev.Log.Topics[2]),
			Currency:      domain.NativeAddress,
			Amount:        "1",
			CurrencyPrice: new(big.Int).SetBytes(priceWord).String(),
			BlockNumber:   ev.Meta.BlockNumber,
			BlockHash:     ev.Meta.BlockHash,
			TxHash:        ev.Meta.TxHash,
			TxIndex:       ev.Meta.TxIndex,
			LogIndex:      ev.Meta.LogIndex,
			BatchIndex:    ev.Meta.BatchIndex,
			Timestamp:     ev.Meta.BlockTime,
		}
		if o, err := h.orderRepo.FindOne(c, order.Id{ChainId: ev.ChainId, Id: orderId}); err == nil {
			event.Contract = o.Contract
			event.TokenId = singleTokenId(o.TokenSetId)
			event.Currency = o.Currency
		}
		data.FillEvents = append(data.FillEvents, event)
	}
	return nil
}
