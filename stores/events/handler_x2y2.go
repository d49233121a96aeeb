package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
)

// x2y2Handler decodes marketplace logs into fills and cancels. EvInventory
// payloads are deeply nested, only the leading static words are read and
// the rest comes from the stored order during enrichment.
type x2y2Handler struct{}

func NewX2Y2Handler() exchange.Handler {
	return &x2y2Handler{}
}

func (h *x2y2Handler) Kind() exchange.EventKind {
	return exchange.EventKindX2Y2
}

func (h *x2y2Handler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "x2y2-order-filled":
			itemHash := dataWord(ev.Log.Data, 0)
			maker := dataWord(ev.Log.Data, 1)
			taker := dataWord(ev.Log.Data, 2)
			if itemHash == nil || maker == nil || taker == nil {
				continue
			}
			data.FillEvents = append(data.FillEvents, &fill.Event{
				ChainId:     ev.ChainId,
				OrderKind:   order.KindX2Y2,
				OrderId:     domain.OrderHash(hexutil.Encode(itemHash)).ToLower(),
				Maker:       domain.Address(hexutil.Encode(maker[12:])).ToLower(),
				Taker:       domain.Address(hexutil.Encode(taker[12:])).ToLower(),
				BlockNumber: ev.Meta.BlockNumber,
				BlockHash:   ev.Meta.BlockHash,
				TxHash:      ev.Meta.TxHash,
				TxIndex:     ev.Meta.TxIndex,
				LogIndex:    ev.Meta.LogIndex,
				BatchIndex:  ev.Meta.BatchIndex,
				Timestamp:   ev.Meta.BlockTime,
			})
		case "x2y2-order-cancelled":
			var itemHash []byte
			if len(ev.Log.Topics) > 1 {
				itemHash = ev.Log.Topics[1].Bytes()
			} else {
				itemHash = dataWord(ev.Log.Data, 0)
			}
			if itemHash == nil {
				continue
			}
			data.CancelEvents = append(data.CancelEvents, &fill.CancelEvent{
				ChainId:     ev.ChainId,
				OrderKind:   order.KindX2Y2,
				OrderId:     domain.OrderHash(hexutil.Encode(itemHash)).ToLower(),
				BlockNumber: ev.Meta.BlockNumber,
				BlockHash:   ev.Meta.BlockHash,
				TxHash:      ev.Meta.TxHash,
				TxIndex:     ev.Meta.TxIndex,
				LogIndex:    ev.Meta.LogIndex,
				BatchIndex:  ev.Meta.BatchIndex,
				Timestamp:   ev.Meta.BlockTime,
			})
		}
	}
	return nil
}
