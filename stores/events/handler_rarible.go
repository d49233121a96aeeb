package events

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
)

// rarible style matches only carry the two order hashes on the wire, the
// side, token and price come from the stored order
type raribleHandler struct {
	kind      exchange.EventKind
	orderKind order.Kind
	orderRepo order.Repo
}

func NewRaribleHandler(orderRepo order.Repo) exchange.Handler {
	return &raribleHandler{
		kind:      exchange.EventKindRarible,
		orderKind: order.KindRarible,
		orderRepo: orderRepo,
	}
}

func NewUniverseHandler(orderRepo order.Repo) exchange.Handler {
	return &raribleHandler{
		kind:      exchange.EventKindUniverse,
		orderKind: order.KindUniverse,
		orderRepo: orderRepo,
	}
}

func (h *raribleHandler) Kind() exchange.EventKind {
	return h.kind
}

func (h *raribleHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "rarible-match", "universe-match":
			h.handleMatch(c, ev, data)
		case "rarible-cancel", "universe-cancel":
			h.handleCancel(c, ev, data)
		}
	}
	return nil
}

func (h *raribleHandler) handleMatch(c ctx.Ctx, ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	leftHash := dataWord(ev.Log.Data, 0)
	rightHash := dataWord(ev.Log.Data, 1)
	if leftHash == nil || rightHash == nil {
		return
	}

	// either side of the match may be an order we ingested
	hashes := []domain.OrderHash{
		domain.OrderHash(hexutil.Encode(leftHash)).ToLower(),
		domain.OrderHash(hexutil.Encode(rightHash)).ToLower(),
	}
	for i, hash := range hashes {
		o := h.lookupOrder(c, ev.ChainId, hash)
		if o == nil {
			continue
		}
		event := &fill.Event{
			ChainId:       ev.ChainId,
			OrderKind:     h.orderKind,
			OrderId:       o.Id,
			OrderSide:     o.Side,
			Maker:         o.Maker,
			Contract:      o.Contract,
			TokenId:       singleTokenId(o.TokenSetId),
			Amount:        o.QuantityRemaining,
			Currency:      o.Currency,
			CurrencyPrice: o.CurrencyPrice,
			BlockNumber:   ev.Meta.BlockNumber,
			BlockHash:     ev.Meta.BlockHash,
			TxHash:        ev.Meta.TxHash,
			TxIndex:       ev.Meta.TxIndex,
			LogIndex:      ev.Meta.LogIndex,
			BatchIndex:    ev.Meta.BatchIndex + uint(i),
			Timestamp:     ev.Meta.BlockTime,
		}
		data.FillEvents = append(data.FillEvents, event)
	}
}

func (h *raribleHandler) handleCancel(c ctx.Ctx, ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	hashWord := dataWord(ev.Log.Data, 0)
	if hashWord == nil {
		return
	}
	orderId := domain.OrderHash(hexutil.Encode(hashWord)).ToLower()

	maker := domain.Address("")
	if makerWord := dataWord(ev.Log.Data, 1); h.kind == exchange.EventKindUniverse && makerWord != nil {
		maker = domain.Address(hexutil.Encode(makerWord[12:])).ToLower()
	} else if o := h.lookupOrder(c, ev.ChainId, orderId); o != nil {
		maker = o.Maker
	}

	data.CancelEvents = append(data.CancelEvents, &fill.CancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   h.orderKind,
		OrderId:     orderId,
		Maker:       maker,
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		BatchIndex:  ev.Meta.BatchIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}

func (h *raribleHandler) lookupOrder(c ctx.Ctx, chainId domain.ChainId, id domain.OrderHash) *order.Order {
	o, err := h.orderRepo.FindOne(c, order.Id{ChainId: chainId, Id: id})
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{"err": err, "orderId": id}).Warn("order lookup by hash failed")
		}
		return nil
	}
	return o
}

// singleTokenId extracts the token id of a single token set, empty for
// wider sets
func singleTokenId(id domain.TokenSetId) domain.TokenId {
	parts := strings.Split(string(id), ":")
	if len(parts) == 3 && parts[0] == "token" {
		return domain.TokenId(parts[2])
	}
	return ""
}
