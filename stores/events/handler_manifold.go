package events

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/service/chain"
)

// manifold listings live on chain and are keyed by listing id. Older
// purchase logs carry a zero amount, the paid value is then recovered
// from the transaction trace.
type manifoldHandler struct {
	orderRepo   order.Repo
	chainClient chain.Client
}

func NewManifoldHandler(orderRepo order.Repo, chainClient chain.Client) exchange.Handler {
	return &manifoldHandler{
		orderRepo:   orderRepo,
		chainClient: chainClient,
	}
}

func (h *manifoldHandler) Kind() exchange.EventKind {
	return exchange.EventKindManifold
}

func (h *manifoldHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "manifold-purchase":
			h.handlePurchase(c, ev, data)
		case "manifold-cancel":
			h.handleCancel(ev, data)
		}
	}
	return nil
}

func listingOrderId(exchangeAddr domain.Address, listingId *big.Int) domain.OrderHash {
	return domain.OrderHash(fmt.Sprintf("%s:%s", exchangeAddr, listingId.String())).ToLower()
}

func (h *manifoldHandler) handlePurchase(c ctx.Ctx, ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 2 {
		return
	}
	listingId := topicU256(ev.Log.Topics[1])
	buyerWord := dataWord(ev.Log.Data, 0)
	countWord := dataWord(ev.Log.Data, 1)
	amountWord := dataWord(ev.Log.Data, 2)
	if buyerWord == nil || countWord == nil || amountWord == nil {
		return
	}

	count := new(big.Int).SetBytes(countWord)
	if count.Sign() == 0 {
		count = big.NewInt(1)
	}
	amount := new(big.Int).SetBytes(amountWord)
	if amount.Sign() == 0 {
		amount = h.tracePaidValue(c, ev)
	}
	// price is per unit
	price := new(big.Int).Div(amount, count)

	orderId := listingOrderId(ev.Meta.ContractAddress, listingId)
	event := &fill.Event{
		ChainId:       ev.ChainId,
		OrderKind:     order.KindManifold,
		OrderId:       orderId,
		OrderSide:     order.SideSell,
		Taker:         domain.Address(hexutil.Encode(buyerWord[12:])).ToLower(),
		Amount:        count.String(),
		Currency:      domain.NativeAddress,
		CurrencyPrice: price.String(),
		BlockNumber:   ev.Meta.BlockNumber,
		BlockHash:     ev.Meta.BlockHash,
		TxHash:        ev.Meta.TxHash,
		TxIndex:       ev.Meta.TxIndex,
		LogIndex:      ev.Meta.LogIndex,
		BatchIndex:    ev.Meta.BatchIndex,
		Timestamp:     ev.Meta.BlockTime,
	}
	if o, err := h.orderRepo.FindOne(c, order.Id{ChainId: ev.ChainId, Id: orderId}); err == nil {
		event.Maker = o.Maker
		event.Contract = o.Contract
		event.TokenId = singleTokenId(o.TokenSetId)
		event.Currency = o.Currency
	}
	data.FillEvents = append(data.FillEvents, event)
}

func (h *manifoldHandler) handleCancel(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 2 {
		return
	}
	listingId := topicU256(ev.Log.Topics[1])
	data.CancelEvents = append(data.CancelEvents, &fill.CancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   order.KindManifold,
		OrderId:     listingOrderId(ev.Meta.ContractAddress, listingId),
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		BatchIndex:  ev.Meta.BatchIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}

// tracePaidValue walks the call tree for the native value sent into the
// listing contract
func (h *manifoldHandler) tracePaidValue(c ctx.Ctx, ev *exchange.EnhancedEvent) *big.Int {
	paid := new(big.Int)
	frame, err := h.chainClient.TraceTransaction(c, int32(ev.ChainId), ethcommon.HexToHash(string(ev.Meta.TxHash)))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "txHash": ev.Meta.TxHash}).Warn("trace fallback for purchase value failed")
		return paid
	}
	target := string(ev.Meta.ContractAddress)
	frame.Visit(func(f *chain.CallFrame) bool {
		if !domain.Address(f.To).Equals(domain.Address(target)) || f.Value == "" {
			return true
		}
		if v, err := hexutil.DecodeBig(f.Value); err == nil {
			paid.Add(paid, v)
		}
		return true
	})
	return paid
}
