package events

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/service/chain"
)

// sudoswap pools emit swaps without the counterparty, the taker comes
// from the transaction trace. Multi-nft swaps split the paid amount
// evenly across the token ids.
type sudoswapHandler struct {
	orderRepo   order.Repo
	chainClient chain.Client
}

func NewSudoswapHandler(orderRepo order.Repo, chainClient chain.Client) exchange.Handler {
	return &sudoswapHandler{
		orderRepo:   orderRepo,
		chainClient: chainClient,
	}
}

func (h *sudoswapHandler) Kind() exchange.EventKind {
	return exchange.EventKindSudoswapV2
}

func poolOrderId(pool domain.Address) domain.OrderHash {
	return domain.OrderHash(fmt.Sprintf("sudoswap-v2:%s", pool)).ToLower()
}

func (h *sudoswapHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "sudoswap-v2-buy":
			h.handleSwap(c, ev, order.SideSell, data)
		case "sudoswap-v2-sell":
			h.handleSwap(c, ev, order.SideBuy, data)
		case "sudoswap-v2-spot-price-update":
			h.handleSpotPriceUpdate(ev, data)
		}
	}
	return nil
}

func (h *sudoswapHandler) handleSwap(c ctx.Ctx, ev *exchange.EnhancedEvent, side order.Side, data *exchange.OnChainData) {
	amountWord := dataWord(ev.Log.Data, 0)
	offsetWord := dataWord(ev.Log.Data, 1)
	if amountWord == nil || offsetWord == nil {
		return
	}
	ids, ok := unpackU256Array(ev.Log.Data, int(new(big.Int).SetBytes(offsetWord).Int64()))
	if !ok || len(ids) == 0 {
		return
	}

	pool := ev.Meta.ContractAddress
	orderId := poolOrderId(pool)
	taker := h.traceTaker(c, ev)

	total := new(big.Int).SetBytes(amountWord)
	perNft := new(big.Int).Div(total, big.NewInt(int64(len(ids))))

	contract := domain.Address("")
	currency := domain.NativeAddress
	if o, err := h.orderRepo.FindOne(c, order.Id{ChainId: ev.ChainId, Id: orderId}); err == nil {
		contract = o.Contract
		currency = o.Currency
	}

	for i, id := range ids {
		data.FillEvents = append(data.FillEvents, &fill.Event{
			ChainId:       ev.ChainId,
			OrderKind:     order.KindSudoswapV2,
			OrderId:       orderId,
			OrderSide:     side,
			Maker:         pool,
			Taker:         taker,
			Contract:      contract,
			TokenId:       domain.TokenId(id.String()),
			Amount:        "1",
			Currency:      currency,
			CurrencyPrice: perNft.String(),
			BlockNumber:   ev.Meta.BlockNumber,
			BlockHash:     ev.Meta.BlockHash,
			TxHash:        ev.Meta.TxHash,
			TxIndex:       ev.Meta.TxIndex,
			LogIndex:      ev.Meta.LogIndex,
			BatchIndex:    ev.Meta.BatchIndex + uint(i),
			Timestamp:     ev.Meta.BlockTime,
		})
	}
}

// handleSpotPriceUpdate triggers a reprice of the pool order, the new
// price is read back from the pool at revalidation time
func (h *sudoswapHandler) handleSpotPriceUpdate(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	orderId := poolOrderId(ev.Meta.ContractAddress)
	data.OrderInfos = append(data.OrderInfos, &orderupdate.Payload{
		Context: orderupdate.RepriceContext(orderId, ev.Meta.TxHash),
		ChainId: ev.ChainId,
		Trigger: orderupdate.Trigger{
			Kind:        orderupdate.TriggerReprice,
			TxHash:      ev.Meta.TxHash,
			TxTimestamp: ev.Meta.BlockTime.Unix(),
			LogIndex:    ev.Meta.LogIndex,
			BlockHash:   ev.Meta.BlockHash,
		},
		Id: orderId,
	})
}

func (h *sudoswapHandler) traceTaker(c ctx.Ctx, ev *exchange.EnhancedEvent) domain.Address {
	frame, err := h.chainClient.TraceTransaction(c, int32(ev.ChainId), ethcommon.HexToHash(string(ev.Meta.TxHash)))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "txHash": ev.Meta.TxHash}).Warn("trace fallback for swap taker failed")
		return ""
	}
	return domain.Address(frame.From).ToLower()
}
