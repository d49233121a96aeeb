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

// fill payload head words, the event carries no indexed params
const (
	lrWordOrderHash  = 0
	lrWordNonce      = 1
	lrWordTaker      = 3
	lrWordMaker      = 4
	lrWordCurrency   = 6
	lrWordCollection = 7
	lrWordItemIds    = 8
	// feeAmounts: maker proceeds, protocol fee, royalty
	lrWordFeeStart = 12
)

type looksRareHandler struct{}

func NewLooksRareHandler() exchange.Handler {
	return &looksRareHandler{}
}

func (h *looksRareHandler) Kind() exchange.EventKind {
	return exchange.EventKindLooksRareV2
}

func (h *looksRareHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "looks-rare-v2-taker-ask":
			h.handleFill(ev, order.SideBuy, data)
		case "looks-rare-v2-taker-bid":
			h.handleFill(ev, order.SideSell, data)
		case "looks-rare-v2-order-nonces-cancelled":
			h.handleNoncesCancelled(ev, data)
		case "looks-rare-v2-new-bid-ask-nonces":
			h.handleNewNonces(ev, data)
		}
	}
	return nil
}

func (h *looksRareHandler) handleFill(ev *exchange.EnhancedEvent, side order.Side, data *exchange.OnChainData) {
	d := ev.Log.Data
	orderHash := dataWord(d, lrWordOrderHash)
	maker := dataWord(d, lrWordMaker)
	taker := dataWord(d, lrWordTaker)
	currency := dataWord(d, lrWordCurrency)
	collection := dataWord(d, lrWordCollection)
	if orderHash == nil || maker == nil || taker == nil || collection == nil {
		return
	}

	// the traded price is the sum of the fee legs
	price := new(big.Int)
	for i := 0; i < 3; i++ {
		if w := dataWord(d, lrWordFeeStart+i); w != nil {
			price.Add(price, new(big.Int).SetBytes(w))
		}
	}

	tokenId := ""
	if offsetWord := dataWord(d, lrWordItemIds); offsetWord != nil {
		if ids, ok := unpackU256Array(d, int(new(big.Int).SetBytes(offsetWord).Int64())); ok && len(ids) > 0 {
			tokenId = ids[0].String()
		}
	}

	data.FillEvents = append(data.FillEvents, &fill.Event{
		ChainId:       ev.ChainId,
		OrderKind:     order.KindLooksRareV2,
		OrderId:       domain.OrderHash(hexutil.Encode(orderHash)).ToLower(),
		OrderSide:     side,
		Maker:         domain.Address(hexutil.Encode(maker[12:])).ToLower(),
		Taker:         domain.Address(hexutil.Encode(taker[12:])).ToLower(),
		Contract:      domain.Address(hexutil.Encode(collection[12:])).ToLower(),
		TokenId:       domain.TokenId(tokenId),
		Amount:        "1",
		Currency:      domain.Address(hexutil.Encode(currency[12:])).ToLower(),
		CurrencyPrice: price.String(),
		BlockNumber:   ev.Meta.BlockNumber,
		BlockHash:     ev.Meta.BlockHash,
		TxHash:        ev.Meta.TxHash,
		TxIndex:       ev.Meta.TxIndex,
		LogIndex:      ev.Meta.LogIndex,
		BatchIndex:    ev.Meta.BatchIndex,
		Timestamp:     ev.Meta.BlockTime,
	})
}

func (h *looksRareHandler) handleNoncesCancelled(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 2 {
		return
	}
	maker := topicAddress(ev.Log.Topics[1])
	offsetWord := dataWord(ev.Log.Data, 0)
	if offsetWord == nil {
		return
	}
	nonces, ok := unpackU256Array(ev.Log.Data, int(new(big.Int).SetBytes(offsetWord).Int64()))
	if !ok {
		return
	}
	for i, nonce := range nonces {
		event := &fill.NonceCancelEvent{
			ChainId:     ev.ChainId,
			OrderKind:   order.KindLooksRareV2,
			Maker:       maker,
			Nonce:       nonce.String(),
			BlockNumber: ev.Meta.BlockNumber,
			BlockHash:   ev.Meta.BlockHash,
			TxHash:      ev.Meta.TxHash,
			TxIndex:     ev.Meta.TxIndex,
			LogIndex:    ev.Meta.LogIndex,
			BatchIndex:  uint(i),
			Timestamp:   ev.Meta.BlockTime,
		}
		data.NonceCancelEvents = append(data.NonceCancelEvents, event)
	}
}

// handleNewNonces treats a global nonce bump as a bulk cancel below the
// new ask nonce
func (h *looksRareHandler) handleNewNonces(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 2 {
		return
	}
	askNonce := dataWord(ev.Log.Data, 1)
	if askNonce == nil {
		return
	}
	data.BulkCancelEvents = append(data.BulkCancelEvents, &fill.BulkCancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   order.KindLooksRareV2,
		Maker:       topicAddress(ev.Log.Topics[1]),
		MinNonce:    new(big.Int).SetBytes(askNonce).String(),
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}
