package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
)

// zeroex v4 style fills identify orders by (maker, nonce) instead of an
// order hash, the stored order is looked up to recover the id
type zeroExHandler struct {
	kind      exchange.EventKind
	orderKind order.Kind
	orderRepo order.Repo
}

func NewZeroExV4Handler(orderRepo order.Repo) exchange.Handler {
	return &zeroExHandler{
		kind:      exchange.EventKindZeroExV4,
		orderKind: order.KindZeroExV4,
		orderRepo: orderRepo,
	}
}

func NewElementHandler(orderRepo order.Repo) exchange.Handler {
	return &zeroExHandler{
		kind:      exchange.EventKindElement,
		orderKind: order.KindElement,
		orderRepo: orderRepo,
	}
}

func (h *zeroExHandler) Kind() exchange.EventKind {
	return h.kind
}

func (h *zeroExHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "zeroex-v4-erc721-order-filled":
			h.handleFill(c, ev, domain.TokenType721, data)
		case "zeroex-v4-erc1155-order-filled":
			h.handleFill(c, ev, domain.TokenType1155, data)
		case "element-erc721-sell-order-filled":
			h.handleElementFill(c, ev, order.SideSell, data)
		case "element-erc721-buy-order-filled":
			h.handleElementFill(c, ev, order.SideBuy, data)
		case "zeroex-v4-erc721-order-cancelled", "zeroex-v4-erc1155-order-cancelled":
			h.handleCancel(ev, data)
		}
	}
	return nil
}

// fill payload words, nothing is indexed
const (
	zxWordDirection = 0
	zxWordMaker     = 1
	zxWordTaker     = 2
	zxWordNonce     = 3
	zxWordErc20     = 4
	zxWordPrice     = 5
	zxWordNft       = 6
	zxWordNftId     = 7
	// erc1155 fills carry the filled amount after the token id
	zxWordFillAmount = 8
)

func (h *zeroExHandler) handleFill(c ctx.Ctx, ev *exchange.EnhancedEvent, tokenType domain.TokenType, data *exchange.OnChainData) {
	d := ev.Log.Data
	direction := dataWord(d, zxWordDirection)
	makerWord := dataWord(d, zxWordMaker)
	takerWord := dataWord(d, zxWordTaker)
	nonceWord := dataWord(d, zxWordNonce)
	erc20Word := dataWord(d, zxWordErc20)
	priceWord := dataWord(d, zxWordPrice)
	nftWord := dataWord(d, zxWordNft)
	nftIdWord := dataWord(d, zxWordNftId)
	if direction == nil || makerWord == nil || takerWord == nil || nonceWord == nil ||
		erc20Word == nil || priceWord == nil || nftWord == nil || nftIdWord == nil {
		return
	}

	side := order.SideSell
	if new(big.Int).SetBytes(direction).Sign() != 0 {
		side = order.SideBuy
	}

	amount := "1"
	if tokenType == domain.TokenType1155 {
		fillAmount := dataWord(d, zxWordFillAmount)
		if fillAmount == nil {
			return
		}
		amount = new(big.Int).SetBytes(fillAmount).String()
	}

	currency := domain.Address(hexutil.Encode(erc20Word[12:])).ToLower()
	if currency.Equals(domain.Address("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")) {
		currency = domain.NativeAddress
	}

	maker := domain.Address(hexutil.Encode(makerWord[12:])).ToLower()
	nonce := new(big.Int).SetBytes(nonceWord).String()
	orderId := h.resolveOrderId(c, ev.ChainId, maker, nonce)

	data.FillEvents = append(data.FillEvents, &fill.Event{
		ChainId:       ev.ChainId,
		OrderKind:     h.orderKind,
		OrderId:       orderId,
		OrderSide:     side,
		Maker:         maker,
		Taker:         domain.Address(hexutil.Encode(takerWord[12:])).ToLower(),
		Contract:      domain.Address(hexutil.Encode(nftWord[12:])).ToLower(),
		TokenId:       domain.TokenId(new(big.Int).SetBytes(nftIdWord).String()),
		Amount:        amount,
		Currency:      currency,
		CurrencyPrice: new(big.Int).SetBytes(priceWord).String(),
		BlockNumber:   ev.Meta.BlockNumber,
		BlockHash:     ev.Meta.BlockHash,
		TxHash:        ev.Meta.TxHash,
		TxIndex:       ev.Meta.TxIndex,
		LogIndex:      ev.Meta.LogIndex,
		BatchIndex:    ev.Meta.BatchIndex,
		Timestamp:     ev.Meta.BlockTime,
	})
}

// element fill payload words, the order hash leads but the stored order
// is still resolved by (maker, nonce) like zeroex-v4
const (
	elWordMaker = 1
	elWordTaker = 2
	elWordErc20 = 3
	elWordPrice = 4
	elWordNft   = 5
	elWordNftId = 6
	elWordNonce = 7
)

func (h *zeroExHandler) handleElementFill(c ctx.Ctx, ev *exchange.EnhancedEvent, side order.Side, data *exchange.OnChainData) {
	d := ev.Log.Data
	makerWord := dataWord(d, elWordMaker)
	takerWord := dataWord(d, elWordTaker)
	erc20Word := dataWord(d, elWordErc20)
	priceWord := dataWord(d, elWordPrice)
	nftWord := dataWord(d, elWordNft)
	nftIdWord := dataWord(d, elWordNftId)
	nonceWord := dataWord(d, elWordNonce)
	if makerWord == nil || takerWord == nil || erc20Word == nil || priceWord == nil ||
		nftWord == nil || nftIdWord == nil || nonceWord == nil {
		return
	}

	currency := domain.Address(hexutil.Encode(erc20Word[12:])).ToLower()
	if currency.Equals(domain.Address("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")) {
		currency = domain.NativeAddress
	}

	maker := domain.Address(hexutil.Encode(makerWord[12:])).ToLower()
	nonce := new(big.Int).SetBytes(nonceWord).String()
	orderId := h.resolveOrderId(c, ev.ChainId, maker, nonce)

	data.FillEvents = append(data.FillEvents, &fill.Event{
		ChainId:       ev.ChainId,
		OrderKind:     h.orderKind,
		OrderId:       orderId,
		OrderSide:     side,
		Maker:         maker,
		Taker:         domain.Address(hexutil.Encode(takerWord[12:])).ToLower(),
		Contract:      domain.Address(hexutil.Encode(nftWord[12:])).ToLower(),
		TokenId:       domain.TokenId(new(big.Int).SetBytes(nftIdWord).String()),
		Amount:        "1",
		Currency:      currency,
		CurrencyPrice: new(big.Int).SetBytes(priceWord).String(),
		BlockNumber:   ev.Meta.BlockNumber,
		BlockHash:     ev.Meta.BlockHash,
		TxHash:        ev.Meta.TxHash,
		TxIndex:       ev.Meta.TxIndex,
		LogIndex:      ev.Meta.LogIndex,
		BatchIndex:    ev.Meta.BatchIndex,
		Timestamp:     ev.Meta.BlockTime,
	})
}

func (h *zeroExHandler) handleCancel(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	makerWord := dataWord(ev.Log.Data, 0)
	nonceWord := dataWord(ev.Log.Data, 1)
	if makerWord == nil || nonceWord == nil {
		return
	}
	data.NonceCancelEvents = append(data.NonceCancelEvents, &fill.NonceCancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   h.orderKind,
		Maker:       domain.Address(hexutil.Encode(makerWord[12:])).ToLower(),
		Nonce:       new(big.Int).SetBytes(nonceWord).String(),
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		BatchIndex:  ev.Meta.BatchIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}

// resolveOrderId recovers the stored order id from (maker, nonce). An empty
// result is fine, fills of orders we never ingested are still recorded.
func (h *zeroExHandler) resolveOrderId(c ctx.Ctx, chainId domain.ChainId, maker domain.Address, nonce string) domain.OrderHash {
	orders, err := h.orderRepo.FindAll(c,
		order.WithChainId(chainId),
		order.WithKind(h.orderKind),
		order.WithMaker(maker),
		order.WithNonce(nonce),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "maker": maker, "nonce": nonce}).Warn("order lookup by nonce failed")
		return ""
	}
	if len(orders) == 0 {
		return ""
	}
	return orders[0].Id
}
