package events

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
)

const seaportAbiJson = `[
	{"anonymous":false,"inputs":[
		{"indexed":false,"name":"orderHash","type":"bytes32"},
		{"indexed":true,"name":"offerer","type":"address"},
		{"indexed":true,"name":"zone","type":"address"},
		{"indexed":false,"name":"recipient","type":"address"},
		{"indexed":false,"name":"offer","type":"tuple[]","components":[
			{"name":"itemType","type":"uint8"},
			{"name":"token","type":"address"},
			{"name":"identifier","type":"uint256"},
			{"name":"amount","type":"uint256"}]},
		{"indexed":false,"name":"consideration","type":"tuple[]","components":[
			{"name":"itemType","type":"uint8"},
			{"name":"token","type":"address"},
			{"name":"identifier","type":"uint256"},
			{"name":"amount","type":"uint256"},
			{"name":"recipient","type":"address"}]}],
	"name":"OrderFulfilled","type":"event"},
	{"anonymous":false,"inputs":[
		{"indexed":false,"name":"orderHash","type":"bytes32"},
		{"indexed":true,"name":"offerer","type":"address"},
		{"indexed":true,"name":"zone","type":"address"}],
	"name":"OrderCancelled","type":"event"},
	{"anonymous":false,"inputs":[
		{"indexed":false,"name":"newCounter","type":"uint256"},
		{"indexed":true,"name":"offerer","type":"address"}],
	"name":"CounterIncremented","type":"event"}
]`

var seaportAbi abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(seaportAbiJson))
	if err != nil {
		panic(err)
	}
	seaportAbi = parsed
}

type spentItem struct {
	ItemType   uint8
	Token      ethcommon.Address
	Identifier *big.Int
	Amount     *big.Int
}

type receivedItem struct {
	ItemType   uint8
	Token      ethcommon.Address
	Identifier *big.Int
	Amount     *big.Int
	Recipient  ethcommon.Address
}

type orderFulfilled struct {
	OrderHash     [32]byte
	Recipient     ethcommon.Address
	Offer         []spentItem
	Consideration []receivedItem
}

type seaportHandler struct{}

func NewSeaportHandler() exchange.Handler {
	return &seaportHandler{}
}

func (h *seaportHandler) Kind() exchange.EventKind {
	return exchange.EventKindSeaport
}

func (h *seaportHandler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		switch ev.SubKind {
		case "seaport-order-filled":
			if err := h.handleFill(c, ev, data); err != nil {
				c.WithFields(log.Fields{"err": err, "txHash": ev.Meta.TxHash}).Warn("skipping undecodable seaport fill")
			}
		case "seaport-order-cancelled":
			h.handleCancel(ev, data)
		case "seaport-counter-incremented":
			h.handleCounterIncremented(ev, data)
		}
	}
	return nil
}

func (h *seaportHandler) handleFill(c ctx.Ctx, ev *exchange.EnhancedEvent, data *exchange.OnChainData) error {
	if len(ev.Log.Topics) < 3 {
		return nil
	}
	decoded := &orderFulfilled{}
	if err := seaportAbi.UnpackIntoInterface(decoded, "OrderFulfilled", ev.Log.Data); err != nil {
		return err
	}
	offerer := topicAddress(ev.Log.Topics[1])
	taker := domain.Address(decoded.Recipient.Hex()).ToLower()
	orderId := domain.OrderHash(hexutil.Encode(decoded.OrderHash[:])).ToLower()

	// the side with the nft decides the order side
	var nftItem *spentItem
	side := order.SideSell
	for i := range decoded.Offer {
		if decoded.Offer[i].ItemType >= 2 {
			nftItem = &decoded.Offer[i]
		}
	}
	if nftItem == nil {
		side = order.SideBuy
		for i := range decoded.Consideration {
			if decoded.Consideration[i].ItemType >= 2 {
				nftItem = &spentItem{
					ItemType:   decoded.Consideration[i].ItemType,
					Token:      decoded.Consideration[i].Token,
					Identifier: decoded.Consideration[i].Identifier,
					Amount:     decoded.Consideration[i].Amount,
				}
			}
		}
	}
	if nftItem == nil {
		return nil
	}

	currency := domain.NativeAddress
	price := new(big.Int)
	if side == order.SideSell {
		for _, cons := range decoded.Consideration {
			if cons.ItemType >= 2 {
				continue
			}
			if cons.ItemType == 1 {
				currency = domain.Address(cons.Token.Hex()).ToLower()
			}
			price.Add(price, cons.Amount)
		}
	} else {
		for _, off := range decoded.Offer {
			if off.ItemType == 1 {
				currency = domain.Address(off.Token.Hex()).ToLower()
				price.Add(price, off.Amount)
			}
		}
	}

	maker := offerer

	data.FillEvents = append(data.FillEvents, &fill.Event{
		ChainId:       ev.ChainId,
		OrderKind:     order.KindSeaport,
		OrderId:       orderId,
		OrderSide:     side,
		Maker:         maker,
		Taker:         taker,
		Contract:      domain.Address(nftItem.Token.Hex()).ToLower(),
		TokenId:       domain.TokenId(nftItem.Identifier.String()),
		Amount:        nftItem.Amount.String(),
		Currency:      currency,
		CurrencyPrice: price.String(),
		BlockNumber:   ev.Meta.BlockNumber,
		BlockHash:     ev.Meta.BlockHash,
		TxHash:        ev.Meta.TxHash,
		TxIndex:       ev.Meta.TxIndex,
		LogIndex:      ev.Meta.LogIndex,
		BatchIndex:    ev.Meta.BatchIndex,
		Timestamp:     ev.Meta.BlockTime,
	})
	appendFillInfo(data, ev, orderId, side, nftItem, price, maker, taker)
	return nil
}

func appendFillInfo(data *exchange.OnChainData, ev *exchange.EnhancedEvent, orderId domain.OrderHash, side order.Side, nftItem *spentItem, price *big.Int, maker, taker domain.Address) {
	data.FillInfos = append(data.FillInfos, &exchange.FillInfo{
		Context:   orderupdate.FilledContext(orderId, ev.Meta.TxHash),
		ChainId:   ev.ChainId,
		OrderId:   orderId,
		OrderSide: side,
		Contract:  domain.Address(nftItem.Token.Hex()).ToLower(),
		TokenId:   domain.TokenId(nftItem.Identifier.String()),
		Amount:    nftItem.Amount.String(),
		Price:     price.String(),
		Maker:     maker,
		Taker:     taker,
		Timestamp: ev.Meta.BlockTime,
	})
}

func (h *seaportHandler) handleCancel(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 3 || len(ev.Log.Data) < 32 {
		return
	}
	orderId := domain.OrderHash(hexutil.Encode(dataWord(ev.Log.Data, 0))).ToLower()
	data.CancelEvents = append(data.CancelEvents, &fill.CancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   order.KindSeaport,
		OrderId:     orderId,
		Maker:       topicAddress(ev.Log.Topics[1]),
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		BatchIndex:  ev.Meta.BatchIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}

func (h *seaportHandler) handleCounterIncremented(ev *exchange.EnhancedEvent, data *exchange.OnChainData) {
	if len(ev.Log.Topics) < 2 || len(ev.Log.Data) < 32 {
		return
	}
	newCounter := new(big.Int).SetBytes(dataWord(ev.Log.Data, 0))
	data.BulkCancelEvents = append(data.BulkCancelEvents, &fill.BulkCancelEvent{
		ChainId:     ev.ChainId,
		OrderKind:   order.KindSeaport,
		Maker:       topicAddress(ev.Log.Topics[1]),
		MinNonce:    newCounter.String(),
		BlockNumber: ev.Meta.BlockNumber,
		BlockHash:   ev.Meta.BlockHash,
		TxHash:      ev.Meta.TxHash,
		TxIndex:     ev.Meta.TxIndex,
		LogIndex:    ev.Meta.LogIndex,
		Timestamp:   ev.Meta.BlockTime,
	})
}
