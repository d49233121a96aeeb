package x2y2

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const (
	Exchange = domain.Address("0x74312363e45dcaba76c59ec49a7aa8a65a67eed3")
	// Delegate holds the nft transfer approvals
	Delegate = domain.Address("0xf849de01b080adc3a814fabe1e2087475cf2e354")

	// marketplace fee collected on every fill
	marketplaceFeeBps       = 50
	marketplaceFeeRecipient = domain.Address("0xd823c605807cc5e6bd6fc0d7e4eea50d3e2d66cd")
)

type nft struct {
	Token   domain.Address `json:"token"`
	TokenId domain.TokenId `json:"tokenId"`
}

// rawOrder mirrors the payload served by the x2y2 order feed. Orders
// come pre-signed by the marketplace, ItemHash is their canonical id.
type rawOrder struct {
	ItemHash      string         `json:"itemHash"`
	Maker         domain.Address `json:"maker"`
	Taker         domain.Address `json:"taker"`
	Currency      domain.Address `json:"currency"`
	Price         string         `json:"price"`
	Type          string         `json:"type"`
	Nft           nft            `json:"nft"`
	Amount        string         `json:"amount"`
	Deadline      int64          `json:"deadline"`
	RoyaltyFeeBps int            `json:"royalty_fee"`
}

type adapter struct{}

func NewAdapter() common.Adapter {
	return &adapter{}
}

func (a *adapter) Kind() order.Kind {
	return order.KindX2Y2
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	if raw.ItemHash == "" || raw.Maker.IsEmpty() || raw.Nft.Token.IsEmpty() {
		return nil, common.ErrInvalidOrder
	}

	var side order.Side
	switch raw.Type {
	case "sell":
		side = order.SideSell
	case "buy":
		side = order.SideBuy
	default:
		return nil, common.ErrInvalidOrder
	}

	price, ok := new(big.Int).SetString(raw.Price, 10)
	if !ok || price.Sign() <= 0 {
		return nil, common.ErrInvalidOrder
	}

	currency := raw.Currency.ToLower()
	if currency.IsEmpty() {
		currency = domain.NativeAddress
	}
	if side == order.SideBuy && currency.Equals(domain.NativeAddress) {
		return nil, common.ErrUnsupportedPaymentToken
	}

	quantity := raw.Amount
	if quantity == "" {
		quantity = "1"
	}
	if _, ok := new(big.Int).SetString(quantity, 10); !ok {
		return nil, common.ErrUnsupportedAmount
	}

	feeBreakdown := []domain.FeeBreakdown{{
		Kind:      domain.FeeKindMarketplace,
		Recipient: marketplaceFeeRecipient,
		Bps:       marketplaceFeeBps,
	}}
	if raw.RoyaltyFeeBps > 0 {
		feeBreakdown = append(feeBreakdown, domain.FeeBreakdown{
			Kind: domain.FeeKindRoyalty,
			Bps:  raw.RoyaltyFeeBps,
		})
	}

	tokenId := raw.Nft.TokenId
	contract := raw.Nft.Token.ToLower()
	ts := &tokenset.TokenSet{
		ChainId:  info.ChainId,
		Id:       tokenset.SingleTokenId(contract, tokenId),
		Kind:     tokenset.KindSingleToken,
		Contract: contract,
		TokenId:  &tokenId,
	}

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                domain.OrderHash(raw.ItemHash).ToLower(),
		Kind:              order.KindX2Y2,
		Side:              side,
		Maker:             raw.Maker,
		Taker:             raw.Taker,
		Contract:          contract,
		Conduit:           Delegate,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: quantity,
		FeeBreakdown:      feeBreakdown,
		RawData:           string(info.RawOrder),
	}
	if raw.Deadline > 0 {
		o.ValidUntil = time.Unix(raw.Deadline, 0).UTC()
	}

	return &common.Parsed{
		Order:    o,
		TokenSet: ts,
		TokenId:  &tokenId,
	}, nil
}
