package manifold

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const Exchange = domain.Address("0x3a3548e060be10c2614d0a4cb0c03cc9093fd799")

type tokenSpec struct {
	Address domain.Address `json:"address_"`
	Id      string         `json:"id"`
	Spec    string         `json:"spec"`
}

type listingDetails struct {
	InitialAmount  string         `json:"initialAmount"`
	TotalAvailable string         `json:"totalAvailable"`
	TotalPerSale   string         `json:"totalPerSale"`
	StartTime      int64          `json:"startTime"`
	EndTime        int64          `json:"endTime"`
	Erc20          domain.Address `json:"erc20"`
}

// rawOrder mirrors a manifold marketplace listing. Listings live fully
// on chain, so there is no maker signature to verify.
type rawOrder struct {
	ListingId uint64         `json:"id"`
	Seller    domain.Address `json:"seller"`
	Details   listingDetails `json:"details"`
	Token     tokenSpec      `json:"token"`
}

type adapter struct{}

func NewAdapter() common.Adapter {
	return &adapter{}
}

func (a *adapter) Kind() order.Kind {
	return order.KindManifold
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	if raw.Seller.IsEmpty() || raw.Token.Address.IsEmpty() || raw.ListingId == 0 {
		return nil, common.ErrInvalidOrder
	}

	price, ok := new(big.Int).SetString(raw.Details.InitialAmount, 10)
	if !ok || price.Sign() <= 0 {
		return nil, common.ErrInvalidOrder
	}

	quantity := raw.Details.TotalAvailable
	if quantity == "" {
		quantity = "1"
	}
	if _, ok := new(big.Int).SetString(quantity, 10); !ok {
		return nil, common.ErrUnsupportedAmount
	}

	currency := raw.Details.Erc20.ToLower()
	if currency.IsEmpty() {
		currency = domain.NativeAddress
	}

	contract := raw.Token.Address.ToLower()
	tokenId := domain.TokenId(raw.Token.Id)
	ts := &tokenset.TokenSet{
		ChainId:  info.ChainId,
		Id:       tokenset.SingleTokenId(contract, tokenId),
		Kind:     tokenset.KindSingleToken,
		Contract: contract,
		TokenId:  &tokenId,
	}

	// the listing id is unique per exchange deployment
	id := domain.OrderHash(fmt.Sprintf("%s:%d", Exchange, raw.ListingId)).ToLower()

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                id,
		Kind:              order.KindManifold,
		Side:              order.SideSell,
		Maker:             raw.Seller,
		Contract:          contract,
		Conduit:           Exchange,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: quantity,
		Nonce:             fmt.Sprintf("%d", raw.ListingId),
		RawData:           string(info.RawOrder),
	}
	if raw.Details.StartTime > 0 {
		o.ValidFrom = time.Unix(raw.Details.StartTime, 0).UTC()
	}
	if raw.Details.EndTime > 0 {
		o.ValidUntil = time.Unix(raw.Details.EndTime, 0).UTC()
	}

	return &common.Parsed{
		Order:    o,
		TokenSet: ts,
		TokenId:  &tokenId,
	}, nil
}
