package zeroexv4

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const (
	directionSell = 0
	directionBuy  = 1
)

const Exchange = domain.Address("0xdef1c0ded9bec7f1a1670819833240f027b25eff")

// nativeSentinel marks native payment in erc20Token fields
const nativeSentinel = domain.Address("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")

type fee struct {
	Recipient domain.Address `json:"recipient"`
	Amount    string         `json:"amount"`
}

type property struct {
	PropertyValidator domain.Address `json:"propertyValidator"`
	PropertyData      string         `json:"propertyData"`
}

type RawOrder struct {
	Direction        int            `json:"direction"`
	Maker            domain.Address `json:"maker"`
	Taker            domain.Address `json:"taker"`
	Expiry           int64          `json:"expiry"`
	Nonce            string         `json:"nonce"`
	Erc20Token       domain.Address `json:"erc20Token"`
	Erc20TokenAmount string         `json:"erc20TokenAmount"`
	Fees             []fee          `json:"fees"`
	NftToken         domain.Address `json:"nftToken"`
	NftTokenId       string         `json:"nftTokenId"`
	NftTokenAmount   string         `json:"nftTokenAmount"`
	NftProperties    []property     `json:"nftProperties"`
	Signature        hexutil.Bytes  `json:"signature"`
}

type adapter struct{}

func NewAdapter() common.Adapter {
	return &adapter{}
}

func (a *adapter) Kind() order.Kind {
	return order.KindZeroExV4
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &RawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	return Parse(info, raw, order.KindZeroExV4, Exchange)
}

// Parse is shared with the element adapter, whose order format is a
// fork of the same wire shape
func Parse(info *order.Info, raw *RawOrder, kind order.Kind, exchange domain.Address) (*common.Parsed, error) {
	if raw.Maker.IsEmpty() || raw.NftToken.IsEmpty() {
		return nil, common.ErrInvalidOrder
	}

	var side order.Side
	switch raw.Direction {
	case directionSell:
		side = order.SideSell
	case directionBuy:
		side = order.SideBuy
	default:
		return nil, common.ErrInvalidOrder
	}

	price, ok := new(big.Int).SetString(raw.Erc20TokenAmount, 10)
	if !ok || price.Sign() <= 0 {
		return nil, common.ErrInvalidOrder
	}

	currency := raw.Erc20Token.ToLower()
	if currency.Equals(nativeSentinel) {
		currency = domain.NativeAddress
	}
	if side == order.SideBuy && currency.Equals(domain.NativeAddress) {
		return nil, common.ErrUnsupportedPaymentToken
	}

	// the listed price is what the taker pays, fees included
	feeBreakdown := []domain.FeeBreakdown{}
	for _, f := range raw.Fees {
		amount, ok := new(big.Int).SetString(f.Amount, 10)
		if !ok {
			return nil, common.ErrInvalidOrder
		}
		price.Add(price, amount)
		feeBreakdown = append(feeBreakdown, domain.FeeBreakdown{
			Kind:      domain.FeeKindRoyalty,
			Recipient: f.Recipient.ToLower(),
			Bps:       0,
		})
	}
	for i, f := range raw.Fees {
		amount, _ := new(big.Int).SetString(f.Amount, 10)
		feeBreakdown[i].Bps = int(new(big.Int).Div(new(big.Int).Mul(amount, domain.Big10000), price).Int64())
	}

	quantity := raw.NftTokenAmount
	if quantity == "" {
		quantity = "1"
	}

	id := common.HashOrder(kind,
		raw.Maker, raw.NftToken, raw.NftTokenId,
		price, raw.Nonce, raw.Expiry,
	)
	if err := common.VerifySignature(id, raw.Signature, raw.Maker); err != nil {
		return nil, err
	}

	ts, tokenId := tokenSet(info.ChainId, raw, side)
	if ts == nil {
		return nil, common.ErrInvalidOrder
	}

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                id,
		Kind:              kind,
		Side:              side,
		Maker:             raw.Maker,
		Taker:             raw.Taker,
		Contract:          raw.NftToken.ToLower(),
		Conduit:           exchange,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: quantity,
		Nonce:             raw.Nonce,
		FeeBreakdown:      feeBreakdown,
		RawData:           string(info.RawOrder),
	}
	if raw.Expiry > 0 {
		o.ValidUntil = time.Unix(raw.Expiry, 0).UTC()
	}

	return &common.Parsed{
		Order:    o,
		TokenSet: ts,
		TokenId:  tokenId,
	}, nil
}

func tokenSet(chainId domain.ChainId, raw *RawOrder, side order.Side) (*tokenset.TokenSet, *domain.TokenId) {
	contract := raw.NftToken.ToLower()

	// criteria bids carry property validators instead of a token id
	if side == order.SideBuy && len(raw.NftProperties) > 0 {
		return &tokenset.TokenSet{
			ChainId:  chainId,
			Id:       tokenset.ContractWideId(contract),
			Kind:     tokenset.KindContractWide,
			Contract: contract,
		}, nil
	}

	if raw.NftTokenId == "" {
		return nil, nil
	}
	tokenId := domain.TokenId(raw.NftTokenId)
	return &tokenset.TokenSet{
		ChainId:  chainId,
		Id:       tokenset.SingleTokenId(contract, tokenId),
		Kind:     tokenset.KindSingleToken,
		Contract: contract,
		TokenId:  &tokenId,
	}, &tokenId
}
