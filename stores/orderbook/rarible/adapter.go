package rarible

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

const Exchange = domain.Address("0x9757f2d2b135150bbeb65308d4a91804107cd8d6")

// asset classes
const (
	classEth     = "ETH"
	classErc20   = "ERC20"
	classErc721  = "ERC721"
	classErc1155 = "ERC1155"
)

type assetType struct {
	AssetClass string         `json:"assetClass"`
	Contract   domain.Address `json:"contract,omitempty"`
	TokenId    string         `json:"tokenId,omitempty"`
}

type asset struct {
	AssetType assetType `json:"assetType"`
	Value     string    `json:"value"`
}

type feePart struct {
	Account domain.Address `json:"account"`
	// Value is in basis points
	Value int `json:"value"`
}

type orderData struct {
	OriginFees []feePart `json:"originFees"`
	Payouts    []feePart `json:"payouts"`
}

type RawOrder struct {
	Maker     domain.Address `json:"maker"`
	Taker     domain.Address `json:"taker"`
	Make      asset          `json:"make"`
	Take      asset          `json:"take"`
	Salt      string         `json:"salt"`
	Start     int64          `json:"start"`
	End       int64          `json:"end"`
	Data      orderData      `json:"data"`
	Signature hexutil.Bytes  `json:"signature"`
}

type adapter struct {
	state common.StateReader
}

func NewAdapter(state common.StateReader) common.Adapter {
	return &adapter{state: state}
}

func (a *adapter) Kind() order.Kind {
	return order.KindRarible
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &RawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	return Parse(info, raw, order.KindRarible, Exchange, a.state)
}

func isNftClass(class string) bool {
	return class == classErc721 || class == classErc1155
}

// Parse is shared with the universe adapter, whose order format is a
// fork of the same wire shape
func Parse(info *order.Info, raw *RawOrder, kind order.Kind, exchange domain.Address, state common.StateReader) (*common.Parsed, error) {
	if raw.Maker.IsEmpty() {
		return nil, common.ErrInvalidOrder
	}
	if raw.Salt == "" {
		raw.Salt = "0"
	}

	var side order.Side
	var nft, payment *asset
	switch {
	case isNftClass(raw.Make.AssetType.AssetClass) && !isNftClass(raw.Take.AssetType.AssetClass):
		side = order.SideSell
		nft, payment = &raw.Make, &raw.Take
	case isNftClass(raw.Take.AssetType.AssetClass) && !isNftClass(raw.Make.AssetType.AssetClass):
		side = order.SideBuy
		nft, payment = &raw.Take, &raw.Make
	default:
		return nil, common.ErrInvalidOrder
	}
	if nft.AssetType.Contract.IsEmpty() || nft.AssetType.TokenId == "" {
		return nil, common.ErrInvalidOrder
	}

	var currency domain.Address
	switch payment.AssetType.AssetClass {
	case classEth:
		currency = domain.NativeAddress
	case classErc20:
		currency = payment.AssetType.Contract.ToLower()
	default:
		return nil, common.ErrUnsupportedPaymentToken
	}
	if side == order.SideBuy && currency.Equals(domain.NativeAddress) {
		return nil, common.ErrUnsupportedPaymentToken
	}

	price, ok := new(big.Int).SetString(payment.Value, 10)
	if !ok || price.Sign() <= 0 {
		return nil, common.ErrInvalidOrder
	}

	feeBreakdown := make([]domain.FeeBreakdown, 0, len(raw.Data.OriginFees))
	for _, f := range raw.Data.OriginFees {
		feeBreakdown = append(feeBreakdown, domain.FeeBreakdown{
			Kind:      domain.FeeKindMarketplace,
			Recipient: f.Account.ToLower(),
			Bps:       f.Value,
		})
	}

	// the id is the exchange's on-chain order key so matches and cancels
	// resolve back to the stored row. The signature is verified as a
	// maker attestation over that key.
	id := domain.OrderHash(hexutil.Encode(hashKey(raw))).ToLower()
	if err := common.VerifySignature(id, raw.Signature, raw.Maker); err != nil {
		return nil, err
	}

	contract := nft.AssetType.Contract.ToLower()
	tokenId := domain.TokenId(nft.AssetType.TokenId)
	ts := &tokenset.TokenSet{
		ChainId:  info.ChainId,
		Id:       tokenset.SingleTokenId(contract, tokenId),
		Kind:     tokenset.KindSingleToken,
		Contract: contract,
		TokenId:  &tokenId,
	}

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                id,
		Kind:              kind,
		Side:              side,
		Maker:             raw.Maker,
		Taker:             raw.Taker,
		Contract:          contract,
		Conduit:           exchange,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: nft.Value,
		Nonce:             raw.Salt,
		FeeBreakdown:      feeBreakdown,
		RawData:           string(info.RawOrder),
	}
	if raw.Start > 0 {
		o.ValidFrom = time.Unix(raw.Start, 0).UTC()
	}
	if raw.End > 0 {
		o.ValidUntil = time.Unix(raw.End, 0).UTC()
	}

	return &common.Parsed{
		Order:      o,
		TokenSet:   ts,
		TokenId:    &tokenId,
		CheckState: checkState(state, info.ChainId, exchange, raw),
	}, nil
}
