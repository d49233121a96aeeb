package looksrarev2

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
	quoteTypeBid = 0
	quoteTypeAsk = 1
)

const (
	Exchange = domain.Address("0x0000000000e655fae4d56241588680f86e3b2377")
	// TransferManager holds the nft transfer approvals
	TransferManager = domain.Address("0x000000000060c4ca14cfc4325359062ace33fe2d")

	protocolFeeBps       = 50
	protocolFeeRecipient = domain.Address("0x1838de7d4e4e42c8eb7b204a91e28e9fad14f536")
)

type rawOrder struct {
	QuoteType            int            `json:"quoteType"`
	GlobalNonce          string         `json:"globalNonce"`
	SubsetNonce          string         `json:"subsetNonce"`
	OrderNonce           string         `json:"orderNonce"`
	StrategyId           int            `json:"strategyId"`
	CollectionType       int            `json:"collectionType"`
	Collection           domain.Address `json:"collection"`
	Currency             domain.Address `json:"currency"`
	Signer               domain.Address `json:"signer"`
	StartTime            int64          `json:"startTime"`
	EndTime              int64          `json:"endTime"`
	Price                string         `json:"price"`
	ItemIds              []string       `json:"itemIds"`
	Amounts              []string       `json:"amounts"`
	AdditionalParameters hexutil.Bytes  `json:"additionalParameters"`
	Signature            hexutil.Bytes  `json:"signature"`
}

type adapter struct {
	state common.StateReader
}

func NewAdapter(state common.StateReader) common.Adapter {
	return &adapter{state: state}
}

func (a *adapter) Kind() order.Kind {
	return order.KindLooksRareV2
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	if raw.Signer.IsEmpty() || raw.Collection.IsEmpty() {
		return nil, common.ErrInvalidOrder
	}
	if len(raw.ItemIds) == 0 || len(raw.ItemIds) != len(raw.Amounts) {
		return nil, common.ErrInvalidOrder
	}
	for _, nonce := range []*string{&raw.GlobalNonce, &raw.SubsetNonce, &raw.OrderNonce} {
		if *nonce == "" {
			*nonce = "0"
		}
	}
	if len(raw.ItemIds) > 1 {
		return nil, common.ErrBundleUnsupported
	}

	var side order.Side
	switch raw.QuoteType {
	case quoteTypeAsk:
		side = order.SideSell
	case quoteTypeBid:
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
	// bids are always backed by the wrapped native token
	if side == order.SideBuy && !currency.Equals(domain.ChainIdWrappedNativeMap[info.ChainId]) {
		return nil, common.ErrUnsupportedPaymentToken
	}

	// the id is the maker order's protocol hash so executions and cancels
	// seen on chain resolve back to the stored row
	structHash := makerHash(raw)
	id := domain.OrderHash(hexutil.Encode(structHash)).ToLower()
	separator := common.DomainSeparator("LooksRareProtocol", "2", info.ChainId, Exchange)
	if err := common.VerifyTypedSignature(separator, structHash, raw.Signature, raw.Signer); err != nil {
		return nil, err
	}

	contract := raw.Collection.ToLower()
	tokenId := domain.TokenId(raw.ItemIds[0])
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
		Kind:              order.KindLooksRareV2,
		Side:              side,
		Maker:             raw.Signer,
		Contract:          contract,
		Conduit:           TransferManager,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: raw.Amounts[0],
		Nonce:             raw.OrderNonce,
		FeeBreakdown: []domain.FeeBreakdown{{
			Kind:      domain.FeeKindMarketplace,
			Recipient: protocolFeeRecipient,
			Bps:       protocolFeeBps,
		}},
		ValidFrom: time.Unix(raw.StartTime, 0).UTC(),
		RawData:   string(info.RawOrder),
	}
	if raw.EndTime > 0 {
		o.ValidUntil = time.Unix(raw.EndTime, 0).UTC()
	}

	return &common.Parsed{
		Order:      o,
		TokenSet:   ts,
		TokenId:    &tokenId,
		CheckState: a.checkState(info.ChainId, raw, structHash),
	}, nil
}
