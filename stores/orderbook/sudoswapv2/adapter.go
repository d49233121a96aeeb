package sudoswapv2

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

// pool types
const (
	poolTypeToken = 0
	poolTypeNft   = 1
	poolTypeTrade = 2
)

// rawOrder describes the sell side of an amm pool. Pool state lives on
// chain, the maker is the pool itself and there is no signature.
type rawOrder struct {
	Pool         domain.Address   `json:"pool"`
	Nft          domain.Address   `json:"nft"`
	Token        domain.Address   `json:"token"`
	PoolType     int              `json:"poolType"`
	SpotPrice    string           `json:"spotPrice"`
	Delta        string           `json:"delta"`
	BondingCurve domain.Address   `json:"bondingCurve"`
	NftIds       []domain.TokenId `json:"nftIds"`
}

type adapter struct{}

func NewAdapter() common.Adapter {
	return &adapter{}
}

func (a *adapter) Kind() order.Kind {
	return order.KindSudoswapV2
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	if raw.Pool.IsEmpty() || raw.Nft.IsEmpty() {
		return nil, common.ErrInvalidOrder
	}
	// only pools holding nfts expose a listing
	if raw.PoolType != poolTypeNft && raw.PoolType != poolTypeTrade {
		return nil, common.ErrInvalidOrder
	}

	price, ok := new(big.Int).SetString(raw.SpotPrice, 10)
	if !ok || price.Sign() <= 0 {
		return nil, common.ErrInvalidOrder
	}

	currency := raw.Token.ToLower()
	if currency.IsEmpty() {
		currency = domain.NativeAddress
	}

	contract := raw.Nft.ToLower()
	pool := raw.Pool.ToLower()

	// the pool sells any of the ids it currently holds
	ts := &tokenset.TokenSet{
		ChainId:  info.ChainId,
		Id:       tokenset.ContractWideId(contract),
		Kind:     tokenset.KindContractWide,
		Contract: contract,
	}
	var tokenId *domain.TokenId
	if len(raw.NftIds) == 1 {
		tid := raw.NftIds[0]
		tokenId = &tid
		ts = &tokenset.TokenSet{
			ChainId:  info.ChainId,
			Id:       tokenset.SingleTokenId(contract, tid),
			Kind:     tokenset.KindSingleToken,
			Contract: contract,
			TokenId:  &tid,
		}
	}

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                domain.OrderHash(fmt.Sprintf("sudoswap-v2:%s", pool)),
		Kind:              order.KindSudoswapV2,
		Side:              order.SideSell,
		Maker:             pool,
		Contract:          contract,
		Conduit:           pool,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: fmt.Sprintf("%d", len(raw.NftIds)),
		// amm pricing moves with every swap
		IsDynamic: true,
		RawData:   string(info.RawOrder),
	}

	return &common.Parsed{
		Order:         o,
		TokenSet:      ts,
		TokenId:       tokenId,
		SelfCustodied: true,
	}, nil
}
