package rarible

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const exchangeAbiJson = `[
	{"constant":true,"inputs":[{"name":"hash","type":"bytes32"}],"name":"fills","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var exchangeAbi abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(exchangeAbiJson))
	if err != nil {
		panic(err)
	}
	exchangeAbi = parsed
}

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// checkState probes the exchange's fill registry under the order key.
// An on-chain cancel writes the max fill, a completed match writes the
// full take value.
func checkState(state common.StateReader, chainId domain.ChainId, exchange domain.Address, raw *RawOrder) func(ctx.Ctx) error {
	if state == nil {
		return nil
	}
	var hash [32]byte
	copy(hash[:], hashKey(raw))
	takeValue, ok := math.ParseBig256(raw.Take.Value)
	if !ok {
		takeValue = new(big.Int)
	}
	to := ethcommon.HexToAddress(exchange.ToLowerStr())

	return func(c ctx.Ctx) error {
		res, err := state.Call(c, int32(chainId), to, nil, exchangeAbi, "fills", hash)
		if err != nil {
			return err
		}
		if len(res) != 1 {
			return nil
		}
		filled, ok := res[0].(*big.Int)
		if !ok {
			return nil
		}
		if filled.Cmp(maxUint256) == 0 {
			return order.ErrOrderCancelled
		}
		if takeValue.Sign() > 0 && filled.Cmp(takeValue) >= 0 {
			return order.ErrOrderFilled
		}
		return nil
	}
}
