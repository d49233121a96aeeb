package seaport

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

const exchangeAbiJson = `[
	{"constant":true,"inputs":[{"name":"orderHash","type":"bytes32"}],"name":"getOrderStatus","outputs":[
		{"name":"isValidated","type":"bool"},
		{"name":"isCancelled","type":"bool"},
		{"name":"totalFilled","type":"uint256"},
		{"name":"totalSize","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"offerer","type":"address"}],"name":"getCounter","outputs":[{"name":"counter","type":"uint256"}],"type":"function"}
]`

var exchangeAbi abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(exchangeAbiJson))
	if err != nil {
		panic(err)
	}
	exchangeAbi = parsed
}

// checkState probes the exchange's order status registry and the
// offerer's counter. A bumped counter cancels every order signed under
// the old one.
func (a *adapter) checkState(chainId domain.ChainId, raw *rawOrder, structHash []byte) func(ctx.Ctx) error {
	if a.state == nil {
		return nil
	}
	var hash [32]byte
	copy(hash[:], structHash)
	counter, ok := math.ParseBig256(raw.Counter)
	if !ok {
		counter = new(big.Int)
	}
	offerer := ethcommon.HexToAddress(raw.Offerer.ToLowerStr())
	exchange := ethcommon.HexToAddress(Exchange.ToLowerStr())

	return func(c ctx.Ctx) error {
		res, err := a.state.Call(c, int32(chainId), exchange, nil, exchangeAbi, "getOrderStatus", hash)
		if err != nil {
			return err
		}
		if len(res) == 4 {
			if cancelled, ok := res[1].(bool); ok && cancelled {
				return order.ErrOrderCancelled
			}
			filled, fok := res[2].(*big.Int)
			size, sok := res[3].(*big.Int)
			if fok && sok && size.Sign() > 0 && filled.Cmp(size) >= 0 {
				return order.ErrOrderFilled
			}
		}

		res, err = a.state.Call(c, int32(chainId), exchange, nil, exchangeAbi, "getCounter", offerer)
		if err != nil {
			return err
		}
		if len(res) == 1 {
			if current, ok := res[0].(*big.Int); ok && current.Cmp(counter) != 0 {
				return order.ErrOrderCancelled
			}
		}
		return nil
	}
}
