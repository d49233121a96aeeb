package looksrarev2

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

const exchangeAbiJson = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"userBidAskNonces","outputs":[
		{"name":"bidNonce","type":"uint256"},
		{"name":"askNonce","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"},{"name":"orderNonce","type":"uint256"}],"name":"userOrderNonce","outputs":[{"name":"","type":"bytes32"}],"type":"function"}
]`

var (
	exchangeAbi abi.ABI
	// the exchange writes this sentinel into userOrderNonce once the
	// nonce is fully spent
	nonceExecuted = crypto.Keccak256([]byte("ORDER_NONCE_EXECUTED"))

	zeroWord = make([]byte, 32)
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(exchangeAbiJson))
	if err != nil {
		panic(err)
	}
	exchangeAbi = parsed
}

// checkState probes the signer's global nonce and the order nonce slot.
// A bumped global nonce voids every order signed under the old one, a
// spent order nonce means the order was filled or replaced.
func (a *adapter) checkState(chainId domain.ChainId, raw *rawOrder, structHash []byte) func(ctx.Ctx) error {
	if a.state == nil {
		return nil
	}
	globalNonce, ok := math.ParseBig256(raw.GlobalNonce)
	if !ok {
		globalNonce = new(big.Int)
	}
	orderNonce, ok := math.ParseBig256(raw.OrderNonce)
	if !ok {
		orderNonce = new(big.Int)
	}
	signer := ethcommon.HexToAddress(raw.Signer.ToLowerStr())
	exchange := ethcommon.HexToAddress(Exchange.ToLowerStr())
	isAsk := raw.QuoteType == quoteTypeAsk

	return func(c ctx.Ctx) error {
		res, err := a.state.Call(c, int32(chainId), exchange, nil, exchangeAbi, "userBidAskNonces", signer)
		if err != nil {
			return err
		}
		if len(res) == 2 {
			current, ok := res[0].(*big.Int)
			if isAsk {
				current, ok = res[1].(*big.Int)
			}
			if ok && current.Cmp(globalNonce) != 0 {
				return order.ErrOrderCancelled
			}
		}

		res, err = a.state.Call(c, int32(chainId), exchange, nil, exchangeAbi, "userOrderNonce", signer, orderNonce)
		if err != nil {
			return err
		}
		if len(res) == 1 {
			if status, ok := res[0].([32]byte); ok {
				switch {
				case bytes.Equal(status[:], zeroWord):
				case bytes.Equal(status[:], nonceExecuted):
					return order.ErrOrderFilled
				case !bytes.Equal(status[:], structHash):
					// the nonce is bound to a different order hash
					return order.ErrOrderCancelled
				}
			}
		}
		return nil
	}
}
