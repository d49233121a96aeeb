package common

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
)

// parse outcomes the engine maps onto save statuses
var (
	ErrInvalidOrder            = errors.New("invalid order")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrUnsupportedPaymentToken = errors.New("unsupported payment token")
	ErrUnsupportedAmount       = errors.New("unsupported amount")
	ErrBundleUnsupported       = errors.New("bundle orders unsupported")
)

// Parsed is the protocol-independent view of one raw order. Pricing
// fields are denominated in the order's own currency, the engine takes
// care of native and USD conversion.
type Parsed struct {
	Order    *order.Order
	TokenSet *tokenset.TokenSet
	// TokenId is the probe target for sell side fillability checks. Nil
	// for criteria orders without an enumerated token.
	TokenId *domain.TokenId
	// CheckState probes protocol specific on-chain order state, like
	// cancel registries or fill amounts. Nil when the protocol has none.
	CheckState func(ctx ctx.Ctx) error
	// SelfCustodied marks amm orders whose maker contract holds the
	// inventory itself, which makes balance and approval probes moot
	SelfCustodied bool
}

// Adapter decodes and structurally validates raw orders of one protocol
type Adapter interface {
	Kind() order.Kind
	Parse(ctx ctx.Ctx, info *order.Info) (*Parsed, error)
}

// StateReader reads exchange contract state for the CheckState probes.
// chain.Client satisfies it, adapters accept nil to skip the probes.
type StateReader interface {
	Call(c ctx.Ctx, chainId int32, addr ethcommon.Address, blk *big.Int, contractAbi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
}
