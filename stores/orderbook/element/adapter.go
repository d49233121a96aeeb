package element

import (
	"encoding/json"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/stores/orderbook/common"
	"github.com/floorbook/goapi/stores/orderbook/zeroexv4"
)

const Exchange = domain.Address("0x20f780a973856b93f63670377900c1d2a50a77c4")

// adapter handles element orders, a fork of the zeroex-v4 wire shape
// with its own exchange deployment
type adapter struct{}

func NewAdapter() common.Adapter {
	return &adapter{}
}

func (a *adapter) Kind() order.Kind {
	return order.KindElement
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &zeroexv4.RawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	return zeroexv4.Parse(info, raw, order.KindElement, Exchange)
}
