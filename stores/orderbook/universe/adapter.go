package universe

import (
	"encoding/json"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/stores/orderbook/common"
	"github.com/floorbook/goapi/stores/orderbook/rarible"
)

const Exchange = domain.Address("0x160ac61afb9323b372fea11a60e2bba6a415ee44")

// adapter handles universe orders, a fork of the rarible wire shape
// with its own exchange deployment
type adapter struct {
	state common.StateReader
}

func NewAdapter(state common.StateReader) common.Adapter {
	return &adapter{state: state}
}

func (a *adapter) Kind() order.Kind {
	return order.KindUniverse
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rarible.RawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	return rarible.Parse(info, raw, order.KindUniverse, Exchange, a.state)
}
