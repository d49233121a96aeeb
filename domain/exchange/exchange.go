package exchange

import (
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
)

// EventKind groups decoded logs by the protocol handler responsible for them
type EventKind string

const (
	EventKindErc20       EventKind = "erc20"
	EventKindErc721      EventKind = "erc721"
	EventKindErc1155     EventKind = "erc1155"
	EventKindSeaport     EventKind = "seaport"
	EventKindX2Y2        EventKind = "x2y2"
	EventKindLooksRareV2 EventKind = "looks-rare-v2"
	EventKindZeroExV4    EventKind = "zeroex-v4"
	EventKindElement     EventKind = "element"
	EventKindRarible     EventKind = "rarible"
	EventKindUniverse    EventKind = "universe"
	EventKindManifold    EventKind = "manifold"
	EventKindSudoswapV2  EventKind = "sudoswap-v2"
	EventKindWyvern      EventKind = "wyvern"
)

// EventKinds is the fixed dispatch order inside a batch. Every batch
// carries all kinds, with empty event lists for the absent ones, so
// handler scheduling stays deterministic.
var EventKinds = []EventKind{
	EventKindErc20,
	EventKindErc721,
	EventKindErc1155,
	EventKindSeaport,
	EventKindX2Y2,
	EventKindLooksRareV2,
	EventKindZeroExV4,
	EventKindElement,
	EventKindRarible,
	EventKindUniverse,
	EventKindManifold,
	EventKindSudoswapV2,
	EventKindWyvern,
}

const SubKindErc20Transfer = "erc20-transfer"

// NeedsErc20Transfers reports whether the handler of the given kind also
// consumes erc20 transfer logs of the same transaction, used to attribute
// fill payments
func (k EventKind) NeedsErc20Transfers() bool {
	switch k {
	case EventKindSeaport, EventKindX2Y2, EventKindLooksRareV2, EventKindZeroExV4, EventKindRarible, EventKindWyvern:
		return true
	}
	return false
}

// EnhancedEvent is one decoded log with its positional metadata
type EnhancedEvent struct {
	Kind    EventKind
	SubKind string
	ChainId domain.ChainId
	Log     types.Log
	Meta    domain.LogMeta
}

type EventsByKind struct {
	Kind   EventKind
	Events []*EnhancedEvent
}

// EventsBatch holds all events of one transaction, partitioned by kind.
// Id is deterministic so re-delivery of the same logs dedupes.
type EventsBatch struct {
	Id       string
	ChainId  domain.ChainId
	Events   []EventsByKind
	Backfill bool
}

// FillInfo triggers post-fill processing like last-sale bookkeeping
type FillInfo struct {
	Context   string           `json:"context"`
	ChainId   domain.ChainId   `json:"chainId"`
	OrderId   domain.OrderHash `json:"orderId"`
	OrderSide order.Side       `json:"orderSide"`
	Contract  domain.Address   `json:"contract"`
	TokenId   domain.TokenId   `json:"tokenId"`
	Amount    string           `json:"amount"`
	Price     string           `json:"price"`
	Maker     domain.Address   `json:"maker"`
	Taker     domain.Address   `json:"taker"`
	Timestamp time.Time        `json:"timestamp"`
}

// ApprovalChange is one decoded ApprovalForAll flip
type ApprovalChange struct {
	ChainId  domain.ChainId `json:"chainId"`
	Contract domain.Address `json:"contract"`
	Owner    domain.Address `json:"owner"`
	Operator domain.Address `json:"operator"`
	Approved bool           `json:"approved"`
	Meta     domain.LogMeta `json:"meta"`
}

// NftTransfer is one decoded erc721 or erc1155 movement
type NftTransfer struct {
	ChainId  domain.ChainId   `json:"chainId"`
	Kind     domain.TokenType `json:"kind"`
	Contract domain.Address   `json:"contract"`
	TokenId  domain.TokenId   `json:"tokenId"`
	From     domain.Address   `json:"from"`
	To       domain.Address   `json:"to"`
	Amount   string           `json:"amount"`
	Meta     domain.LogMeta   `json:"meta"`
}

// OnChainData accumulates everything the handlers of one batch decoded.
// Handlers only append to it, persistence happens once per batch.
type OnChainData struct {
	FillEvents        []*fill.Event
	CancelEvents      []*fill.CancelEvent
	BulkCancelEvents  []*fill.BulkCancelEvent
	NonceCancelEvents []*fill.NonceCancelEvent
	NftTransfers      []*NftTransfer
	ApprovalChanges   []*ApprovalChange
	OrderInfos        []*orderupdate.Payload
	FillInfos         []*FillInfo
	Orders            []*order.Info
}

func NewOnChainData() *OnChainData {
	return &OnChainData{}
}

// Merge folds other into d, preserving per-slice ordering
func (d *OnChainData) Merge(other *OnChainData) {
	d.FillEvents = append(d.FillEvents, other.FillEvents...)
	d.CancelEvents = append(d.CancelEvents, other.CancelEvents...)
	d.BulkCancelEvents = append(d.BulkCancelEvents, other.BulkCancelEvents...)
	d.NonceCancelEvents = append(d.NonceCancelEvents, other.NonceCancelEvents...)
	d.NftTransfers = append(d.NftTransfers, other.NftTransfers...)
	d.ApprovalChanges = append(d.ApprovalChanges, other.ApprovalChanges...)
	d.OrderInfos = append(d.OrderInfos, other.OrderInfos...)
	d.FillInfos = append(d.FillInfos, other.FillInfos...)
	d.Orders = append(d.Orders, other.Orders...)
}

// FillPostProcessor applies the user-facing side effects of a persisted
// fill, like the sale feed entry and the token's last-sale cache
type FillPostProcessor interface {
	ProcessFillInfo(ctx ctx.Ctx, info *FillInfo) error
}

// Handler decodes one kind's events of a batch into on-chain data
type Handler interface {
	Kind() EventKind
	HandleEvents(ctx ctx.Ctx, events []*EnhancedEvent, data *OnChainData) error
}
