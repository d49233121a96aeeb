package orderevent

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusFilled    Status = "filled"
)

// StatusOf collapses an order's fillability and approval into a single
// audit status. Terminal fillability wins over approval problems.
func StatusOf(fillability order.FillabilityStatus, approval order.ApprovalStatus) Status {
	switch fillability {
	case order.FillabilityFilled:
		return StatusFilled
	case order.FillabilityCancelled:
		return StatusCancelled
	case order.FillabilityExpired:
		return StatusExpired
	case order.FillabilityNoBalance:
		return StatusInactive
	}
	if approval == order.ApprovalNoApproval || approval == order.ApprovalDisabled {
		return StatusInactive
	}
	return StatusActive
}

// Event is one row of the append-only order audit trail
type Event struct {
	ChainId                domain.ChainId    `json:"chainId" bson:"chainId"`
	Kind                   string            `json:"kind" bson:"kind"`
	Status                 Status            `json:"status" bson:"status"`
	Contract               domain.Address    `json:"contract" bson:"contract"`
	TokenId                domain.TokenId    `json:"tokenId" bson:"tokenId"`
	OrderId                domain.OrderHash  `json:"orderId" bson:"orderId"`
	OrderKind              order.Kind        `json:"orderKind" bson:"orderKind"`
	OrderSourceId          domain.SourceId   `json:"orderSourceId" bson:"orderSourceId"`
	OrderTokenSetId        domain.TokenSetId `json:"orderTokenSetId" bson:"orderTokenSetId"`
	OrderQuantityRemaining string            `json:"orderQuantityRemaining" bson:"orderQuantityRemaining"`
	OrderNonce             string            `json:"orderNonce" bson:"orderNonce"`
	OrderCurrency          domain.Address    `json:"orderCurrency" bson:"orderCurrency"`
	OrderCurrencyPrice     string            `json:"orderCurrencyPrice" bson:"orderCurrencyPrice"`
	OrderNormalizedValue   string            `json:"orderNormalizedValue" bson:"orderNormalizedValue"`
	Maker                  domain.Address    `json:"maker" bson:"maker"`
	Price                  string            `json:"price" bson:"price"`
	ValidFrom              time.Time         `json:"validFrom" bson:"validFrom"`
	ValidUntil             time.Time         `json:"validUntil" bson:"validUntil"`
	TxHash                 domain.TxHash     `json:"txHash" bson:"txHash"`
	TxTimestamp            int64             `json:"txTimestamp" bson:"txTimestamp"`
	CreatedAt              time.Time         `json:"createdAt" bson:"createdAt"`
}

type Repo interface {
	Store(ctx ctx.Ctx, event *Event) error
	FindAllByOrderId(ctx ctx.Ctx, chainId domain.ChainId, orderId domain.OrderHash) ([]*Event, error)
}
