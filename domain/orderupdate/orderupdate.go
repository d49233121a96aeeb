package orderupdate

import (
	"fmt"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

type TriggerKind string

const (
	TriggerNewOrder       TriggerKind = "new-order"
	TriggerReprice        TriggerKind = "reprice"
	TriggerCancel         TriggerKind = "cancel"
	TriggerExpiry         TriggerKind = "expiry"
	TriggerSale           TriggerKind = "sale"
	TriggerBalanceChange  TriggerKind = "balance-change"
	TriggerApprovalChange TriggerKind = "approval-change"
	TriggerRevalidation   TriggerKind = "revalidation"
	TriggerReorg          TriggerKind = "reorg"
)

type Trigger struct {
	Kind        TriggerKind      `json:"kind"`
	TxHash      domain.TxHash    `json:"txHash,omitempty"`
	TxTimestamp int64            `json:"txTimestamp,omitempty"`
	LogIndex    uint             `json:"logIndex,omitempty"`
	BatchIndex  uint             `json:"batchIndex,omitempty"`
	BlockHash   domain.BlockHash `json:"blockHash,omitempty"`
}

// Payload triggers downstream propagation for one order. Context is used
// as the dedupe key, so two payloads with the same context collapse into
// one processed job. Contexts must be distinctive enough that distinct
// state transitions never collide.
type Payload struct {
	Context string         `json:"context"`
	ChainId domain.ChainId `json:"chainId"`
	Trigger Trigger        `json:"trigger"`
	// Id points at the order whose caches should be recomputed
	Id domain.OrderHash `json:"id,omitempty"`
}

func NewOrderContext(id domain.OrderHash) string {
	return fmt.Sprintf("new-order-%s", id)
}

func FilledContext(id domain.OrderHash, txHash domain.TxHash) string {
	return fmt.Sprintf("filled-%s-%s", id, txHash)
}

func CancelledContext(id domain.OrderHash, txHash domain.TxHash, logIndex, batchIndex uint) string {
	return fmt.Sprintf("cancelled-%s-%s-%d-%d", id, txHash, logIndex, batchIndex)
}

func RepriceContext(id domain.OrderHash, txHash domain.TxHash) string {
	return fmt.Sprintf("reprice-%s-%s", id, txHash)
}

func ExpiredContext(id domain.OrderHash, checkedAt time.Time) string {
	return fmt.Sprintf("expired-%s-%d", id, checkedAt.Unix())
}

func RevalidationContext(kind TriggerKind, id domain.OrderHash, txHash domain.TxHash) string {
	return fmt.Sprintf("%s-%s-%s", kind, id, txHash)
}

// Publisher enqueues propagation payloads keyed by their contexts
type Publisher interface {
	PublishById(ctx ctx.Ctx, payloads []*Payload) error
}

// UseCase propagates one order state change into order events, top
// bid and floor caches, and the activity feed
type UseCase interface {
	Publisher
	ProcessById(ctx ctx.Ctx, payload *Payload) error
}
