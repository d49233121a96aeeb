package order

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// SaveStatus describes the outcome of ingesting one order
type SaveStatus string

const (
	SaveStatusSuccess                 SaveStatus = "success"
	SaveStatusAlreadyExists           SaveStatus = "already-exists"
	SaveStatusUnknownOrderKind        SaveStatus = "unknown-order-kind"
	SaveStatusFiltered                SaveStatus = "filtered"
	SaveStatusInvalidListingTime      SaveStatus = "invalid-listing-time"
	SaveStatusExpired                 SaveStatus = "expired"
	SaveStatusUnsupportedPaymentToken SaveStatus = "unsupported-payment-token"
	SaveStatusUnsupportedAmount       SaveStatus = "unsupported-amount"
	SaveStatusBundleUnsupported       SaveStatus = "bundle-order-unsupported"
	SaveStatusInvalid                 SaveStatus = "invalid"
	SaveStatusInvalidSignature        SaveStatus = "invalid-signature"
	SaveStatusInvalidTokenSet         SaveStatus = "invalid-token-set"
	SaveStatusNotFillable             SaveStatus = "not-fillable"
	SaveStatusUnknownError            SaveStatus = "unknown-error"
)

// off-chain check outcomes that keep the order around in a degraded state
var (
	ErrNoBalance           = errors.New("no-balance")
	ErrNoApproval          = errors.New("no-approval")
	ErrNoBalanceNoApproval = errors.New("no-balance-no-approval")

	// terminal off-chain check outcomes
	ErrOrderCancelled = errors.New("cancelled")
	ErrOrderFilled    = errors.New("filled")
	ErrOrderInvalid   = errors.New("invalid")
)

type SaveResult struct {
	Id     domain.OrderHash `json:"id"`
	Status SaveStatus       `json:"status"`
	// set when the order was stored with a degraded fillability or
	// approval status
	Unfillable bool `json:"unfillable,omitempty"`
}

// Metadata is submitter-provided context carried alongside a raw order
type Metadata struct {
	SchemaHash   string          `json:"schemaHash"`
	Schema       json.RawMessage `json:"schema,omitempty"`
	Source       string          `json:"source,omitempty"`
	OriginatedAt time.Time       `json:"originatedAt,omitempty"`
}

// Info is one raw order queued for ingestion. RawOrder holds the
// protocol-specific payload and is decoded by the matching adapter.
type Info struct {
	Kind     Kind            `json:"kind"`
	ChainId  domain.ChainId  `json:"chainId"`
	RawOrder json.RawMessage `json:"rawOrder"`
	Metadata Metadata        `json:"metadata"`
}

// Saver ingests raw orders and returns one result per input, in input order
type Saver interface {
	Save(ctx ctx.Ctx, infos []*Info) ([]SaveResult, error)
}
