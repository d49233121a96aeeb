package activity

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

type Type string

const (
	TypeSale       Type = "sale"
	TypeAsk        Type = "ask"
	TypeBid        Type = "bid"
	TypeAskCancel  Type = "ask_cancel"
	TypeBidCancel  Type = "bid_cancel"
	TypeTransfer   Type = "transfer"
)

// Activity is one user-facing feed entry. Hash dedupes re-processing of
// the same underlying event.
type Activity struct {
	ChainId     domain.ChainId     `json:"chainId" bson:"chainId"`
	Type        Type               `json:"type" bson:"type"`
	Hash        string             `json:"hash" bson:"hash"`
	Contract    domain.Address     `json:"contract" bson:"contract"`
	TokenId     domain.TokenId     `json:"tokenId" bson:"tokenId"`
	OrderId     domain.OrderHash   `json:"orderId,omitempty" bson:"orderId,omitempty"`
	FromAddress domain.Address     `json:"fromAddress" bson:"fromAddress"`
	ToAddress   domain.Address     `json:"toAddress,omitempty" bson:"toAddress,omitempty"`
	Price       string             `json:"price,omitempty" bson:"price,omitempty"`
	Currency    domain.Address     `json:"currency,omitempty" bson:"currency,omitempty"`
	Amount      string             `json:"amount" bson:"amount"`
	SourceId    domain.SourceId    `json:"sourceId,omitempty" bson:"sourceId,omitempty"`
	BlockNumber domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`
	BlockHash   domain.BlockHash   `json:"blockHash,omitempty" bson:"blockHash,omitempty"`
	TxHash      domain.TxHash      `json:"txHash,omitempty" bson:"txHash,omitempty"`
	LogIndex    uint               `json:"logIndex,omitempty" bson:"logIndex,omitempty"`
	BatchIndex  uint               `json:"batchIndex,omitempty" bson:"batchIndex,omitempty"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type Repo interface {
	Upsert(ctx ctx.Ctx, activity *Activity) error
	// RemoveAllByBlock drops feed entries of a reorged block
	RemoveAllByBlock(ctx ctx.Ctx, chainId domain.ChainId, blockNumber domain.BlockNumber, blockHash domain.BlockHash) error
}
