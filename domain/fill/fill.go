package fill

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

// Event is one sale decoded from an on-chain log. Fill events are written
// before any order or balance side effects so a crash never loses a sale.
type Event struct {
	ChainId       domain.ChainId   `json:"chainId" bson:"chainId"`
	OrderKind     order.Kind       `json:"orderKind" bson:"orderKind"`
	OrderId       domain.OrderHash `json:"orderId" bson:"orderId"`
	OrderSide     order.Side       `json:"orderSide" bson:"orderSide"`
	OrderSourceId domain.SourceId  `json:"orderSourceId" bson:"orderSourceId"`
	Maker         domain.Address   `json:"maker" bson:"maker"`
	Taker         domain.Address   `json:"taker" bson:"taker"`
	Contract      domain.Address   `json:"contract" bson:"contract"`
	TokenId       domain.TokenId   `json:"tokenId" bson:"tokenId"`
	Amount        string           `json:"amount" bson:"amount"`
	Currency      domain.Address   `json:"currency" bson:"currency"`
	CurrencyPrice string           `json:"currencyPrice" bson:"currencyPrice"`
	Price         string           `json:"price" bson:"price"`
	UsdPrice      float64          `json:"usdPrice" bson:"usdPrice"`
	FillSourceId  domain.SourceId  `json:"fillSourceId" bson:"fillSourceId"`
	Aggregator    domain.SourceId  `json:"aggregatorSourceId" bson:"aggregatorSourceId"`

	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	BlockHash   domain.BlockHash   `json:"blockHash" bson:"blockHash"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	TxIndex     uint               `json:"txIndex" bson:"txIndex"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	BatchIndex  uint               `json:"batchIndex" bson:"batchIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type CancelEvent struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	OrderKind order.Kind       `json:"orderKind" bson:"orderKind"`
	OrderId   domain.OrderHash `json:"orderId" bson:"orderId"`
	Maker     domain.Address   `json:"maker" bson:"maker"`

	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	BlockHash   domain.BlockHash   `json:"blockHash" bson:"blockHash"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	TxIndex     uint               `json:"txIndex" bson:"txIndex"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	BatchIndex  uint               `json:"batchIndex" bson:"batchIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

// BulkCancelEvent invalidates every order of the maker below MinNonce
type BulkCancelEvent struct {
	ChainId   domain.ChainId `json:"chainId" bson:"chainId"`
	OrderKind order.Kind     `json:"orderKind" bson:"orderKind"`
	Maker     domain.Address `json:"maker" bson:"maker"`
	MinNonce  string         `json:"minNonce" bson:"minNonce"`

	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	BlockHash   domain.BlockHash   `json:"blockHash" bson:"blockHash"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	TxIndex     uint               `json:"txIndex" bson:"txIndex"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

// NonceCancelEvent invalidates every order of the maker carrying the nonce
type NonceCancelEvent struct {
	ChainId   domain.ChainId `json:"chainId" bson:"chainId"`
	OrderKind order.Kind     `json:"orderKind" bson:"orderKind"`
	Maker     domain.Address `json:"maker" bson:"maker"`
	Nonce     string         `json:"nonce" bson:"nonce"`

	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	BlockHash   domain.BlockHash   `json:"blockHash" bson:"blockHash"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	TxIndex     uint               `json:"txIndex" bson:"txIndex"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	BatchIndex  uint               `json:"batchIndex" bson:"batchIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type FindAllOptions struct {
	ChainId     *domain.ChainId
	OrderId     *domain.OrderHash
	TxHash      *domain.TxHash
	Contract    *domain.Address
	BlockNumber *domain.BlockNumber
	BlockHash   *domain.BlockHash
	Offset      *int32
	Limit       *int32
	Sort        *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithOrderId(orderId domain.OrderHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OrderId = &orderId
		return nil
	}
}

func WithTxHash(txHash domain.TxHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TxHash = &txHash
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

func WithBlock(blockNumber domain.BlockNumber, blockHash domain.BlockHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.BlockNumber = &blockNumber
		options.BlockHash = &blockHash
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

type Repo interface {
	FindAllEvents(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Event, error)
	StoreEvents(ctx ctx.Ctx, events []*Event) error
	StoreCancelEvents(ctx ctx.Ctx, events []*CancelEvent) error
	StoreBulkCancelEvents(ctx ctx.Ctx, events []*BulkCancelEvent) error
	StoreNonceCancelEvents(ctx ctx.Ctx, events []*NonceCancelEvent) error
	// RemoveAllByBlock drops every event written for the given block so
	// a reorged block can be re-synced from scratch
	RemoveAllByBlock(ctx ctx.Ctx, chainId domain.ChainId, blockNumber domain.BlockNumber, blockHash domain.BlockHash) error
}
