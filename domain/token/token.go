package token

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// CachedOrder is the denormalized winner of a floor-ask or top-bid
// recompute
type CachedOrder struct {
	OrderId    domain.OrderHash `json:"orderId" bson:"orderId"`
	Maker      domain.Address   `json:"maker" bson:"maker"`
	Price      string           `json:"price" bson:"price"`
	Value      string           `json:"value" bson:"value"`
	Currency   domain.Address   `json:"currency" bson:"currency"`
	SourceId   domain.SourceId  `json:"sourceId,omitempty" bson:"sourceId,omitempty"`
	ValidUntil time.Time        `json:"validUntil" bson:"validUntil"`
}

// Sale is the cached most recent fill of a token
type Sale struct {
	OrderId   domain.OrderHash `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Price     string           `json:"price" bson:"price"`
	Maker     domain.Address   `json:"maker" bson:"maker"`
	Taker     domain.Address   `json:"taker" bson:"taker"`
	Timestamp time.Time        `json:"timestamp" bson:"timestamp"`
}

// Token is one indexed nft with its cached market state
type Token struct {
	ChainId  domain.ChainId   `json:"chainId" bson:"chainId"`
	Contract domain.Address   `json:"contract" bson:"contract"`
	TokenId  domain.TokenId   `json:"tokenId" bson:"tokenId"`
	Kind     domain.TokenType `json:"kind" bson:"kind"`

	FloorAsk *CachedOrder `json:"floorAsk,omitempty" bson:"floorAsk,omitempty"`
	// NormalizedFloorAsk ranks by value including missing royalties
	NormalizedFloorAsk *CachedOrder `json:"normalizedFloorAsk,omitempty" bson:"normalizedFloorAsk,omitempty"`
	TopBid             *CachedOrder `json:"topBid,omitempty" bson:"topBid,omitempty"`
	LastSale           *Sale        `json:"lastSale,omitempty" bson:"lastSale,omitempty"`
	UpdatedAt          time.Time    `json:"updatedAt" bson:"updatedAt"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
}

func (t *Token) ToId() Id {
	return Id{
		ChainId:  t.ChainId,
		Contract: t.Contract,
		TokenId:  t.TokenId,
	}
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*Token, error)
	// FindAllByContract lists every indexed token of the contract
	FindAllByContract(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) ([]*Token, error)
	Upsert(ctx ctx.Ctx, token *Token) error
	// SetFloorAsk rewrites the cached asks, nil clears them
	SetFloorAsk(ctx ctx.Ctx, id Id, floorAsk, normalizedFloorAsk *CachedOrder) error
	SetTopBid(ctx ctx.Ctx, id Id, topBid *CachedOrder) error
	// SetLastSale overwrites the cached sale only when it is newer than
	// the stored one
	SetLastSale(ctx ctx.Ctx, id Id, sale *Sale) error
}

type UseCase interface {
	// ContractKind returns the token standard of the contract, probing
	// the chain and caching the answer on first sight. Returns
	// domain.ErrNotFound for contracts implementing neither standard.
	ContractKind(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) (domain.TokenType, error)
	// RecomputeFloorAsk rescans the token's live listings and rewrites the
	// cached floor asks
	RecomputeFloorAsk(ctx ctx.Ctx, id Id) error
	// RecomputeTopBid rescans the live bids covering the token and
	// rewrites the cached top bid
	RecomputeTopBid(ctx ctx.Ctx, id Id) error
	// RecomputeSetTopBids fans a top bid recompute out over every token
	// a wider set covers
	RecomputeSetTopBids(ctx ctx.Ctx, chainId domain.ChainId, setId domain.TokenSetId) error
	// RecomputeSetFloorAsks is the sell side counterpart, used by
	// contract-wide amm listings
	RecomputeSetFloorAsks(ctx ctx.Ctx, chainId domain.ChainId, setId domain.TokenSetId) error
}
