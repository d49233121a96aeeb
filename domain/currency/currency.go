package currency

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// Currency is one payment token observed in orders or fills
type Currency struct {
	ChainId     domain.ChainId `json:"chainId" bson:"chainId"`
	Contract    domain.Address `json:"contract" bson:"contract"`
	Name        string         `json:"name" bson:"name"`
	Symbol      string         `json:"symbol" bson:"symbol"`
	Decimals    int32          `json:"decimals" bson:"decimals"`
	CoinGeckoId string         `json:"coinGeckoId" bson:"coinGeckoId"`
	// Whitelisted currencies skip USD pricing and are surfaced with a
	// zero value in public events
	Whitelisted bool `json:"whitelisted" bson:"whitelisted"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
}

func (c *Currency) ToId() Id {
	return Id{
		ChainId:  c.ChainId,
		Contract: c.Contract,
	}
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*Currency, error)
	Upsert(ctx ctx.Ctx, currency *Currency) error
}

type UseCase interface {
	// Get returns the currency metadata, fetching and caching the
	// on-chain details on first sight
	Get(ctx ctx.Ctx, id Id) (*Currency, error)
	IsWhitelisted(ctx ctx.Ctx, id Id) bool
}
