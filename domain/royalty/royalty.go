package royalty

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// Spec names one royalty standard tracked per collection
type Spec string

const (
	SpecDefault Spec = "default"
	SpecOpenSea Spec = "opensea"
	SpecOnChain Spec = "onchain"
)

// Entry is the royalty configuration of one collection under one spec
type Entry struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	Contract  domain.Address   `json:"contract" bson:"contract"`
	Spec      Spec             `json:"spec" bson:"spec"`
	Royalties []domain.Royalty `json:"royalties" bson:"royalties"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
	Spec     Spec           `json:"spec" bson:"spec"`
}

func (e *Entry) ToId() Id {
	return Id{
		ChainId:  e.ChainId,
		Contract: e.Contract,
		Spec:     e.Spec,
	}
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*Entry, error)
	Upsert(ctx ctx.Ctx, entry *Entry) error
}

type UseCase interface {
	// GetRoyalties returns the royalties owed for the token under the
	// given spec, empty when none are registered
	GetRoyalties(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId, spec Spec) ([]domain.Royalty, error)
	// GetRoyaltiesByTokenSet resolves the set to its contract first
	GetRoyaltiesByTokenSet(ctx ctx.Ctx, chainId domain.ChainId, tokenSetId domain.TokenSetId, spec Spec) ([]domain.Royalty, error)
}
