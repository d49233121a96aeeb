package royalties

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// CollectionRoyalties is the default royalty configuration of a
// collection, the reference used when normalizing order values
type CollectionRoyalties struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	Contract  domain.Address   `json:"contract" bson:"contract"`
	Spec      string           `json:"spec" bson:"spec"`
	Royalties []domain.Royalty `json:"royalties" bson:"royalties"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*CollectionRoyalties, error)
	Upsert(ctx ctx.Ctx, royalties *CollectionRoyalties) error
}

type UseCase interface {
	// GetRoyalties returns the collection's default royalties, empty when
	// the collection has none registered
	GetRoyalties(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) ([]domain.Royalty, error)
	// GetRoyaltiesByTokenSet resolves the royalties backing a token set
	GetRoyaltiesByTokenSet(ctx ctx.Ctx, chainId domain.ChainId, tokenSetId domain.TokenSetId) ([]domain.Royalty, error)
}
