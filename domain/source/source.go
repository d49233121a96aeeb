package source

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// Source is one marketplace or aggregator attribution entry
type Source struct {
	Id      domain.SourceId `json:"id" bson:"id"`
	Domain  string          `json:"domain" bson:"domain"`
	Name    string          `json:"name" bson:"name"`
	Address domain.Address  `json:"address,omitempty" bson:"address,omitempty"`
}

type Repo interface {
	FindOneByDomain(ctx ctx.Ctx, domainName string) (*Source, error)
	FindOneByAddress(ctx ctx.Ctx, address domain.Address) (*Source, error)
	Insert(ctx ctx.Ctx, source *Source) error
}

type UseCase interface {
	// GetOrInsert resolves a source by its domain, registering it on
	// first sight
	GetOrInsert(ctx ctx.Ctx, domainName string) (*Source, error)
	// Attribute resolves order source, fill source and aggregator for a
	// fill, falling back to the order kind's home marketplace
	Attribute(ctx ctx.Ctx, orderKind string, address domain.Address, fillSourceDomain string) (*Attribution, error)
}

type Attribution struct {
	OrderSource *Source
	FillSource  *Source
	Aggregator  *Source
}
