package usecase

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/source"
)

// kindDomains maps each order kind to its home marketplace
var kindDomains = map[order.Kind]string{
	order.KindSeaport:     "opensea.io",
	order.KindWyvernV23:   "opensea.io",
	order.KindX2Y2:        "x2y2.io",
	order.KindLooksRareV2: "looksrare.org",
	order.KindZeroExV4:    "0x.org",
	order.KindElement:     "element.market",
	order.KindRarible:     "rarible.com",
	order.KindUniverse:    "universe.xyz",
	order.KindManifold:    "manifold.xyz",
	order.KindSudoswapV2:  "sudoswap.xyz",
}

type UseCaseCfg struct {
	SourceRepo source.Repo
}

type impl struct {
	source source.Repo
}

func New(cfg *UseCaseCfg) source.UseCase {
	return &impl{source: cfg.SourceRepo}
}

func (im *impl) GetOrInsert(ctx ctx.Ctx, domainName string) (*source.Source, error) {
	s, err := im.source.FindOneByDomain(ctx, domainName)
	if err == nil {
		return s, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}

	s = &source.Source{
		Id:     domain.SourceId(domainName),
		Domain: domainName,
		Name:   domainName,
	}
	err = im.source.Insert(ctx, s)
	if err == domain.ErrConflict {
		// lost the race, the winner's row is authoritative
		return im.source.FindOneByDomain(ctx, domainName)
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (im *impl) Attribute(ctx ctx.Ctx, orderKind string, address domain.Address, fillSourceDomain string) (*source.Attribution, error) {
	res := &source.Attribution{}

	// aggregator attribution comes from the router contract the fill went
	// through, when we know it
	if !address.IsEmpty() {
		agg, err := im.source.FindOneByAddress(ctx, address)
		if err == nil {
			res.Aggregator = agg
		} else if err != domain.ErrNotFound {
			ctx.WithFields(log.Fields{"err": err, "address": address}).Error("source.FindOneByAddress failed")
			return nil, err
		}
	}

	if homeDomain, ok := kindDomains[order.Kind(orderKind)]; ok {
		orderSource, err := im.GetOrInsert(ctx, homeDomain)
		if err != nil {
			return nil, err
		}
		res.OrderSource = orderSource
	}

	if fillSourceDomain != "" {
		fillSource, err := im.GetOrInsert(ctx, fillSourceDomain)
		if err != nil {
			return nil, err
		}
		res.FillSource = fillSource
	} else if res.Aggregator != nil {
		res.FillSource = res.Aggregator
	} else {
		res.FillSource = res.OrderSource
	}

	return res, nil
}
