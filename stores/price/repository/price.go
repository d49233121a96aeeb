package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/price"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) price.Repo {
	return &impl{q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id price.Id) (*price.UsdPrice, error) {
	res := &price.UsdPrice{}
	err := im.q.FindOne(ctx, domain.TableUsdPrices, bson.M{
		"chainId":  id.ChainId,
		"currency": id.Currency.ToLower(),
		"day":      id.Day,
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, p *price.UsdPrice) error {
	p.Currency = p.Currency.ToLower()
	selector := bson.M{
		"chainId":  p.ChainId,
		"currency": p.Currency,
		"day":      p.Day,
	}
	if err := im.q.Upsert(ctx, domain.TableUsdPrices, selector, p); err != nil {
		ctx.WithFields(log.Fields{"err": err, "currency": p.Currency, "day": p.Day}).Error("q.Upsert failed")
		return err
	}
	return nil
}
