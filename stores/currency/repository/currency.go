package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/currency"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) currency.Repo {
	return &impl{q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id currency.Id) (*currency.Currency, error) {
	res := &currency.Currency{}
	err := im.q.FindOne(ctx, domain.TableCurrencies, bson.M{
		"chainId":  id.ChainId,
		"contract": id.Contract.ToLower(),
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, c *currency.Currency) error {
	c.Contract = c.Contract.ToLower()
	selector := bson.M{
		"chainId":  c.ChainId,
		"contract": c.Contract,
	}
	if err := im.q.Upsert(ctx, domain.TableCurrencies, selector, c); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": c.Contract}).Error("q.Upsert failed")
		return err
	}
	return nil
}
