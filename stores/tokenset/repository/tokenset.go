package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) tokenset.Repo {
	return &impl{q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id tokenset.Id) (*tokenset.TokenSet, error) {
	res := &tokenset.TokenSet{}
	err := im.q.FindOne(ctx, domain.TableTokenSets, bson.M{
		"chainId": id.ChainId,
		"id":      id.Id,
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, ts *tokenset.TokenSet) error {
	ts.Contract = ts.Contract.ToLower()
	selector := bson.M{
		"chainId": ts.ChainId,
		"id":      ts.Id,
	}
	if err := im.q.Upsert(ctx, domain.TableTokenSets, selector, ts); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": ts.Id}).Error("q.Upsert failed")
		return err
	}
	return nil
}
