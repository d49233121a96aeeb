package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/royalties"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) royalties.Repo {
	return &impl{q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id royalties.Id) (*royalties.CollectionRoyalties, error) {
	res := &royalties.CollectionRoyalties{}
	err := im.q.FindOne(ctx, domain.TableRoyalties, bson.M{
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

func (im *impl) Upsert(ctx ctx.Ctx, r *royalties.CollectionRoyalties) error {
	r.Contract = r.Contract.ToLower()
	for i := range r.Royalties {
		r.Royalties[i].Recipient = r.Royalties[i].Recipient.ToLower()
	}
	selector := bson.M{
		"chainId":  r.ChainId,
		"contract": r.Contract,
	}
	if err := im.q.Upsert(ctx, domain.TableRoyalties, selector, r); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": r.Contract}).Error("q.Upsert failed")
		return err
	}
	return nil
}
