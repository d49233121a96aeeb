package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/activity"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) activity.Repo {
	return &impl{q}
}

func (im *impl) Upsert(ctx ctx.Ctx, a *activity.Activity) error {
	a.Contract = a.Contract.ToLower()
	a.FromAddress = a.FromAddress.ToLower()
	a.ToAddress = a.ToAddress.ToLower()
	a.OrderId = a.OrderId.ToLower()
	a.TxHash = a.TxHash.ToLower()
	a.BlockHash = a.BlockHash.ToLower()
	selector := bson.M{
		"chainId": a.ChainId,
		"hash":    a.Hash,
	}
	if err := im.q.Upsert(ctx, domain.TableActivities, selector, a); err != nil {
		ctx.WithFields(log.Fields{"err": err, "hash": a.Hash}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) RemoveAllByBlock(ctx ctx.Ctx, chainId domain.ChainId, blockNumber domain.BlockNumber, blockHash domain.BlockHash) error {
	selector := bson.M{
		"chainId":     chainId,
		"blockNumber": blockNumber,
		"blockHash":   blockHash.ToLower(),
	}
	if _, err := im.q.RemoveAll(ctx, domain.TableActivities, selector); err != nil {
		ctx.WithFields(log.Fields{"err": err, "selector": selector}).Error("q.RemoveAll failed")
		return err
	}
	return nil
}
