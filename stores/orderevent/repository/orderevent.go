package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/orderevent"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) orderevent.Repo {
	return &impl{q}
}

func (im *impl) Store(ctx ctx.Ctx, event *orderevent.Event) error {
	event.Contract = event.Contract.ToLower()
	event.Maker = event.Maker.ToLower()
	event.OrderId = event.OrderId.ToLower()
	event.TxHash = event.TxHash.ToLower()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := im.q.Insert(ctx, domain.TableOrderEvents, event); err != nil {
		ctx.WithFields(log.Fields{"err": err, "orderId": event.OrderId}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *impl) FindAllByOrderId(ctx ctx.Ctx, chainId domain.ChainId, orderId domain.OrderHash) ([]*orderevent.Event, error) {
	query := bson.M{
		"chainId": chainId,
		"orderId": orderId.ToLower(),
	}
	res := []*orderevent.Event{}
	if err := im.q.Search(ctx, domain.TableOrderEvents, 0, 0, "createdAt", query, &res); err != nil {
		ctx.WithFields(log.Fields{"err": err, "orderId": orderId}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
