package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) domain.TrackerStateRepo {
	return &impl{q}
}

func (im *impl) selector(id *domain.TrackerStateId) bson.M {
	return bson.M{
		"chainId":         id.ChainId,
		"contractAddress": id.ContractAddress.ToLower(),
		"tag":             id.Tag,
	}
}

func (im *impl) Get(ctx ctx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	res := &domain.TrackerState{}
	err := im.q.FindOne(ctx, domain.TableTrackerStates, im.selector(id), res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Update(ctx ctx.Ctx, state *domain.TrackerState) error {
	if err := im.q.Upsert(ctx, domain.TableTrackerStates, im.selector(state.ToId()), state); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": state.ToId()}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) Store(ctx ctx.Ctx, state *domain.TrackerState) error {
	return im.Update(ctx, state)
}
