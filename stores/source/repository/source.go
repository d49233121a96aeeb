package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/source"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) source.Repo {
	return &impl{q}
}

func (im *impl) FindOneByDomain(ctx ctx.Ctx, domainName string) (*source.Source, error) {
	res := &source.Source{}
	err := im.q.FindOne(ctx, domain.TableSources, bson.M{"domain": domainName}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "domain": domainName}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindOneByAddress(ctx ctx.Ctx, address domain.Address) (*source.Source, error) {
	res := &source.Source{}
	err := im.q.FindOne(ctx, domain.TableSources, bson.M{"address": address.ToLower()}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Insert(ctx ctx.Ctx, s *source.Source) error {
	s.Address = s.Address.ToLower()
	err := im.q.Insert(ctx, domain.TableSources, s)
	if err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "domain": s.Domain}).Error("q.Insert failed")
		return err
	}
	return nil
}
