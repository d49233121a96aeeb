package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/balance"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) balance.Repo {
	return &impl{q}
}

func (im *impl) FindBalance(ctx ctx.Ctx, id balance.Id) (*balance.NftBalance, error) {
	res := &balance.NftBalance{}
	err := im.q.FindOne(ctx, domain.TableNftBalances, bson.M{
		"chainId":  id.ChainId,
		"contract": id.Contract.ToLower(),
		"tokenId":  id.TokenId,
		"owner":    id.Owner.ToLower(),
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) UpsertBalance(ctx ctx.Ctx, b *balance.NftBalance) error {
	b.Contract = b.Contract.ToLower()
	b.Owner = b.Owner.ToLower()
	selector := bson.M{
		"chainId":  b.ChainId,
		"contract": b.Contract,
		"tokenId":  b.TokenId,
		"owner":    b.Owner,
	}
	if err := im.q.Upsert(ctx, domain.TableNftBalances, selector, b); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": b.ToId()}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) FindApproval(ctx ctx.Ctx, id balance.ApprovalId) (*balance.Approval, error) {
	res := &balance.Approval{}
	err := im.q.FindOne(ctx, domain.TableNftApprovals, bson.M{
		"chainId":  id.ChainId,
		"contract": id.Contract.ToLower(),
		"owner":    id.Owner.ToLower(),
		"operator": id.Operator.ToLower(),
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) UpsertApproval(ctx ctx.Ctx, a *balance.Approval) error {
	a.Contract = a.Contract.ToLower()
	a.Owner = a.Owner.ToLower()
	a.Operator = a.Operator.ToLower()
	selector := bson.M{
		"chainId":  a.ChainId,
		"contract": a.Contract,
		"owner":    a.Owner,
		"operator": a.Operator,
	}
	if err := im.q.Upsert(ctx, domain.TableNftApprovals, selector, a); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": a.ToId()}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) RemoveAllByOwner(ctx ctx.Ctx, chainId domain.ChainId, contract, owner domain.Address) error {
	selector := bson.M{
		"chainId":  chainId,
		"contract": contract.ToLower(),
		"owner":    owner.ToLower(),
	}
	for _, table := range []domain.Table{domain.TableNftBalances, domain.TableNftApprovals} {
		if _, err := im.q.RemoveAll(ctx, table, selector); err != nil && err != query.ErrNotFound {
			ctx.WithFields(log.Fields{"err": err, "owner": owner}).Error("q.RemoveAll failed")
			return err
		}
	}
	return nil
}
