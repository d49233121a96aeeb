package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/token"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) token.Repo {
	return &impl{q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id token.Id) (*token.Token, error) {
	res := &token.Token{}
	err := im.q.FindOne(ctx, domain.TableTokens, bson.M{
		"chainId":  id.ChainId,
		"contract": id.Contract.ToLower(),
		"tokenId":  id.TokenId,
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAllByContract(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) ([]*token.Token, error) {
	res := []*token.Token{}
	err := im.q.Search(ctx, domain.TableTokens, 0, 0, "tokenId", bson.M{
		"chainId":  chainId,
		"contract": contract.ToLower(),
	}, &res)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": contract}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, t *token.Token) error {
	t.Contract = t.Contract.ToLower()
	selector := bson.M{
		"chainId":  t.ChainId,
		"contract": t.Contract,
		"tokenId":  t.TokenId,
	}
	if err := im.q.Upsert(ctx, domain.TableTokens, selector, t); err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": t.Contract, "tokenId": t.TokenId}).Error("q.Upsert failed")
		return err
	}
	return nil
}

// SetFloorAsk rewrites the cached asks in place, materializing the token
// row if the recompute ran before the token was ever indexed
func (im *impl) SetFloorAsk(ctx ctx.Ctx, id token.Id, floorAsk, normalizedFloorAsk *token.CachedOrder) error {
	return im.patchCaches(ctx, id, bson.M{
		"floorAsk":           floorAsk,
		"normalizedFloorAsk": normalizedFloorAsk,
	})
}

func (im *impl) SetTopBid(ctx ctx.Ctx, id token.Id, topBid *token.CachedOrder) error {
	return im.patchCaches(ctx, id, bson.M{"topBid": topBid})
}

// SetLastSale keeps the newest fill. Sales replay out of order during
// backfills, so an older timestamp never overwrites a newer one.
func (im *impl) SetLastSale(ctx ctx.Ctx, id token.Id, sale *token.Sale) error {
	cur, err := im.FindOne(ctx, id)
	if err != nil && err != domain.ErrNotFound {
		return err
	}
	if err == nil && cur.LastSale != nil && cur.LastSale.Timestamp.After(sale.Timestamp) {
		return nil
	}
	return im.patchCaches(ctx, id, bson.M{"lastSale": sale})
}

func (im *impl) patchCaches(ctx ctx.Ctx, id token.Id, fields bson.M) error {
	selector := bson.M{
		"chainId":  id.ChainId,
		"contract": id.Contract.ToLower(),
		"tokenId":  id.TokenId,
	}
	set := bson.M{
		"chainId":   id.ChainId,
		"contract":  id.Contract.ToLower(),
		"tokenId":   id.TokenId,
		"updatedAt": time.Now().UTC(),
	}
	for k, v := range fields {
		set[k] = v
	}
	if err := im.q.CustomPatch(ctx, domain.TableTokens, selector, bson.M{"$set": set}, true); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.CustomPatch failed")
		return err
	}
	return nil
}
