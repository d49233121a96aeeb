package repository

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/database/mongoclient"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/service/query"
)

var zeroTime = time.Time{}

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) order.Repo {
	return &impl{q}
}

// HexNonce converts a decimal nonce into 0x-prefixed zero-padded u256 hex
func HexNonce(nonce string) (string, error) {
	n, ok := new(big.Int).SetString(nonce, 10)
	if !ok {
		return "", domain.ErrInvalidNumberFormat
	}
	return hexutil.Encode(math.U256Bytes(n)), nil
}

func (im *impl) makeQuery(options order.FindAllOptions) (bson.M, error) {
	query := bson.M{}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.Ids != nil {
		ids := make([]domain.OrderHash, 0, len(*options.Ids))
		for _, id := range *options.Ids {
			ids = append(ids, id.ToLower())
		}
		query["id"] = bson.M{"$in": ids}
	}

	if options.Kind != nil {
		query["kind"] = *options.Kind
	}

	if options.Side != nil {
		query["side"] = *options.Side
	}

	if options.Maker != nil {
		query["maker"] = options.Maker.ToLower()
	}

	if options.Contract != nil {
		query["contract"] = options.Contract.ToLower()
	}

	if options.TokenSetId != nil {
		query["tokenSetId"] = *options.TokenSetId
	}

	if options.FillabilityStatus != nil {
		query["fillabilityStatus"] = *options.FillabilityStatus
	}

	if options.ApprovalStatus != nil {
		query["approvalStatus"] = *options.ApprovalStatus
	}

	if options.Nonce != nil {
		query["nonce"] = *options.Nonce
	}

	if options.NonceLT != nil {
		hexNonce, err := HexNonce(*options.NonceLT)
		if err != nil {
			return nil, err
		}
		query["hexNonce"] = bson.M{"$lt": hexNonce}
	}

	if options.ValidUntilLTE != nil {
		// open-ended orders carry a zero validUntil and never expire
		query["validUntil"] = bson.M{"$lte": *options.ValidUntilLTE, "$gt": zeroTime}
	}

	return query, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query, err := im.makeQuery(options)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("im.makeQuery")
		return nil, err
	}

	offset := 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}

	limit := 0
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	sort := ""
	if options.Sort != nil {
		sort = *options.Sort
	}

	res := []*order.Order{}
	err = im.q.Search(ctx, domain.TableOrders, offset, limit, sort, query, &res)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id order.Id) (*order.Order, error) {
	res := &order.Order{}
	err := im.q.FindOne(ctx, domain.TableOrders, bson.M{
		"chainId": id.ChainId,
		"id":      id.Id.ToLower(),
	}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) (int, error) {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return 0, err
	}
	query, err := im.makeQuery(options)
	if err != nil {
		return 0, err
	}
	return im.q.Count(ctx, domain.TableOrders, query)
}

func (im *impl) Insert(ctx ctx.Ctx, o *order.Order) error {
	o.LowerCase()
	err := im.q.Insert(ctx, domain.TableOrders, o)
	if err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": o.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Upsert(ctx ctx.Ctx, o *order.Order) error {
	o.LowerCase()
	selector := bson.M{
		"chainId": o.ChainId,
		"id":      o.Id,
	}
	if err := im.q.Upsert(ctx, domain.TableOrders, selector, o); err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": o.Id}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) Update(ctx ctx.Ctx, id order.Id, patchable order.Patchable) error {
	selector := bson.M{
		"chainId": id.ChainId,
		"id":      id.Id.ToLower(),
	}

	updater, err := mongoclient.MakeBsonM(&patchable)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("mongoclient.MakeBsonM failed")
		return err
	}
	if len(updater) == 0 {
		return nil
	}

	err = im.q.Patch(ctx, domain.TableOrders, selector, updater)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (im *impl) RemoveAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) error {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return err
	}
	query, err := im.makeQuery(options)
	if err != nil {
		return err
	}
	if _, err := im.q.RemoveAll(ctx, domain.TableOrders, query); err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.RemoveAll failed")
		return err
	}
	return nil
}
