package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func NewRepo(q query.Mongo) fill.Repo {
	return &impl{q}
}

func (im *impl) makeQuery(options fill.FindAllOptions) bson.M {
	query := bson.M{}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.OrderId != nil {
		query["orderId"] = options.OrderId.ToLower()
	}

	if options.TxHash != nil {
		query["txHash"] = options.TxHash.ToLower()
	}

	if options.Contract != nil {
		query["contract"] = options.Contract.ToLower()
	}

	if options.BlockNumber != nil {
		query["blockNumber"] = *options.BlockNumber
	}

	if options.BlockHash != nil {
		query["blockHash"] = options.BlockHash.ToLower()
	}

	return query
}

func (im *impl) FindAllEvents(ctx ctx.Ctx, opts ...fill.FindAllOptionsFunc) ([]*fill.Event, error) {
	options, err := fill.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := im.makeQuery(options)

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

	res := []*fill.Event{}
	err = im.q.Search(ctx, domain.TableFillEvents, offset, limit, sort, query, &res)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

// StoreEvents upserts by log position so re-syncing a block is idempotent
func (im *impl) StoreEvents(ctx ctx.Ctx, events []*fill.Event) error {
	if len(events) == 0 {
		return nil
	}
	ops := make([]query.UpsertOp, 0, len(events))
	for _, ev := range events {
		ev.Maker = ev.Maker.ToLower()
		ev.Taker = ev.Taker.ToLower()
		ev.Contract = ev.Contract.ToLower()
		ev.Currency = ev.Currency.ToLower()
		ev.OrderId = ev.OrderId.ToLower()
		ev.TxHash = ev.TxHash.ToLower()
		ev.BlockHash = ev.BlockHash.ToLower()
		ops = append(ops, query.UpsertOp{
			Selector: bson.M{
				"chainId":    ev.ChainId,
				"txHash":     ev.TxHash,
				"logIndex":   ev.LogIndex,
				"batchIndex": ev.BatchIndex,
			},
			Updater: ev,
		})
	}
	if _, _, err := im.q.BulkUpsert(ctx, domain.TableFillEvents, ops); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("q.BulkUpsert failed")
		return err
	}
	return nil
}

func (im *impl) StoreCancelEvents(ctx ctx.Ctx, events []*fill.CancelEvent) error {
	if len(events) == 0 {
		return nil
	}
	ops := make([]query.UpsertOp, 0, len(events))
	for _, ev := range events {
		ev.Maker = ev.Maker.ToLower()
		ev.OrderId = ev.OrderId.ToLower()
		ev.TxHash = ev.TxHash.ToLower()
		ev.BlockHash = ev.BlockHash.ToLower()
		ops = append(ops, query.UpsertOp{
			Selector: bson.M{
				"chainId":    ev.ChainId,
				"txHash":     ev.TxHash,
				"logIndex":   ev.LogIndex,
				"batchIndex": ev.BatchIndex,
			},
			Updater: ev,
		})
	}
	if _, _, err := im.q.BulkUpsert(ctx, domain.TableCancelEvents, ops); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("q.BulkUpsert failed")
		return err
	}
	return nil
}

func (im *impl) StoreBulkCancelEvents(ctx ctx.Ctx, events []*fill.BulkCancelEvent) error {
	if len(events) == 0 {
		return nil
	}
	ops := make([]query.UpsertOp, 0, len(events))
	for _, ev := range events {
		ev.Maker = ev.Maker.ToLower()
		ev.TxHash = ev.TxHash.ToLower()
		ev.BlockHash = ev.BlockHash.ToLower()
		ops = append(ops, query.UpsertOp{
			Selector: bson.M{
				"chainId":  ev.ChainId,
				"txHash":   ev.TxHash,
				"logIndex": ev.LogIndex,
			},
			Updater: ev,
		})
	}
	if _, _, err := im.q.BulkUpsert(ctx, domain.TableBulkCancelEvents, ops); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("q.BulkUpsert failed")
		return err
	}
	return nil
}

func (im *impl) StoreNonceCancelEvents(ctx ctx.Ctx, events []*fill.NonceCancelEvent) error {
	if len(events) == 0 {
		return nil
	}
	ops := make([]query.UpsertOp, 0, len(events))
	for _, ev := range events {
		ev.Maker = ev.Maker.ToLower()
		ev.TxHash = ev.TxHash.ToLower()
		ev.BlockHash = ev.BlockHash.ToLower()
		ops = append(ops, query.UpsertOp{
			Selector: bson.M{
				"chainId":    ev.ChainId,
				"txHash":     ev.TxHash,
				"logIndex":   ev.LogIndex,
				"batchIndex": ev.BatchIndex,
			},
			Updater: ev,
		})
	}
	if _, _, err := im.q.BulkUpsert(ctx, domain.TableNonceCancelEvents, ops); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("q.BulkUpsert failed")
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
	for _, table := range []domain.Table{
		domain.TableFillEvents,
		domain.TableCancelEvents,
		domain.TableBulkCancelEvents,
		domain.TableNonceCancelEvents,
	} {
		if _, err := im.q.RemoveAll(ctx, table, selector); err != nil {
			ctx.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("q.RemoveAll failed")
			return err
		}
	}
	return nil
}
