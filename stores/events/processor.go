package events

import (
	"encoding/json"
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/activity"
	"github.com/floorbook/goapi/domain/balance"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/jobqueue"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/domain/price"
	"github.com/floorbook/goapi/domain/source"
)

// Processor turns one extracted events batch into persisted fills,
// order state transitions and downstream propagation jobs
type Processor interface {
	ProcessEventsBatch(ctx ctx.Ctx, batch *exchange.EventsBatch) error
	// RollbackBlock drops everything written for a reorged block so the
	// replacement block can be synced from scratch
	RollbackBlock(ctx ctx.Ctx, chainId domain.ChainId, blockNumber domain.BlockNumber, blockHash domain.BlockHash) error
}

type ProcessorCfg struct {
	FillRepo     fill.Repo
	OrderRepo    order.Repo
	ActivityRepo activity.Repo
	BalanceRepo  balance.Repo
	Source       source.UseCase
	Price        price.UseCase
	OrderUpdate  orderupdate.Publisher
	JobQueue     jobqueue.Publisher
	Handlers     []exchange.Handler
}

type processorImpl struct {
	fillRepo     fill.Repo
	orderRepo    order.Repo
	activityRepo activity.Repo
	balanceRepo  balance.Repo
	source       source.UseCase
	price        price.UseCase
	orderUpdate  orderupdate.Publisher
	jobQueue     jobqueue.Publisher
	handlers     map[exchange.EventKind]exchange.Handler
	met          metrics.Service
}

func NewProcessor(cfg *ProcessorCfg) Processor {
	handlers := map[exchange.EventKind]exchange.Handler{}
	for _, h := range cfg.Handlers {
		handlers[h.Kind()] = h
	}
	return &processorImpl{
		fillRepo:     cfg.FillRepo,
		orderRepo:    cfg.OrderRepo,
		activityRepo: cfg.ActivityRepo,
		balanceRepo:  cfg.BalanceRepo,
		source:       cfg.Source,
		price:        cfg.Price,
		orderUpdate:  cfg.OrderUpdate,
		jobQueue:     cfg.JobQueue,
		handlers:     handlers,
		met:          metrics.New("events"),
	}
}

func (p *processorImpl) ProcessEventsBatch(c ctx.Ctx, batch *exchange.EventsBatch) error {
	defer p.met.BumpTime("batch.time").End()

	data := exchange.NewOnChainData()
	for _, byKind := range batch.Events {
		if len(byKind.Events) == 0 {
			continue
		}
		handler, ok := p.handlers[byKind.Kind]
		if !ok {
			continue
		}
		kindData := exchange.NewOnChainData()
		if err := handler.HandleEvents(c, byKind.Events, kindData); err != nil {
			p.met.BumpSum("handle.err", 1, "kind", string(byKind.Kind))
			return err
		}
		data.Merge(kindData)
	}
	return p.applyOnChainData(c, batch, data)
}

// applyOnChainData persists fill events before any order side effect, a
// crash in between re-runs the batch and the upserts converge
func (p *processorImpl) applyOnChainData(c ctx.Ctx, batch *exchange.EventsBatch, data *exchange.OnChainData) error {
	for _, fe := range data.FillEvents {
		p.enrichFill(c, fe, data.NftTransfers)
	}
	p.collectFillInfos(data)

	if len(data.FillEvents) > 0 {
		if err := p.fillRepo.StoreEvents(c, data.FillEvents); err != nil {
			return err
		}
		p.met.BumpSum("fills", float64(len(data.FillEvents)))
	}
	if len(data.CancelEvents) > 0 {
		if err := p.fillRepo.StoreCancelEvents(c, data.CancelEvents); err != nil {
			return err
		}
	}
	if len(data.BulkCancelEvents) > 0 {
		if err := p.fillRepo.StoreBulkCancelEvents(c, data.BulkCancelEvents); err != nil {
			return err
		}
	}
	if len(data.NonceCancelEvents) > 0 {
		if err := p.fillRepo.StoreNonceCancelEvents(c, data.NonceCancelEvents); err != nil {
			return err
		}
	}

	payloads := []*orderupdate.Payload{}
	payloads = append(payloads, p.applyCancels(c, data.CancelEvents)...)
	payloads = append(payloads, p.applyNonceCancels(c, data.NonceCancelEvents)...)
	payloads = append(payloads, p.applyBulkCancels(c, data.BulkCancelEvents)...)
	payloads = append(payloads, p.applyFills(c, data.FillEvents)...)
	payloads = append(payloads, p.applyNftTransfers(c, batch, data.NftTransfers)...)
	payloads = append(payloads, p.applyApprovalChanges(c, data.ApprovalChanges)...)
	payloads = append(payloads, data.OrderInfos...)

	// backfill replays history, user-facing propagation is skipped
	if !batch.Backfill && len(payloads) > 0 {
		if err := p.orderUpdate.PublishById(c, payloads); err != nil {
			return err
		}
	}

	return p.publishJobs(c, batch, data)
}

// collectFillInfos derives post-process triggers from the enriched fill
// events. Handlers that already emitted one for a fill keep theirs, the
// context check drops the derived duplicate.
func (p *processorImpl) collectFillInfos(data *exchange.OnChainData) {
	seen := map[string]bool{}
	for _, info := range data.FillInfos {
		seen[info.Context] = true
	}
	for _, fe := range data.FillEvents {
		context := orderupdate.FilledContext(fe.OrderId, fe.TxHash)
		if fe.OrderId == "" {
			context = keys.RedisKey("filled", string(fe.TxHash), uintStr(fe.LogIndex), uintStr(fe.BatchIndex))
		}
		if seen[context] {
			continue
		}
		seen[context] = true
		data.FillInfos = append(data.FillInfos, &exchange.FillInfo{
			Context:   context,
			ChainId:   fe.ChainId,
			OrderId:   fe.OrderId,
			OrderSide: fe.OrderSide,
			Contract:  fe.Contract,
			TokenId:   fe.TokenId,
			Amount:    fe.Amount,
			Price:     fe.Price,
			Maker:     fe.Maker,
			Taker:     fe.Taker,
			Timestamp: fe.Timestamp,
		})
	}
}

// enrichFill resolves prices, source attribution and the fields lookup
// style handlers could not decode from the log alone
func (p *processorImpl) enrichFill(c ctx.Ctx, fe *fill.Event, transfers []*exchange.NftTransfer) {
	if fe.OrderId != "" {
		if o, err := p.orderRepo.FindOne(c, order.Id{ChainId: fe.ChainId, Id: fe.OrderId}); err == nil {
			fe.OrderSourceId = o.SourceId
			if fe.OrderSide == "" {
				fe.OrderSide = o.Side
			}
			if fe.Maker.IsEmpty() {
				fe.Maker = o.Maker
			}
			if fe.Contract.IsEmpty() {
				fe.Contract = o.Contract
			}
			if fe.TokenId == "" {
				fe.TokenId = singleTokenId(o.TokenSetId)
			}
			if fe.CurrencyPrice == "" || fe.CurrencyPrice == "0" {
				fe.CurrencyPrice = o.CurrencyPrice
			}
		}
	}

	// legacy fills carry no token on the wire, the nft transfer of the
	// same transaction recovers it
	if fe.Contract.IsEmpty() {
		for _, t := range transfers {
			if t.Meta.TxHash == fe.TxHash {
				fe.Contract = t.Contract
				fe.TokenId = t.TokenId
				break
			}
		}
	}

	if fe.CurrencyPrice != "" && fe.CurrencyPrice != "0" {
		conv, err := p.price.Convert(c, fe.ChainId, fe.Currency, fe.CurrencyPrice, fe.Timestamp)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "currency": fe.Currency}).Warn("fill price conversion failed")
		} else {
			if conv.NativePrice != nil {
				fe.Price = *conv.NativePrice
			}
			if conv.UsdPrice != nil {
				if usd, err := decimal.NewFromString(*conv.UsdPrice); err == nil {
					fe.UsdPrice = usd.Shift(-6).InexactFloat64()
				}
			}
		}
	}

	attribution, err := p.source.Attribute(c, string(fe.OrderKind), fe.Taker, "")
	if err != nil {
		c.WithFields(log.Fields{"err": err, "orderKind": fe.OrderKind}).Warn("fill source attribution failed")
		return
	}
	if attribution.FillSource != nil {
		fe.FillSourceId = attribution.FillSource.Id
	}
	if attribution.Aggregator != nil {
		fe.Aggregator = attribution.Aggregator.Id
	}
	if fe.OrderSourceId == "" && attribution.OrderSource != nil {
		fe.OrderSourceId = attribution.OrderSource.Id
	}
}

func (p *processorImpl) applyCancels(c ctx.Ctx, events []*fill.CancelEvent) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, ev := range events {
		if ev.OrderId == "" {
			continue
		}
		o, err := p.orderRepo.FindOne(c, order.Id{ChainId: ev.ChainId, Id: ev.OrderId})
		if err != nil {
			continue
		}
		if payload := p.cancelOrder(c, o, ev.TxHash, ev.LogIndex, ev.BatchIndex, ev.Timestamp); payload != nil {
			payloads = append(payloads, payload)
		}
	}
	return payloads
}

func (p *processorImpl) applyNonceCancels(c ctx.Ctx, events []*fill.NonceCancelEvent) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, ev := range events {
		orders, err := p.orderRepo.FindAll(c,
			order.WithChainId(ev.ChainId),
			order.WithKind(ev.OrderKind),
			order.WithMaker(ev.Maker),
			order.WithNonce(ev.Nonce),
		)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "maker": ev.Maker}).Warn("nonce cancel lookup failed")
			continue
		}
		for _, o := range orders {
			if payload := p.cancelOrder(c, o, ev.TxHash, ev.LogIndex, ev.BatchIndex, ev.Timestamp); payload != nil {
				payloads = append(payloads, payload)
			}
		}
	}
	return payloads
}

func (p *processorImpl) applyBulkCancels(c ctx.Ctx, events []*fill.BulkCancelEvent) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, ev := range events {
		orders, err := p.orderRepo.FindAll(c,
			order.WithChainId(ev.ChainId),
			order.WithKind(ev.OrderKind),
			order.WithMaker(ev.Maker),
			order.WithNonceLT(ev.MinNonce),
			order.WithFillabilityStatus(order.FillabilityFillable),
		)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "maker": ev.Maker}).Warn("bulk cancel lookup failed")
			continue
		}
		for _, o := range orders {
			if payload := p.cancelOrder(c, o, ev.TxHash, ev.LogIndex, 0, ev.Timestamp); payload != nil {
				payloads = append(payloads, payload)
			}
		}
	}
	return payloads
}

func (p *processorImpl) cancelOrder(c ctx.Ctx, o *order.Order, txHash domain.TxHash, logIndex, batchIndex uint, at time.Time) *orderupdate.Payload {
	if o.FillabilityStatus == order.FillabilityCancelled {
		return nil
	}
	cancelled := order.FillabilityCancelled
	now := time.Now()
	err := p.orderRepo.Update(c, o.ToId(), order.Patchable{
		FillabilityStatus: &cancelled,
		UpdatedAt:         &now,
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "orderId": o.Id}).Error("cancel patch failed")
		return nil
	}
	p.met.BumpSum("cancels", 1, "kind", string(o.Kind))
	return &orderupdate.Payload{
		Context: orderupdate.CancelledContext(o.Id, txHash, logIndex, batchIndex),
		ChainId: o.ChainId,
		Trigger: orderupdate.Trigger{
			Kind:        orderupdate.TriggerCancel,
			TxHash:      txHash,
			TxTimestamp: at.Unix(),
			LogIndex:    logIndex,
			BatchIndex:  batchIndex,
		},
		Id: o.Id,
	}
}

// applyFills moves the filled quantity onto the order, flipping it to
// filled once nothing remains
func (p *processorImpl) applyFills(c ctx.Ctx, events []*fill.Event) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, ev := range events {
		if ev.OrderId == "" {
			continue
		}
		o, err := p.orderRepo.FindOne(c, order.Id{ChainId: ev.ChainId, Id: ev.OrderId})
		if err != nil {
			continue
		}
		if o.FillabilityStatus == order.FillabilityFilled {
			continue
		}

		amount, ok := new(big.Int).SetString(ev.Amount, 10)
		if !ok || amount.Sign() <= 0 {
			amount = big.NewInt(1)
		}
		remaining, ok := new(big.Int).SetString(o.QuantityRemaining, 10)
		if !ok {
			remaining = big.NewInt(1)
		}
		filled, ok := new(big.Int).SetString(o.QuantityFilled, 10)
		if !ok {
			filled = big.NewInt(0)
		}

		remaining.Sub(remaining, amount)
		if remaining.Sign() < 0 {
			remaining.SetInt64(0)
		}
		filled.Add(filled, amount)

		newRemaining := remaining.String()
		newFilled := filled.String()
		now := time.Now()
		patch := order.Patchable{
			QuantityRemaining: &newRemaining,
			QuantityFilled:    &newFilled,
			UpdatedAt:         &now,
		}
		if remaining.Sign() == 0 {
			status := order.FillabilityFilled
			patch.FillabilityStatus = &status
		}
		if err := p.orderRepo.Update(c, o.ToId(), patch); err != nil {
			c.WithFields(log.Fields{"err": err, "orderId": o.Id}).Error("fill patch failed")
			continue
		}

		payloads = append(payloads, &orderupdate.Payload{
			Context: orderupdate.FilledContext(o.Id, ev.TxHash),
			ChainId: o.ChainId,
			Trigger: orderupdate.Trigger{
				Kind:        orderupdate.TriggerSale,
				TxHash:      ev.TxHash,
				TxTimestamp: ev.Timestamp.Unix(),
				LogIndex:    ev.LogIndex,
				BatchIndex:  ev.BatchIndex,
			},
			Id: o.Id,
		})
	}
	return payloads
}

// applyNftTransfers records feed entries and revalidates the seller's
// open listings, a transferred token invalidates their balance
func (p *processorImpl) applyNftTransfers(c ctx.Ctx, batch *exchange.EventsBatch, transfers []*exchange.NftTransfer) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, t := range transfers {
		if !batch.Backfill {
			entry := &activity.Activity{
				ChainId:     t.ChainId,
				Type:        activity.TypeTransfer,
				Hash:        keys.MD5(keys.RedisKey("transfer", string(t.Meta.TxHash), uintStr(t.Meta.LogIndex), uintStr(t.Meta.BatchIndex))),
				Contract:    t.Contract,
				TokenId:     t.TokenId,
				FromAddress: t.From,
				ToAddress:   t.To,
				Amount:      t.Amount,
				BlockNumber: t.Meta.BlockNumber,
				BlockHash:   t.Meta.BlockHash,
				TxHash:      t.Meta.TxHash,
				LogIndex:    t.Meta.LogIndex,
				BatchIndex:  t.Meta.BatchIndex,
				Timestamp:   t.Meta.BlockTime,
			}
			if err := p.activityRepo.Upsert(c, entry); err != nil {
				c.WithFields(log.Fields{"err": err, "txHash": t.Meta.TxHash}).Warn("transfer activity upsert failed")
			}
		}

		if t.From.IsEmpty() || t.From.Equals(domain.EmptyAddress) {
			// mints cannot invalidate listings
			continue
		}
		orders, err := p.orderRepo.FindAll(c,
			order.WithChainId(t.ChainId),
			order.WithMaker(t.From),
			order.WithContract(t.Contract),
			order.WithSide(order.SideSell),
			order.WithFillabilityStatus(order.FillabilityFillable),
		)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "maker": t.From}).Warn("balance change lookup failed")
			continue
		}
		for _, o := range orders {
			payloads = append(payloads, &orderupdate.Payload{
				Context: orderupdate.RevalidationContext(orderupdate.TriggerBalanceChange, o.Id, t.Meta.TxHash),
				ChainId: o.ChainId,
				Trigger: orderupdate.Trigger{
					Kind:        orderupdate.TriggerBalanceChange,
					TxHash:      t.Meta.TxHash,
					TxTimestamp: t.Meta.BlockTime.Unix(),
					LogIndex:    t.Meta.LogIndex,
					BatchIndex:  t.Meta.BatchIndex,
				},
				Id: o.Id,
			})
		}
	}
	return payloads
}

// applyApprovalChanges refreshes the approval cache and queues the
// owner's live sell orders on the contract for revalidation
func (p *processorImpl) applyApprovalChanges(c ctx.Ctx, changes []*exchange.ApprovalChange) []*orderupdate.Payload {
	payloads := []*orderupdate.Payload{}
	for _, ch := range changes {
		err := p.balanceRepo.UpsertApproval(c, &balance.Approval{
			ChainId:   ch.ChainId,
			Contract:  ch.Contract,
			Owner:     ch.Owner,
			Operator:  ch.Operator,
			Approved:  ch.Approved,
			UpdatedAt: ch.Meta.BlockTime,
		})
		if err != nil {
			c.WithFields(log.Fields{"err": err, "owner": ch.Owner}).Warn("approval cache upsert failed")
		}

		orders, err := p.orderRepo.FindAll(c,
			order.WithChainId(ch.ChainId),
			order.WithMaker(ch.Owner),
			order.WithContract(ch.Contract),
			order.WithSide(order.SideSell),
		)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "owner": ch.Owner}).Warn("approval change lookup failed")
			continue
		}
		for _, o := range orders {
			if !o.IsActive() && o.ApprovalStatus != order.ApprovalNoApproval {
				continue
			}
			payloads = append(payloads, &orderupdate.Payload{
				Context: orderupdate.RevalidationContext(orderupdate.TriggerApprovalChange, o.Id, ch.Meta.TxHash),
				ChainId: o.ChainId,
				Trigger: orderupdate.Trigger{
					Kind:        orderupdate.TriggerApprovalChange,
					TxHash:      ch.Meta.TxHash,
					TxTimestamp: ch.Meta.BlockTime.Unix(),
					LogIndex:    ch.Meta.LogIndex,
				},
				Id: o.Id,
			})
		}
	}
	return payloads
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// publishJobs fans the remaining decoded artifacts out to their queues
func (p *processorImpl) publishJobs(c ctx.Ctx, batch *exchange.EventsBatch, data *exchange.OnChainData) error {
	jobs := []*jobqueue.Job{}

	if !batch.Backfill {
		for _, info := range data.FillInfos {
			payload, err := json.Marshal(info)
			if err != nil {
				return err
			}
			jobs = append(jobs, &jobqueue.Job{
				Queue:   jobqueue.QueueFillPostProcess,
				JobId:   info.Context,
				Payload: payload,
			})
		}
	}

	for _, o := range data.Orders {
		payload, err := json.Marshal(o)
		if err != nil {
			return err
		}
		jobs = append(jobs, &jobqueue.Job{
			Queue:   jobqueue.QueueOrderbookOrders,
			JobId:   keys.MD5(string(payload)),
			Payload: payload,
		})
	}

	if len(jobs) == 0 {
		return nil
	}
	return p.jobQueue.Publish(c, jobs...)
}
