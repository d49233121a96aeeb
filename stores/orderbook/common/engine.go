package common

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/viney-shih/goroutines"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/balance"
	"github.com/floorbook/goapi/domain/currency"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
	"github.com/floorbook/goapi/domain/price"
	"github.com/floorbook/goapi/domain/royalties"
	"github.com/floorbook/goapi/domain/source"
	"github.com/floorbook/goapi/domain/token"
	"github.com/floorbook/goapi/domain/tokenset"
)

const (
	// listingGrace tolerates clock skew on freshly signed orders
	listingGrace = 5 * time.Minute
	poolSize     = 20
)

type EngineCfg struct {
	OrderRepo   order.Repo
	TokenSet    tokenset.UseCase
	Token       token.UseCase
	Royalties   royalties.UseCase
	Price       price.UseCase
	Currency    currency.UseCase
	Source      source.UseCase
	OrderUpdate orderupdate.Publisher
	Balance     balance.UseCase
	Adapters    []Adapter
	// FilteredContracts are blocked collections whose orders are dropped
	// at ingestion
	FilteredContracts []domain.Address
}

type engine struct {
	order       order.Repo
	tokenSet    tokenset.UseCase
	token       token.UseCase
	royalties   royalties.UseCase
	price       price.UseCase
	currency    currency.UseCase
	source      source.UseCase
	orderUpdate orderupdate.Publisher
	balance     balance.UseCase
	adapters    map[order.Kind]Adapter
	filtered    map[domain.Address]bool
	pool        *goroutines.Pool
	met         metrics.Service
}

// Engine is the shared ingestion pipeline plus the revalidation entry
// point used by propagation triggers
type Engine interface {
	order.Saver
	order.Revalidator
}

func NewEngine(cfg *EngineCfg) Engine {
	adapters := make(map[order.Kind]Adapter, len(cfg.Adapters))
	for _, a := range cfg.Adapters {
		adapters[a.Kind()] = a
	}
	filtered := make(map[domain.Address]bool, len(cfg.FilteredContracts))
	for _, c := range cfg.FilteredContracts {
		filtered[c.ToLower()] = true
	}
	return &engine{
		order:       cfg.OrderRepo,
		tokenSet:    cfg.TokenSet,
		token:       cfg.Token,
		royalties:   cfg.Royalties,
		price:       cfg.Price,
		currency:    cfg.Currency,
		source:      cfg.Source,
		orderUpdate: cfg.OrderUpdate,
		balance:     cfg.Balance,
		adapters:    adapters,
		filtered:    filtered,
		pool:        goroutines.NewPool(poolSize, goroutines.WithTaskQueueLength(256)),
		met:         metrics.New("orderbook"),
	}
}

// Save ingests the raw orders concurrently and returns one result per
// input, in input order. Fillable successes get a new-order propagation
// enqueued after the whole batch lands.
func (im *engine) Save(c ctx.Ctx, infos []*order.Info) ([]order.SaveResult, error) {
	defer im.met.BumpTime("save.time").End()

	results := make([]order.SaveResult, len(infos))
	payloads := []*orderupdate.Payload{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, info := range infos {
		i, info := i, info
		wg.Add(1)
		task := func() {
			defer wg.Done()
			res, payload := im.saveOne(c, info)
			results[i] = res
			if payload != nil {
				mu.Lock()
				payloads = append(payloads, payload)
				mu.Unlock()
			}
		}
		if err := im.pool.Schedule(task); err != nil {
			task()
		}
	}
	wg.Wait()

	for _, res := range results {
		im.met.BumpSum("save", 1, "status", string(res.Status))
	}

	if len(payloads) > 0 {
		if err := im.orderUpdate.PublishById(c, payloads); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (im *engine) saveOne(c ctx.Ctx, info *order.Info) (order.SaveResult, *orderupdate.Payload) {
	adapter, ok := im.adapters[info.Kind]
	if !ok {
		return order.SaveResult{Status: order.SaveStatusUnknownOrderKind}, nil
	}

	parsed, err := adapter.Parse(c, info)
	if err != nil {
		return order.SaveResult{Status: parseStatus(err)}, nil
	}

	o := parsed.Order
	o.LowerCase()
	res := order.SaveResult{Id: o.Id}

	if im.filtered[o.Contract] {
		res.Status = order.SaveStatusFiltered
		return res, nil
	}

	if _, err := im.order.FindOne(c, o.ToId()); err == nil {
		res.Status = order.SaveStatusAlreadyExists
		return res, nil
	} else if err != domain.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "id": o.Id}).Error("order.FindOne failed")
		res.Status = order.SaveStatusUnknownError
		return res, nil
	}

	now := time.Now().UTC()
	if o.ValidFrom.After(now.Add(listingGrace)) {
		res.Status = order.SaveStatusInvalidListingTime
		return res, nil
	}
	// validUntil boundary is inclusive, an order expiring right now is
	// already gone
	if !o.IsOpenEnded() && !o.ValidUntil.After(now) {
		res.Status = order.SaveStatusExpired
		return res, nil
	}

	fillability := order.FillabilityFillable
	approval := order.ApprovalApproved
	if err := im.offChainCheck(c, parsed); err != nil {
		switch err {
		case order.ErrNoBalance:
			fillability = order.FillabilityNoBalance
			res.Unfillable = true
		case order.ErrNoApproval:
			approval = order.ApprovalNoApproval
			res.Unfillable = true
		case order.ErrNoBalanceNoApproval:
			fillability = order.FillabilityNoBalance
			approval = order.ApprovalNoApproval
			res.Unfillable = true
		case order.ErrOrderCancelled, order.ErrOrderFilled, order.ErrOrderInvalid:
			res.Status = order.SaveStatusNotFillable
			return res, nil
		default:
			c.WithFields(log.Fields{"err": err, "id": o.Id}).Error("off-chain check failed")
			res.Status = order.SaveStatusUnknownError
			return res, nil
		}
	}

	saved, err := im.tokenSet.Save(c, []*tokenset.TokenSet{parsed.TokenSet})
	if err != nil || len(saved) == 0 {
		res.Status = order.SaveStatusInvalidTokenSet
		return res, nil
	}
	o.TokenSetId = parsed.TokenSet.Id
	if o.TokenSetSchemaHash == "" {
		o.TokenSetSchemaHash = info.Metadata.SchemaHash
	}

	if status := im.computeValues(c, o); status != "" {
		res.Status = status
		return res, nil
	}

	if info.Metadata.Source != "" {
		s, err := im.source.GetOrInsert(c, info.Metadata.Source)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "source": info.Metadata.Source}).Error("source.GetOrInsert failed")
			res.Status = order.SaveStatusUnknownError
			return res, nil
		}
		o.SourceId = s.Id
	}

	if o.Nonce != "" {
		if nonce, ok := new(big.Int).SetString(o.Nonce, 10); ok {
			o.HexNonce = hexutil.Encode(math.U256Bytes(nonce))
		}
	}
	if o.QuantityRemaining == "" {
		o.QuantityRemaining = "1"
	}
	if o.QuantityFilled == "" {
		o.QuantityFilled = "0"
	}

	o.FillabilityStatus = fillability
	o.ApprovalStatus = approval
	o.OriginatedAt = info.Metadata.OriginatedAt
	o.CreatedAt = now
	o.UpdatedAt = now

	err = im.order.Insert(c, o)
	if err == domain.ErrConflict {
		res.Status = order.SaveStatusAlreadyExists
		return res, nil
	} else if err != nil {
		res.Status = order.SaveStatusUnknownError
		return res, nil
	}

	res.Status = order.SaveStatusSuccess
	if o.IsActive() {
		return res, &orderupdate.Payload{
			Context: orderupdate.NewOrderContext(o.Id),
			ChainId: o.ChainId,
			Trigger: orderupdate.Trigger{Kind: orderupdate.TriggerNewOrder},
			Id:      o.Id,
		}
	}
	return res, nil
}

// computeValues fills the fee, royalty and pricing columns. Returns a
// non-empty status when the order cannot be priced.
func (im *engine) computeValues(c ctx.Ctx, o *order.Order) order.SaveStatus {
	currencyPrice, ok := new(big.Int).SetString(o.CurrencyPrice, 10)
	if !ok {
		return order.SaveStatusInvalid
	}

	feeBps := 0
	for _, fee := range o.FeeBreakdown {
		feeBps += fee.Bps
	}
	o.FeeBps = feeBps

	defaults, err := im.royalties.GetRoyaltiesByTokenSet(c, o.ChainId, o.TokenSetId)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": o.Id}).Error("royalties.GetRoyaltiesByTokenSet failed")
		return order.SaveStatusUnknownError
	}
	o.MissingRoyalties = MissingRoyalties(currencyPrice, o.FeeBreakdown, defaults)

	currencyValue := ComputeValue(o.Side, currencyPrice, feeBps)
	o.CurrencyValue = currencyValue.String()
	o.CurrencyNormalizedValue = NormalizeValue(o.Side, currencyValue, o.MissingRoyalties).String()

	// native and wrapped native price as-is, everything else goes through
	// the day rate
	if o.Currency.Equals(domain.NativeAddress) || o.Currency.Equals(domain.ChainIdWrappedNativeMap[o.ChainId]) {
		o.Price = o.CurrencyPrice
		o.Value = o.CurrencyValue
		o.NormalizedValue = o.CurrencyNormalizedValue
		return ""
	}

	whitelisted := im.currency.IsWhitelisted(c, currency.Id{ChainId: o.ChainId, Contract: o.Currency})

	convert := func(amount string) (string, bool) {
		conv, err := im.price.Convert(c, o.ChainId, o.Currency, amount, time.Now())
		if err != nil || conv.NativePrice == nil {
			return "", false
		}
		return *conv.NativePrice, true
	}

	if native, ok := convert(o.CurrencyPrice); ok {
		o.Price = native
	} else if whitelisted {
		// whitelisted currencies are accepted without a usable rate
		o.Price = "0"
	} else {
		return order.SaveStatusUnsupportedPaymentToken
	}
	if native, ok := convert(o.CurrencyValue); ok {
		o.Value = native
	} else {
		o.Value = "0"
	}
	if native, ok := convert(o.CurrencyNormalizedValue); ok {
		o.NormalizedValue = native
	} else {
		o.NormalizedValue = "0"
	}
	return ""
}

func parseStatus(err error) order.SaveStatus {
	switch err {
	case ErrInvalidSignature:
		return order.SaveStatusInvalidSignature
	case ErrUnsupportedPaymentToken:
		return order.SaveStatusUnsupportedPaymentToken
	case ErrUnsupportedAmount:
		return order.SaveStatusUnsupportedAmount
	case ErrBundleUnsupported:
		return order.SaveStatusBundleUnsupported
	case ErrInvalidOrder:
		return order.SaveStatusInvalid
	}
	return order.SaveStatusInvalid
}
