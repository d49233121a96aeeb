package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/base/ptr"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/currency"
	"github.com/floorbook/goapi/domain/price"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/coingecko"
)

const provider = "coingecko"

// nativeCoinGeckoIds maps a chain's native currency to its coingecko id
var nativeCoinGeckoIds = map[domain.ChainId]string{
	1:   "ethereum",
	5:   "ethereum",
	137: "matic-network",
}

type UseCaseCfg struct {
	PriceRepo price.Repo
	Currency  currency.UseCase
	CoinGecko coingecko.Client
	Cache     cache.Service
}

type impl struct {
	price     price.Repo
	currency  currency.UseCase
	coingecko coingecko.Client
	cache     cache.Service
	met       metrics.Service
}

func New(cfg *UseCaseCfg) price.UseCase {
	return &impl{
		price:     cfg.PriceRepo,
		currency:  cfg.Currency,
		coingecko: cfg.CoinGecko,
		cache:     cfg.Cache,
		met:       metrics.New("price"),
	}
}

// day truncates a timestamp to UTC midnight, the granularity every rate
// is stored at
func day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func isNative(cur domain.Address) bool {
	return cur.IsEmpty() || cur.Equals(domain.NativeAddress)
}

func (im *impl) GetUsdPrice(ctx ctx.Ctx, chainId domain.ChainId, cur domain.Address, timestamp time.Time) (decimal.Decimal, error) {
	cur = cur.ToLower()
	d := day(timestamp)
	key := fmt.Sprintf("%d:%s:%s", chainId, cur, d.Format("2006-01-02"))

	res := decimal.Zero
	err := im.cache.GetByFunc(ctx, key, &res, func() (interface{}, error) {
		return im.getUsdPrice(ctx, chainId, cur, d)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return res, nil
}

func (im *impl) getUsdPrice(ctx ctx.Ctx, chainId domain.ChainId, cur domain.Address, d time.Time) (decimal.Decimal, error) {
	row, err := im.price.FindOne(ctx, price.Id{ChainId: chainId, Currency: cur, Day: d})
	if err == nil {
		return row.Value, nil
	}
	if err != domain.ErrNotFound {
		return decimal.Zero, err
	}

	coinGeckoId, err := im.coinGeckoId(ctx, chainId, cur)
	if err != nil {
		return decimal.Zero, err
	}

	im.met.BumpSum("coingecko.fetch", 1)
	rate, err := im.coingecko.GetPriceAtDate(ctx, coinGeckoId, d.Format("02-01-2006"))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "currency": cur, "day": d}).Error("coingecko.GetPriceAtDate failed")
		return decimal.Zero, err
	}

	if err := im.price.Upsert(ctx, &price.UsdPrice{
		ChainId:  chainId,
		Currency: cur,
		Day:      d,
		Value:    rate,
		Provider: provider,
	}); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

func (im *impl) coinGeckoId(ctx ctx.Ctx, chainId domain.ChainId, cur domain.Address) (string, error) {
	// the native currency and its wrapped form share the same rate
	if isNative(cur) || cur.Equals(domain.ChainIdWrappedNativeMap[chainId]) {
		if id, ok := nativeCoinGeckoIds[chainId]; ok {
			return id, nil
		}
		return "", domain.ErrInvalidChainId
	}

	meta, err := im.currency.Get(ctx, currency.Id{ChainId: chainId, Contract: cur})
	if err != nil {
		return "", err
	}
	if meta.CoinGeckoId == "" {
		return "", domain.ErrInvalidCurrency
	}
	return meta.CoinGeckoId, nil
}

func (im *impl) Convert(ctx ctx.Ctx, chainId domain.ChainId, cur domain.Address, amount string, timestamp time.Time) (*price.Conversion, error) {
	cur = cur.ToLower()
	res := &price.Conversion{Currency: cur}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, domain.ErrInvalidNumberFormat
	}

	decimals := int32(18)
	if !isNative(cur) {
		meta, err := im.currency.Get(ctx, currency.Id{ChainId: chainId, Contract: cur})
		if err != nil {
			return nil, err
		}
		decimals = meta.Decimals
	}
	whole := amt.Shift(-decimals)

	rate, err := im.GetUsdPrice(ctx, chainId, cur, timestamp)
	if err != nil {
		return nil, err
	}
	// usd amounts carry 6 decimals
	res.UsdPrice = ptr.String(whole.Mul(rate).Shift(6).Truncate(0).String())

	nativeRate, err := im.GetUsdPrice(ctx, chainId, domain.NativeAddress, timestamp)
	if err != nil {
		return nil, err
	}
	if !nativeRate.IsZero() {
		native := whole.Mul(rate).Div(nativeRate)
		res.NativePrice = ptr.String(native.Shift(18).Truncate(0).String())
	}

	return res, nil
}
