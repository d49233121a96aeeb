package usecase

import (
	"fmt"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/currency"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/chain"
)

var nativeSymbols = map[domain.ChainId]string{
	1:   "ETH",
	5:   "ETH",
	137: "MATIC",
}

type UseCaseCfg struct {
	CurrencyRepo currency.Repo
	Erc          chain.Erc
	Cache        cache.Service
}

type impl struct {
	currency currency.Repo
	erc      chain.Erc
	cache    cache.Service
}

func New(cfg *UseCaseCfg) currency.UseCase {
	return &impl{
		currency: cfg.CurrencyRepo,
		erc:      cfg.Erc,
		cache:    cfg.Cache,
	}
}

func cacheKey(id currency.Id) string {
	return fmt.Sprintf("%d:%s", id.ChainId, id.Contract.ToLower())
}

func (im *impl) Get(ctx ctx.Ctx, id currency.Id) (*currency.Currency, error) {
	id.Contract = id.Contract.ToLower()

	res := &currency.Currency{}
	err := im.cache.GetByFunc(ctx, cacheKey(id), res, func() (interface{}, error) {
		return im.get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) get(ctx ctx.Ctx, id currency.Id) (*currency.Currency, error) {
	c, err := im.currency.FindOne(ctx, id)
	if err == nil {
		return c, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}

	if id.Contract.IsEmpty() || id.Contract.Equals(domain.NativeAddress) {
		c = &currency.Currency{
			ChainId:  id.ChainId,
			Contract: domain.NativeAddress,
			Name:     nativeSymbols[id.ChainId],
			Symbol:   nativeSymbols[id.ChainId],
			Decimals: 18,
		}
	} else {
		c, err = im.fetchOnChain(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if err := im.currency.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// fetchOnChain reads erc20 metadata straight from the contract. Tokens
// missing optional methods still get stored with sensible defaults.
func (im *impl) fetchOnChain(ctx ctx.Ctx, id currency.Id) (*currency.Currency, error) {
	c := &currency.Currency{
		ChainId:  id.ChainId,
		Contract: id.Contract,
		Decimals: 18,
	}

	if decimals, err := im.erc.Erc20Decimals(ctx, id.ChainId, id.Contract); err == nil {
		c.Decimals = int32(decimals)
	} else {
		ctx.WithFields(log.Fields{"err": err, "contract": id.Contract}).Warn("erc20 decimals call failed")
	}
	if symbol, err := im.erc.Erc20Symbol(ctx, id.ChainId, id.Contract); err == nil {
		c.Symbol = symbol
	}
	if name, err := im.erc.Erc20Name(ctx, id.ChainId, id.Contract); err == nil {
		c.Name = name
	}

	return c, nil
}

func (im *impl) IsWhitelisted(ctx ctx.Ctx, id currency.Id) bool {
	c, err := im.Get(ctx, id)
	if err != nil {
		return false
	}
	return c.Whitelisted
}
