package usecase

import (
	"fmt"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/royalties"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/service/cache"
)

type UseCaseCfg struct {
	RoyaltiesRepo royalties.Repo
	Cache         cache.Service
}

type impl struct {
	royalties royalties.Repo
	cache     cache.Service
}

func New(cfg *UseCaseCfg) royalties.UseCase {
	return &impl{
		royalties: cfg.RoyaltiesRepo,
		cache:     cfg.Cache,
	}
}

func (im *impl) GetRoyalties(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) ([]domain.Royalty, error) {
	key := fmt.Sprintf("%d:%s", chainId, contract.ToLower())

	res := []domain.Royalty{}
	err := im.cache.GetByFunc(ctx, key, &res, func() (interface{}, error) {
		r, err := im.royalties.FindOne(ctx, royalties.Id{ChainId: chainId, Contract: contract})
		if err == domain.ErrNotFound {
			// no registered royalties is a valid answer, cache it too
			return []domain.Royalty{}, nil
		} else if err != nil {
			return nil, err
		}
		return r.Royalties, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *impl) GetRoyaltiesByTokenSet(ctx ctx.Ctx, chainId domain.ChainId, tokenSetId domain.TokenSetId) ([]domain.Royalty, error) {
	contract, err := tokenset.ContractOf(tokenSetId)
	if err != nil {
		return nil, err
	}
	return im.GetRoyalties(ctx, chainId, contract)
}
