package usecase

import (
	"fmt"
	"math/big"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/balance"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/chain"
)

// cached rows older than this are reprobed on chain
const maxRowAge = 5 * time.Minute

type UseCaseCfg struct {
	BalanceRepo balance.Repo
	Erc         chain.Erc
	Cache       cache.Service
}

type impl struct {
	repo  balance.Repo
	erc   chain.Erc
	cache cache.Service
	met   metrics.Service
}

func New(cfg *UseCaseCfg) balance.UseCase {
	return &impl{
		repo:  cfg.BalanceRepo,
		erc:   cfg.Erc,
		cache: cfg.Cache,
		met:   metrics.New("balance"),
	}
}

func (im *impl) Erc721HasToken(c ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId, owner domain.Address) (bool, error) {
	id := balance.Id{ChainId: chainId, Contract: contract.ToLower(), TokenId: tokenId, Owner: owner.ToLower()}
	if row, err := im.repo.FindBalance(c, id); err == nil && im.fresh(row.UpdatedAt) {
		return row.Amount != "0", nil
	}

	actual, err := im.erc.Erc721OwnerOf(c, chainId, contract, tokenId)
	if err != nil {
		return false, err
	}
	im.met.BumpSum("recheck", 1, "kind", "erc721")

	has := actual.Equals(owner)
	amount := "0"
	if has {
		amount = "1"
	}
	im.writeBackBalance(c, &balance.NftBalance{
		ChainId:  chainId,
		Contract: contract,
		TokenId:  tokenId,
		Owner:    owner,
		Amount:   amount,
	})
	if !has {
		im.writeBackBalance(c, &balance.NftBalance{
			ChainId:  chainId,
			Contract: contract,
			TokenId:  tokenId,
			Owner:    actual,
			Amount:   "1",
		})
	}
	return has, nil
}

func (im *impl) Erc1155Balance(c ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId, owner domain.Address) (*big.Int, error) {
	id := balance.Id{ChainId: chainId, Contract: contract.ToLower(), TokenId: tokenId, Owner: owner.ToLower()}
	if row, err := im.repo.FindBalance(c, id); err == nil && im.fresh(row.UpdatedAt) {
		if amount, ok := new(big.Int).SetString(row.Amount, 10); ok {
			return amount, nil
		}
	}

	amount, err := im.erc.Erc1155BalanceOf(c, chainId, contract, owner, tokenId)
	if err != nil {
		return nil, err
	}
	im.met.BumpSum("recheck", 1, "kind", "erc1155")

	im.writeBackBalance(c, &balance.NftBalance{
		ChainId:  chainId,
		Contract: contract,
		TokenId:  tokenId,
		Owner:    owner,
		Amount:   amount.String(),
	})
	return amount, nil
}

// erc20 balances move too fast for mongo rows, they only live in the
// short lived memory cache
func (im *impl) Erc20Balance(c ctx.Ctx, chainId domain.ChainId, currency, owner domain.Address) (*big.Int, error) {
	key := fmt.Sprintf("erc20:%d:%s:%s", chainId, currency.ToLower(), owner.ToLower())
	var cached string
	err := im.cache.GetByFunc(c, key, &cached, func() (interface{}, error) {
		b, err := im.erc.Erc20BalanceOf(c, chainId, currency, owner)
		if err != nil {
			return nil, err
		}
		return b.String(), nil
	})
	if err != nil {
		return nil, err
	}
	res, ok := new(big.Int).SetString(cached, 10)
	if !ok {
		return nil, domain.ErrBadParamInput
	}
	return res, nil
}

func (im *impl) Erc20Allowance(c ctx.Ctx, chainId domain.ChainId, currency, owner, operator domain.Address) (*big.Int, error) {
	key := fmt.Sprintf("allowance:%d:%s:%s:%s", chainId, currency.ToLower(), owner.ToLower(), operator.ToLower())
	var cached string
	err := im.cache.GetByFunc(c, key, &cached, func() (interface{}, error) {
		a, err := im.erc.Erc20Allowance(c, chainId, currency, owner, operator)
		if err != nil {
			return nil, err
		}
		return a.String(), nil
	})
	if err != nil {
		return nil, err
	}
	res, ok := new(big.Int).SetString(cached, 10)
	if !ok {
		return nil, domain.ErrBadParamInput
	}
	return res, nil
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, chainId domain.ChainId, kind domain.TokenType, contract, owner, operator domain.Address) (bool, error) {
	id := balance.ApprovalId{ChainId: chainId, Contract: contract.ToLower(), Owner: owner.ToLower(), Operator: operator.ToLower()}
	if row, err := im.repo.FindApproval(c, id); err == nil && im.fresh(row.UpdatedAt) {
		return row.Approved, nil
	}

	var approved bool
	var err error
	if kind == domain.TokenType1155 {
		approved, err = im.erc.Erc1155IsApprovedForAll(c, chainId, contract, owner, operator)
	} else {
		approved, err = im.erc.Erc721IsApprovedForAll(c, chainId, contract, owner, operator)
	}
	if err != nil {
		return false, err
	}
	im.met.BumpSum("recheck", 1, "kind", "approval")

	now := time.Now().UTC()
	writeErr := im.repo.UpsertApproval(c, &balance.Approval{
		ChainId:   chainId,
		Contract:  contract,
		Owner:     owner,
		Operator:  operator,
		Approved:  approved,
		UpdatedAt: now,
	})
	if writeErr != nil {
		c.WithFields(log.Fields{"err": writeErr, "owner": owner}).Warn("approval write-back failed")
	}
	return approved, nil
}

func (im *impl) Invalidate(c ctx.Ctx, chainId domain.ChainId, contract, owner domain.Address) error {
	return im.repo.RemoveAllByOwner(c, chainId, contract, owner)
}

func (im *impl) fresh(updatedAt time.Time) bool {
	return time.Since(updatedAt) < maxRowAge
}

func (im *impl) writeBackBalance(c ctx.Ctx, b *balance.NftBalance) {
	b.UpdatedAt = time.Now().UTC()
	if err := im.repo.UpsertBalance(c, b); err != nil {
		c.WithFields(log.Fields{"err": err, "owner": b.Owner}).Warn("balance write-back failed")
	}
}
