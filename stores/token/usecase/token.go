package usecase

import (
	"fmt"
	"math/big"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/token"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/service/cache"
	"github.com/floorbook/goapi/service/chain"
)

type UseCaseCfg struct {
	TokenRepo token.Repo
	OrderRepo order.Repo
	TokenSet  tokenset.UseCase
	Erc       chain.Erc
	Cache     cache.Service
}

type impl struct {
	token    token.Repo
	order    order.Repo
	tokenSet tokenset.UseCase
	erc      chain.Erc
	cache    cache.Service
}

func New(cfg *UseCaseCfg) token.UseCase {
	return &impl{
		token:    cfg.TokenRepo,
		order:    cfg.OrderRepo,
		tokenSet: cfg.TokenSet,
		erc:      cfg.Erc,
		cache:    cfg.Cache,
	}
}

func (im *impl) ContractKind(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address) (domain.TokenType, error) {
	key := fmt.Sprintf("kind:%d:%s", chainId, contract.ToLower())

	var kind domain.TokenType
	err := im.cache.GetByFunc(ctx, key, &kind, func() (interface{}, error) {
		return im.erc.ContractKind(ctx, chainId, contract)
	})
	if err != nil {
		return 0, err
	}
	return kind, nil
}

// RecomputeFloorAsk rescans the token's live listings. The single-token
// fast path compares set ids, wider sets are resolved and membership
// checked.
func (im *impl) RecomputeFloorAsk(c ctx.Ctx, id token.Id) error {
	orders, err := im.liveOrders(c, id, order.SideSell)
	if err != nil {
		return err
	}

	var floor, normalizedFloor *order.Order
	for _, o := range orders {
		if floor == nil || lessValue(o.Value, floor.Value) {
			floor = o
		}
		if normalizedFloor == nil || lessValue(o.NormalizedValue, normalizedFloor.NormalizedValue) {
			normalizedFloor = o
		}
	}
	return im.token.SetFloorAsk(c, id, cachedOrderOf(floor, false), cachedOrderOf(normalizedFloor, true))
}

func (im *impl) RecomputeTopBid(c ctx.Ctx, id token.Id) error {
	orders, err := im.liveOrders(c, id, order.SideBuy)
	if err != nil {
		return err
	}

	var top *order.Order
	for _, o := range orders {
		if top == nil || lessValue(top.Value, o.Value) {
			top = o
		}
	}
	return im.token.SetTopBid(c, id, cachedOrderOf(top, false))
}

// setFanoutCap bounds how many tokens a range recompute enumerates.
// Wider ranges fall back to the tokens already indexed.
const setFanoutCap = 512

func (im *impl) RecomputeSetTopBids(c ctx.Ctx, chainId domain.ChainId, setId domain.TokenSetId) error {
	return im.recomputeSet(c, chainId, setId, im.RecomputeTopBid)
}

func (im *impl) RecomputeSetFloorAsks(c ctx.Ctx, chainId domain.ChainId, setId domain.TokenSetId) error {
	return im.recomputeSet(c, chainId, setId, im.RecomputeFloorAsk)
}

func (im *impl) recomputeSet(c ctx.Ctx, chainId domain.ChainId, setId domain.TokenSetId, recompute func(ctx.Ctx, token.Id) error) error {
	ts, err := im.tokenSet.Get(c, tokenset.Id{ChainId: chainId, Id: setId})
	if err != nil {
		return err
	}
	ids, err := im.memberTokens(c, ts)
	if err != nil {
		return err
	}
	for _, tokenId := range ids {
		id := token.Id{ChainId: chainId, Contract: ts.Contract, TokenId: tokenId}
		if err := recompute(c, id); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Warn("set recompute failed")
		}
	}
	return nil
}

// memberTokens enumerates the tokens a set covers. Contract-wide sets
// and oversized ranges touch only the tokens already indexed for the
// contract, list sets without enumerated ids cannot fan out at all.
func (im *impl) memberTokens(c ctx.Ctx, ts *tokenset.TokenSet) ([]domain.TokenId, error) {
	switch ts.Kind {
	case tokenset.KindSingleToken:
		if ts.TokenId == nil {
			return nil, domain.ErrBadParamInput
		}
		return []domain.TokenId{*ts.TokenId}, nil
	case tokenset.KindTokenList:
		return ts.TokenIds, nil
	case tokenset.KindTokenRange:
		size, err := ts.RangeSize()
		if err != nil {
			return nil, err
		}
		if size.Cmp(big.NewInt(setFanoutCap)) <= 0 {
			start, err := ts.StartId.ToBigInt()
			if err != nil {
				return nil, err
			}
			ids := make([]domain.TokenId, 0, size.Int64())
			for i := int64(0); i < size.Int64(); i++ {
				ids = append(ids, domain.TokenId(new(big.Int).Add(start, big.NewInt(i)).String()))
			}
			return ids, nil
		}
	}

	tokens, err := im.token.FindAllByContract(c, ts.ChainId, ts.Contract)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.TokenId, 0, len(tokens))
	for _, t := range tokens {
		if ts.Contains(ts.Contract, t.TokenId) {
			ids = append(ids, t.TokenId)
		}
	}
	return ids, nil
}

func (im *impl) liveOrders(c ctx.Ctx, id token.Id, side order.Side) ([]*order.Order, error) {
	orders, err := im.order.FindAll(c,
		order.WithChainId(id.ChainId),
		order.WithContract(id.Contract),
		order.WithSide(side),
		order.WithFillabilityStatus(order.FillabilityFillable),
		order.WithApprovalStatus(order.ApprovalApproved),
	)
	if err != nil {
		return nil, err
	}

	singleId := tokenset.SingleTokenId(id.Contract, id.TokenId)
	covering := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.TokenSetId == singleId {
			covering = append(covering, o)
			continue
		}
		ts, err := im.tokenSet.Get(c, tokenset.Id{ChainId: id.ChainId, Id: o.TokenSetId})
		if err != nil {
			continue
		}
		if ts.Contains(id.Contract, id.TokenId) {
			covering = append(covering, o)
		}
	}
	return covering, nil
}

func lessValue(a, b string) bool {
	av, aok := new(big.Int).SetString(a, 10)
	bv, bok := new(big.Int).SetString(b, 10)
	if !aok || !bok {
		return aok
	}
	return av.Cmp(bv) < 0
}

func cachedOrderOf(o *order.Order, normalized bool) *token.CachedOrder {
	if o == nil {
		return nil
	}
	value := o.Value
	if normalized {
		value = o.NormalizedValue
	}
	return &token.CachedOrder{
		OrderId:    o.Id,
		Maker:      o.Maker,
		Price:      o.Price,
		Value:      value,
		Currency:   o.Currency,
		SourceId:   o.SourceId,
		ValidUntil: o.ValidUntil,
	}
}
