package common

import (
	"math/big"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

// offChainCheck verifies the maker can still fill the order right now.
// Degraded outcomes (missing balance or approval) are returned as their
// sentinel errors so the caller can keep the order around, terminal
// outcomes mean the order must not be stored as fillable.
func (im *engine) offChainCheck(ctx ctx.Ctx, parsed *Parsed) error {
	if parsed.CheckState != nil {
		if err := parsed.CheckState(ctx); err != nil {
			return err
		}
	}

	if parsed.SelfCustodied {
		return nil
	}

	o := parsed.Order
	if o.Side == order.SideSell {
		return im.checkSell(ctx, parsed)
	}
	return im.checkBuy(ctx, o)
}

func (im *engine) checkSell(ctx ctx.Ctx, parsed *Parsed) error {
	o := parsed.Order

	kind, err := im.token.ContractKind(ctx, o.ChainId, o.Contract)
	if err == domain.ErrNotFound {
		return order.ErrOrderInvalid
	} else if err != nil {
		return err
	}

	operator := o.Conduit
	if operator.IsEmpty() {
		operator = o.Contract
	}

	hasBalance := true
	hasApproval := true

	switch kind {
	case domain.TokenType721:
		if parsed.TokenId != nil {
			has, err := im.balance.Erc721HasToken(ctx, o.ChainId, o.Contract, *parsed.TokenId, o.Maker)
			if err != nil {
				ctx.WithFields(log.Fields{"err": err, "id": o.Id}).Warn("owner check failed")
				hasBalance = false
			} else {
				hasBalance = has
			}
		}
	case domain.TokenType1155:
		if parsed.TokenId != nil {
			held, err := im.balance.Erc1155Balance(ctx, o.ChainId, o.Contract, *parsed.TokenId, o.Maker)
			if err != nil {
				return err
			}
			quantity, ok := new(big.Int).SetString(o.QuantityRemaining, 10)
			if !ok {
				return order.ErrOrderInvalid
			}
			hasBalance = held.Cmp(quantity) >= 0
		}
	default:
		return order.ErrOrderInvalid
	}

	approved, err := im.balance.IsApprovedForAll(ctx, o.ChainId, kind, o.Contract, o.Maker, operator)
	if err != nil {
		return err
	}
	hasApproval = approved

	return fillabilityError(hasBalance, hasApproval)
}

func (im *engine) checkBuy(ctx ctx.Ctx, o *order.Order) error {
	price, ok := new(big.Int).SetString(o.CurrencyPrice, 10)
	if !ok {
		return order.ErrOrderInvalid
	}

	operator := o.Conduit
	if operator.IsEmpty() {
		operator = o.Contract
	}

	held, err := im.balance.Erc20Balance(ctx, o.ChainId, o.Currency, o.Maker)
	if err != nil {
		return err
	}
	allowance, err := im.balance.Erc20Allowance(ctx, o.ChainId, o.Currency, o.Maker, operator)
	if err != nil {
		return err
	}

	return fillabilityError(held.Cmp(price) >= 0, allowance.Cmp(price) >= 0)
}

func fillabilityError(hasBalance, hasApproval bool) error {
	switch {
	case !hasBalance && !hasApproval:
		return order.ErrNoBalanceNoApproval
	case !hasBalance:
		return order.ErrNoBalance
	case !hasApproval:
		return order.ErrNoApproval
	}
	return nil
}
