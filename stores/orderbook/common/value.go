package common

import (
	"math/big"

	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

// MissingRoyalties computes the gap between an order's built-in royalty
// legs and the collection's default royalties, split pro-rata across the
// default recipients. Shares round down so the split never exceeds the
// gap.
func MissingRoyalties(price *big.Int, feeBreakdown []domain.FeeBreakdown, defaults []domain.Royalty) []order.MissingRoyalty {
	builtinBps := 0
	for _, fee := range feeBreakdown {
		if fee.Kind == domain.FeeKindRoyalty {
			builtinBps += fee.Bps
		}
	}

	defaultBps := domain.TotalBps(defaults)
	bpsDiff := defaultBps - builtinBps
	if bpsDiff <= 0 || defaultBps == 0 {
		return nil
	}

	totalAmount := new(big.Int).Div(
		new(big.Int).Mul(price, big.NewInt(int64(bpsDiff))),
		domain.Big10000,
	)

	res := make([]order.MissingRoyalty, 0, len(defaults))
	for _, r := range defaults {
		if r.Bps <= 0 {
			continue
		}
		share := bpsDiff * r.Bps / defaultBps
		amount := new(big.Int).Div(
			new(big.Int).Mul(totalAmount, big.NewInt(int64(r.Bps))),
			big.NewInt(int64(defaultBps)),
		)
		res = append(res, order.MissingRoyalty{
			Recipient: r.Recipient.ToLower(),
			Bps:       share,
			Amount:    amount.String(),
		})
	}
	return res
}

// ComputeValue derives the maker-facing value of an order. Buy orders
// pay their built-in fees out of the offered price, sell orders receive
// the listed price in full.
func ComputeValue(side order.Side, price *big.Int, feeBps int) *big.Int {
	if side == order.SideBuy {
		fees := new(big.Int).Div(
			new(big.Int).Mul(price, big.NewInt(int64(feeBps))),
			domain.Big10000,
		)
		return new(big.Int).Sub(price, fees)
	}
	return new(big.Int).Set(price)
}

// NormalizeValue adjusts a value by the missing royalty total, as if the
// order paid the collection's full default royalties
func NormalizeValue(side order.Side, value *big.Int, missing []order.MissingRoyalty) *big.Int {
	total := new(big.Int)
	for _, m := range missing {
		amount, ok := new(big.Int).SetString(m.Amount, 10)
		if !ok {
			continue
		}
		total.Add(total, amount)
	}
	if side == order.SideSell {
		return new(big.Int).Add(value, total)
	}
	return new(big.Int).Sub(value, total)
}
