package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

func TestMissingRoyalties(t *testing.T) {
	req := require.New(t)
	recipientA := domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
	recipientB := domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	price := big.NewInt(1000000)

	t.Run("order already pays full royalties", func(t *testing.T) {
		missing := MissingRoyalties(price, []domain.FeeBreakdown{
			{Kind: domain.FeeKindRoyalty, Bps: 500},
		}, []domain.Royalty{
			{Recipient: recipientA, Bps: 500},
		})
		req.Nil(missing)
	})

	t.Run("no defaults", func(t *testing.T) {
		missing := MissingRoyalties(price, nil, nil)
		req.Nil(missing)
	})

	t.Run("single recipient gap", func(t *testing.T) {
		missing := MissingRoyalties(price, []domain.FeeBreakdown{
			{Kind: domain.FeeKindRoyalty, Bps: 200},
		}, []domain.Royalty{
			{Recipient: recipientA, Bps: 500},
		})
		req.Len(missing, 1)
		req.Equal(recipientA, missing[0].Recipient)
		req.Equal(300, missing[0].Bps)
		// 300 bps of 1000000
		req.Equal("30000", missing[0].Amount)
	})

	t.Run("marketplace fees do not count as royalties", func(t *testing.T) {
		missing := MissingRoyalties(price, []domain.FeeBreakdown{
			{Kind: domain.FeeKindMarketplace, Bps: 500},
		}, []domain.Royalty{
			{Recipient: recipientA, Bps: 500},
		})
		req.Len(missing, 1)
		req.Equal(500, missing[0].Bps)
	})

	t.Run("gap splits pro rata and rounds down", func(t *testing.T) {
		missing := MissingRoyalties(price, []domain.FeeBreakdown{
			{Kind: domain.FeeKindRoyalty, Bps: 100},
		}, []domain.Royalty{
			{Recipient: recipientA, Bps: 400},
			{Recipient: recipientB, Bps: 300},
		})
		req.Len(missing, 2)
		// gap is 600 bps, split 400/700 and 300/700
		req.Equal(342, missing[0].Bps)
		req.Equal(257, missing[1].Bps)
		total := new(big.Int)
		for _, m := range missing {
			amount, ok := new(big.Int).SetString(m.Amount, 10)
			req.True(ok)
			total.Add(total, amount)
		}
		// 600 bps of 1000000 is 60000, rounding never exceeds the gap
		req.True(total.Cmp(big.NewInt(60000)) <= 0)
	})

	t.Run("zero bps recipients are skipped", func(t *testing.T) {
		missing := MissingRoyalties(price, nil, []domain.Royalty{
			{Recipient: recipientA, Bps: 500},
			{Recipient: recipientB, Bps: 0},
		})
		req.Len(missing, 1)
		req.Equal(recipientA, missing[0].Recipient)
	})
}

func TestComputeValue(t *testing.T) {
	req := require.New(t)
	price := big.NewInt(1000000)

	// sell orders keep the listed price
	req.Equal("1000000", ComputeValue(order.SideSell, price, 250).String())

	// buy orders pay fees out of the offer
	req.Equal("975000", ComputeValue(order.SideBuy, price, 250).String())
	req.Equal("1000000", ComputeValue(order.SideBuy, price, 0).String())

	// input price is never mutated
	req.Equal("1000000", price.String())
}

func TestNormalizeValue(t *testing.T) {
	req := require.New(t)
	value := big.NewInt(1000000)
	missing := []order.MissingRoyalty{
		{Amount: "30000"},
		{Amount: "20000"},
		{Amount: "garbage"},
	}

	// a seller nets less once royalties are honored, so the normalized
	// sell value grows by the missing total for cross-order comparison
	req.Equal("1050000", NormalizeValue(order.SideSell, value, missing).String())
	req.Equal("950000", NormalizeValue(order.SideBuy, value, missing).String())
	req.Equal("1000000", NormalizeValue(order.SideBuy, value, nil).String())
}
