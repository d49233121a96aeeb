package events

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain/exchange"
)

func TestClassifyTransferByArity(t *testing.T) {
	req := require.New(t)
	from := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	to := ethcommon.HexToHash("0x000000000000000000000000df8650b0ca1260f7a2f4fdff9082aede554f65ad")

	nft := &types.Log{Topics: []ethcommon.Hash{
		topic(sigTransfer),
		from,
		to,
		ethcommon.HexToHash("0x01"),
	}}
	info, ok := classify(nft)
	req.True(ok)
	req.Equal(exchange.EventKindErc721, info.Kind)
	req.Equal("erc721-transfer", info.SubKind)

	erc20 := &types.Log{Topics: []ethcommon.Hash{
		topic(sigTransfer),
		from,
		to,
	}}
	info, ok = classify(erc20)
	req.True(ok)
	req.Equal(exchange.EventKindErc20, info.Kind)
	req.Equal(exchange.SubKindErc20Transfer, info.SubKind)
}

func TestClassifyRegisteredTopics(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		sig     string
		kind    exchange.EventKind
		subKind string
	}{
		{sigTransferSingle, exchange.EventKindErc1155, "erc1155-transfer-single"},
		{sigApprovalForAll, exchange.EventKindErc721, "approval-for-all"},
		{sigSeaportOrderFulfilled, exchange.EventKindSeaport, "seaport-order-filled"},
		{sigX2Y2Cancel, exchange.EventKindX2Y2, "x2y2-order-cancelled"},
		{sigLooksRareTakerBid, exchange.EventKindLooksRareV2, "looks-rare-v2-taker-bid"},
		{sigZeroExErc1155OrderFilled, exchange.EventKindZeroExV4, "zeroex-v4-erc1155-order-filled"},
		{sigWyvernOrdersMatched, exchange.EventKindWyvern, "wyvern-orders-matched"},
	}
	for _, c := range cases {
		info, ok := classify(&types.Log{Topics: []ethcommon.Hash{topic(c.sig)}})
		req.True(ok, c.sig)
		req.Equal(c.kind, info.Kind, c.sig)
		req.Equal(c.subKind, info.SubKind, c.sig)
	}
}

func TestClassifyUnknown(t *testing.T) {
	req := require.New(t)

	_, ok := classify(&types.Log{})
	req.False(ok)

	_, ok = classify(&types.Log{Topics: []ethcommon.Hash{topic("Bogus(address)")}})
	req.False(ok)
}

func TestWatchedTopicsCoverRegistry(t *testing.T) {
	req := require.New(t)

	topics := watchedTopics()
	seen := map[ethcommon.Hash]bool{}
	for _, t := range topics {
		seen[t] = true
	}

	req.True(seen[topic(sigTransfer)])
	for registered := range registry {
		req.True(seen[registered])
	}
}
