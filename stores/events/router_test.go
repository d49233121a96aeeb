package events

import (
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
)

func TestBatchIdIsDeterministic(t *testing.T) {
	req := require.New(t)
	tx := domain.TxHash("0xb32c0eefd9f89677fd7e7dfe4bd8683d5a41fae3a47a5d530d75dc410c60bc81")
	block := domain.BlockHash("0x17300504a0d26f1fb06214a72b5d18a552b201e0ba6abb6f204e16c171dca860")

	req.Equal(BatchId(tx, 3, 0, block), BatchId(tx, 3, 0, block))
	req.Equal(
		BatchId(tx, 3, 0, block),
		BatchId(domain.TxHash("0xB32C0EEFD9F89677FD7E7DFE4BD8683D5A41FAE3A47A5D530D75DC410C60BC81"), 3, 0, block),
	)
	req.NotEqual(BatchId(tx, 3, 0, block), BatchId(tx, 4, 0, block))
	req.NotEqual(BatchId(tx, 3, 0, block), BatchId(tx, 3, 1, block))
	req.NotEqual(
		BatchId(tx, 3, 0, block),
		BatchId(tx, 3, 0, domain.BlockHash("0x0000000000000000000000000000000000000000000000000000000000000001")),
	)
}

func TestExtractEventsBatches(t *testing.T) {
	req := require.New(t)
	chainId := domain.ChainId(1)
	blockHash := ethcommon.HexToHash("0x17300504a0d26f1fb06214a72b5d18a552b201e0ba6abb6f204e16c171dca860")
	tx1 := ethcommon.HexToHash("0xb32c0eefd9f89677fd7e7dfe4bd8683d5a41fae3a47a5d530d75dc410c60bc81")
	tx2 := ethcommon.HexToHash("0x99fff8ae71a8a786441992ec6e5e55f2207fc48775353af696ebea7585eb0dd6")
	from := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	to := ethcommon.HexToHash("0x000000000000000000000000df8650b0ca1260f7a2f4fdff9082aede554f65ad")
	blockTime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	logs := []types.Log{
		// tx1: seaport fill plus an erc20 payment transfer and an erc721 movement
		{
			Topics:      []ethcommon.Hash{topic(sigSeaportOrderFulfilled), from},
			BlockNumber: 100,
			BlockHash:   blockHash,
			TxHash:      tx1,
			TxIndex:     0,
			Index:       5,
		},
		{
			Topics:      []ethcommon.Hash{topic(sigTransfer), from, to},
			BlockNumber: 100,
			BlockHash:   blockHash,
			TxHash:      tx1,
			TxIndex:     0,
			Index:       6,
		},
		{
			Topics:      []ethcommon.Hash{topic(sigTransfer), from, to, ethcommon.HexToHash("0x01")},
			BlockNumber: 100,
			BlockHash:   blockHash,
			TxHash:      tx1,
			TxIndex:     0,
			Index:       7,
		},
		// unknown topic is dropped
		{
			Topics:      []ethcommon.Hash{topic("Bogus(address)")},
			BlockNumber: 100,
			BlockHash:   blockHash,
			TxHash:      tx1,
			TxIndex:     0,
			Index:       8,
		},
		// tx2: lone erc1155 transfer
		{
			Topics:      []ethcommon.Hash{topic(sigTransferSingle), from, from, to},
			BlockNumber: 100,
			BlockHash:   blockHash,
			TxHash:      tx2,
			TxIndex:     1,
			Index:       9,
		},
	}
	blockTimes := map[domain.BlockNumber]time.Time{100: blockTime}

	batches := ExtractEventsBatches(chainId, logs, blockTimes, true)
	req.Len(batches, 2)

	// batches preserve transaction order and carry every kind
	first, second := batches[0], batches[1]
	req.True(first.Backfill)
	req.Len(first.Events, len(exchange.EventKinds))
	for i, byKind := range first.Events {
		req.Equal(exchange.EventKinds[i], byKind.Kind)
		req.NotNil(byKind.Events)
	}

	countOf := func(b *exchange.EventsBatch, kind exchange.EventKind) int {
		for _, byKind := range b.Events {
			if byKind.Kind == kind {
				return len(byKind.Events)
			}
		}
		return -1
	}

	// seaport gets its own fill plus the co-delivered erc20 transfer
	req.Equal(2, countOf(first, exchange.EventKindSeaport))
	req.Equal(1, countOf(first, exchange.EventKindErc721))
	req.Equal(1, countOf(first, exchange.EventKindErc20))
	req.Equal(0, countOf(first, exchange.EventKindErc1155))

	// erc20 transfers co-deliver to the payment-consuming handlers only
	for _, byKind := range first.Events {
		if byKind.Kind != exchange.EventKindX2Y2 {
			continue
		}
		req.Len(byKind.Events, 1)
		req.Equal(exchange.SubKindErc20Transfer, byKind.Events[0].SubKind)
	}
	req.Equal(0, countOf(first, exchange.EventKindManifold))

	req.Equal(1, countOf(second, exchange.EventKindErc1155))
	req.Equal(0, countOf(second, exchange.EventKindSeaport))

	// meta is positional and lowered
	var seaportEv *exchange.EnhancedEvent
	for _, byKind := range first.Events {
		if byKind.Kind == exchange.EventKindSeaport {
			seaportEv = byKind.Events[0]
		}
	}
	req.Equal(domain.TxHash(tx1.Hex()).ToLower(), seaportEv.Meta.TxHash)
	req.Equal(domain.BlockNumber(100), seaportEv.Meta.BlockNumber)
	req.Equal(uint(5), seaportEv.Meta.LogIndex)
	req.Equal(blockTime, seaportEv.Meta.BlockTime)

	// re-extraction yields the same batch ids
	again := ExtractEventsBatches(chainId, logs, blockTimes, true)
	req.Equal(first.Id, again[0].Id)
	req.Equal(second.Id, again[1].Id)
	req.NotEqual(first.Id, second.Id)
}
