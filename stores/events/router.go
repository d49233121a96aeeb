package events

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
)

// batchNamespace seeds the deterministic batch ids
var batchNamespace = uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")

// BatchId derives the deterministic id of a transaction's events batch
// from the position of its first event. Re-extracting the same logs
// always yields the same id, so duplicate deliveries collapse.
func BatchId(txHash domain.TxHash, logIndex, batchIndex uint, blockHash domain.BlockHash) string {
	name := fmt.Sprintf("%s:%d:%d:%s", txHash.ToLower(), logIndex, batchIndex, blockHash.ToLower())
	return uuid.NewSHA1(batchNamespace, []byte(name)).String()
}

// ExtractEventsBatches partitions raw logs into per-transaction batches.
// Every batch carries the full fixed kind list, with empty event slices
// for the kinds absent from the transaction, and handlers needing erc20
// transfers for payment attribution get them co-delivered.
func ExtractEventsBatches(chainId domain.ChainId, logs []types.Log, blockTimes map[domain.BlockNumber]time.Time, backfill bool) []*exchange.EventsBatch {
	txOrder := []domain.TxHash{}
	perTx := map[domain.TxHash][]*exchange.EnhancedEvent{}

	for i := range logs {
		l := logs[i]
		info, ok := classify(&l)
		if !ok {
			continue
		}

		txHash := domain.TxHash(l.TxHash.Hex()).ToLower()
		if _, seen := perTx[txHash]; !seen {
			txOrder = append(txOrder, txHash)
		}

		meta := domain.LogMeta{
			BlockNumber:     domain.BlockNumber(l.BlockNumber),
			BlockHash:       domain.BlockHash(l.BlockHash.Hex()).ToLower(),
			TxHash:          txHash,
			TxIndex:         l.TxIndex,
			LogIndex:        l.Index,
			ContractAddress: domain.Address(l.Address.Hex()).ToLower(),
		}
		if t, ok := blockTimes[meta.BlockNumber]; ok {
			meta.BlockTime = t
		}

		perTx[txHash] = append(perTx[txHash], &exchange.EnhancedEvent{
			Kind:    info.Kind,
			SubKind: info.SubKind,
			ChainId: chainId,
			Log:     l,
			Meta:    meta,
		})
	}

	batches := make([]*exchange.EventsBatch, 0, len(txOrder))
	for _, txHash := range txOrder {
		events := perTx[txHash]

		byKind := map[exchange.EventKind][]*exchange.EnhancedEvent{}
		erc20Transfers := []*exchange.EnhancedEvent{}
		for _, ev := range events {
			byKind[ev.Kind] = append(byKind[ev.Kind], ev)
			if ev.SubKind == exchange.SubKindErc20Transfer {
				erc20Transfers = append(erc20Transfers, ev)
			}
		}

		kinds := make([]exchange.EventsByKind, 0, len(exchange.EventKinds))
		for _, kind := range exchange.EventKinds {
			kindEvents := byKind[kind]
			if kind.NeedsErc20Transfers() {
				kindEvents = append(kindEvents, erc20Transfers...)
			}
			if kindEvents == nil {
				kindEvents = []*exchange.EnhancedEvent{}
			}
			kinds = append(kinds, exchange.EventsByKind{Kind: kind, Events: kindEvents})
		}

		first := events[0]
		batches = append(batches, &exchange.EventsBatch{
			Id:       BatchId(txHash, first.Meta.LogIndex, first.Meta.BatchIndex, first.Meta.BlockHash),
			ChainId:  chainId,
			Events:   kinds,
			Backfill: backfill,
		})
	}
	return batches
}
