package events

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/service/chain"
)

const (
	// syncerTag names the cursor row of the marketplace log tracker
	syncerTag = "marketplace-events"
	// recentHashDepth bounds how far back a reorg can be unwound
	recentHashDepth = 256
)

type SyncerCfg struct {
	ChainId      domain.ChainId
	ChainClient  chain.Client
	Processor    Processor
	TrackerState domain.TrackerStateRepo
	PollInterval time.Duration
	// BackfillCutoff marks blocks this far behind head as backfill, their
	// batches persist fills but skip user-facing propagation
	BackfillCutoff uint64
}

// Syncer tails one chain's logs, feeding extracted batches into the
// processor and unwinding reorged blocks
type Syncer struct {
	chainId      domain.ChainId
	client       chain.Client
	processor    Processor
	trackerState domain.TrackerStateRepo
	pollInterval time.Duration
	cutoff       uint64

	// hashes of recently processed blocks, keyed by number
	recent map[uint64]domain.BlockHash
	met    metrics.Service
}

func NewSyncer(cfg *SyncerCfg) *Syncer {
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 12 * time.Second
	}
	return &Syncer{
		chainId:      cfg.ChainId,
		client:       cfg.ChainClient,
		processor:    cfg.Processor,
		trackerState: cfg.TrackerState,
		pollInterval: pollInterval,
		cutoff:       cfg.BackfillCutoff,
		recent:       map[uint64]domain.BlockHash{},
		met:          metrics.New("syncer"),
	}
}

// Run tails the chain until the context is cancelled
func (s *Syncer) Run(c ctx.Ctx) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := s.syncToHead(c); err != nil {
			c.WithFields(log.Fields{"err": err, "chainId": s.chainId}).Error("sync pass failed")
			s.met.BumpSum("sync.err", 1)
		}
		select {
		case <-c.Done():
			return c.Err()
		case <-ticker.C:
		}
	}
}

func (s *Syncer) syncToHead(c ctx.Ctx) error {
	head, err := s.client.HeaderByNumber(c, int32(s.chainId), nil)
	if err != nil {
		return err
	}
	headNumber := head.Number.Uint64()

	state, err := s.cursor(c, headNumber)
	if err != nil {
		return err
	}

	for next := state.LastBlockProcessed + 1; next <= headNumber; next++ {
		rolled, err := s.processBlock(c, next, headNumber)
		if err != nil {
			return err
		}
		if rolled {
			// the unwound block re-syncs on the next pass, clamped so a
			// reorg at the chain head's first blocks cannot underflow
			state.LastBlockProcessed = 0
			if next > 2 {
				state.LastBlockProcessed = next - 2
			}
			return s.trackerState.Update(c, state)
		}
		state.LastBlockProcessed = next
		if err := s.trackerState.Update(c, state); err != nil {
			return err
		}
	}
	return nil
}

// cursor loads the persisted sync position, starting fresh trackers at
// the current head
func (s *Syncer) cursor(c ctx.Ctx, headNumber uint64) (*domain.TrackerState, error) {
	id := &domain.TrackerStateId{ChainId: s.chainId, Tag: syncerTag}
	state, err := s.trackerState.Get(c, id)
	if err == domain.ErrNotFound {
		state = &domain.TrackerState{
			ChainId:            s.chainId,
			Tag:                syncerTag,
			LastBlockProcessed: headNumber - 1,
		}
		if err := s.trackerState.Store(c, state); err != nil {
			return nil, err
		}
		return state, nil
	} else if err != nil {
		return nil, err
	}
	return state, nil
}

// processBlock syncs one block, returning true when it detected a reorg
// and unwound the previous block instead
func (s *Syncer) processBlock(c ctx.Ctx, number, headNumber uint64) (bool, error) {
	header, err := s.client.HeaderByNumber(c, int32(s.chainId), new(big.Int).SetUint64(number))
	if err != nil {
		return false, err
	}

	parentHash := domain.BlockHash(header.ParentHash.Hex()).ToLower()
	if known, ok := s.recent[number-1]; ok && known != parentHash {
		c.WithFields(log.Fields{
			"chainId": s.chainId,
			"number":  number - 1,
			"stored":  known,
			"parent":  parentHash,
		}).Warn("reorg detected")
		if err := s.processor.RollbackBlock(c, s.chainId, domain.BlockNumber(number-1), known); err != nil {
			return false, err
		}
		delete(s.recent, number-1)
		return true, nil
	}

	logs, err := s.client.FilterLogs(c, int32(s.chainId), ethereum.FilterQuery{
		FromBlock: header.Number,
		ToBlock:   header.Number,
		Topics:    [][]ethcommon.Hash{watchedTopics()},
	})
	if err != nil {
		return false, err
	}

	blockTimes := map[domain.BlockNumber]time.Time{
		domain.BlockNumber(number): time.Unix(int64(header.Time), 0).UTC(),
	}
	backfill := headNumber-number > s.cutoff
	for _, batch := range ExtractEventsBatches(s.chainId, logs, blockTimes, backfill) {
		if err := s.processor.ProcessEventsBatch(c, batch); err != nil {
			return false, err
		}
	}

	s.recent[number] = domain.BlockHash(header.Hash().Hex()).ToLower()
	delete(s.recent, number-recentHashDepth)
	s.met.BumpSum("blocks", 1, "chainId", uintStr(uint(s.chainId)))
	return false, nil
}
