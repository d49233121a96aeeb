package events

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/fill"
	"github.com/floorbook/goapi/domain/orderupdate"
)

// RollbackBlock unwinds a reorged block. Events and feed entries keyed by
// the stale block hash are dropped, then every order touched by the
// block's fills is revalidated so its state converges on the canonical
// chain.
func (p *processorImpl) RollbackBlock(c ctx.Ctx, chainId domain.ChainId, blockNumber domain.BlockNumber, blockHash domain.BlockHash) error {
	c.WithFields(log.Fields{
		"chainId":     chainId,
		"blockNumber": blockNumber,
		"blockHash":   blockHash,
	}).Info("rolling back reorged block")
	p.met.BumpSum("reorg", 1)

	fills, err := p.fillRepo.FindAllEvents(c,
		fill.WithChainId(chainId),
		fill.WithBlock(blockNumber, blockHash),
	)
	if err != nil {
		return err
	}

	if err := p.fillRepo.RemoveAllByBlock(c, chainId, blockNumber, blockHash); err != nil {
		return err
	}
	if err := p.activityRepo.RemoveAllByBlock(c, chainId, blockNumber, blockHash); err != nil {
		return err
	}

	payloads := []*orderupdate.Payload{}
	seen := map[domain.OrderHash]bool{}
	for _, fe := range fills {
		if fe.OrderId == "" || seen[fe.OrderId] {
			continue
		}
		seen[fe.OrderId] = true
		payloads = append(payloads, &orderupdate.Payload{
			Context: orderupdate.RevalidationContext(orderupdate.TriggerReorg, fe.OrderId, fe.TxHash),
			ChainId: chainId,
			Trigger: orderupdate.Trigger{
				Kind:      orderupdate.TriggerReorg,
				TxHash:    fe.TxHash,
				BlockHash: blockHash,
			},
			Id: fe.OrderId,
		})
	}
	if len(payloads) == 0 {
		return nil
	}
	return p.orderUpdate.PublishById(c, payloads)
}
