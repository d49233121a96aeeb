package common

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

// Revalidate re-runs the off-chain check over a stored order. Degraded
// orders recover when the maker's balance or approval comes back, live
// ones degrade when it goes away. Terminal orders are never revived.
func (im *engine) Revalidate(c ctx.Ctx, o *order.Order) (bool, error) {
	switch o.FillabilityStatus {
	case order.FillabilityFilled, order.FillabilityCancelled, order.FillabilityExpired:
		return false, nil
	}

	parsed := &Parsed{
		Order:         o,
		SelfCustodied: o.Kind == order.KindSudoswapV2,
	}
	if tokenId, ok := singleTokenIdOf(o.TokenSetId); ok {
		parsed.TokenId = &tokenId
	}
	// re-parse the stored raw order to regain the protocol's on-chain
	// state probe, so cancels and fills the syncer missed still surface
	if a, ok := im.adapters[o.Kind]; ok && o.RawData != "" {
		reparsed, err := a.Parse(c, &order.Info{
			Kind:     o.Kind,
			ChainId:  o.ChainId,
			RawOrder: json.RawMessage(o.RawData),
		})
		if err == nil {
			parsed.CheckState = reparsed.CheckState
		}
	}

	fillability := order.FillabilityFillable
	approval := order.ApprovalApproved
	if err := im.offChainCheck(c, parsed); err != nil {
		switch err {
		case order.ErrNoBalance:
			fillability = order.FillabilityNoBalance
		case order.ErrNoApproval:
			approval = order.ApprovalNoApproval
		case order.ErrNoBalanceNoApproval:
			fillability = order.FillabilityNoBalance
			approval = order.ApprovalNoApproval
		case order.ErrOrderFilled:
			fillability = order.FillabilityFilled
		case order.ErrOrderCancelled, order.ErrOrderInvalid:
			fillability = order.FillabilityCancelled
		default:
			return false, err
		}
	}

	if fillability == o.FillabilityStatus && approval == o.ApprovalStatus {
		return false, nil
	}

	now := time.Now().UTC()
	err := im.order.Update(c, o.ToId(), order.Patchable{
		FillabilityStatus: &fillability,
		ApprovalStatus:    &approval,
		UpdatedAt:         &now,
	})
	if err != nil {
		return false, err
	}
	im.met.BumpSum("revalidate.transition", 1,
		"from", string(o.FillabilityStatus), "to", string(fillability))

	o.FillabilityStatus = fillability
	o.ApprovalStatus = approval
	o.UpdatedAt = now
	return true, nil
}

func singleTokenIdOf(id domain.TokenSetId) (domain.TokenId, bool) {
	parts := strings.Split(string(id), ":")
	if len(parts) == 3 && parts[0] == "token" {
		return domain.TokenId(parts[2]), true
	}
	return "", false
}
