package usecase

import (
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/orderupdate"
)

type SweeperCfg struct {
	OrderRepo   order.Repo
	OrderUpdate orderupdate.Publisher
}

type sweeper struct {
	order       order.Repo
	orderUpdate orderupdate.Publisher
	met         metrics.Service
}

func NewExpirySweeper(cfg *SweeperCfg) order.ExpirySweeper {
	return &sweeper{
		order:       cfg.OrderRepo,
		orderUpdate: cfg.OrderUpdate,
		met:         metrics.New("expiry"),
	}
}

// SweepExpired retires fillable orders whose validUntil has passed. The
// boundary is inclusive, an order expiring right now is already gone.
func (im *sweeper) SweepExpired(c ctx.Ctx, limit int32) (int, error) {
	now := time.Now().UTC()
	overdue, err := im.order.FindAll(c,
		order.WithValidUntilLTE(now),
		order.WithFillabilityStatus(order.FillabilityFillable),
		order.WithPagination(0, limit),
		order.WithSort("validUntil"),
	)
	if err != nil {
		return 0, err
	}

	payloads := []*orderupdate.Payload{}
	expired := order.FillabilityExpired
	for _, o := range overdue {
		updatedAt := now
		err := im.order.Update(c, o.ToId(), order.Patchable{
			FillabilityStatus: &expired,
			UpdatedAt:         &updatedAt,
		})
		if err != nil {
			c.WithFields(log.Fields{"err": err, "orderId": o.Id}).Error("expiry patch failed")
			continue
		}
		payloads = append(payloads, &orderupdate.Payload{
			Context: orderupdate.ExpiredContext(o.Id, now),
			ChainId: o.ChainId,
			Trigger: orderupdate.Trigger{
				Kind:        orderupdate.TriggerExpiry,
				TxTimestamp: now.Unix(),
			},
			Id: o.Id,
		})
	}

	if len(payloads) > 0 {
		if err := im.orderUpdate.PublishById(c, payloads); err != nil {
			return len(payloads), err
		}
	}
	im.met.BumpSum("sweep.expired", float64(len(payloads)))
	return len(payloads), nil
}
