package usecase

import (
	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/log"
	"github.com/floorbook/goapi/base/metrics"
	"github.com/floorbook/goapi/domain/activity"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/token"
)

type PostProcessorCfg struct {
	ActivityRepo activity.Repo
	TokenRepo    token.Repo
}

type postProcessor struct {
	activity activity.Repo
	token    token.Repo
	met      metrics.Service
}

func NewPostProcessor(cfg *PostProcessorCfg) exchange.FillPostProcessor {
	return &postProcessor{
		activity: cfg.ActivityRepo,
		token:    cfg.TokenRepo,
		met:      metrics.New("fillpostprocess"),
	}
}

// ProcessFillInfo writes the sale feed entry and refreshes the token's
// last-sale cache. Idempotent, the activity hash and the sale timestamp
// guard both against replays.
func (im *postProcessor) ProcessFillInfo(c ctx.Ctx, info *exchange.FillInfo) error {
	defer im.met.BumpTime("process.time").End()

	// a sell order fills maker to taker, a buy order the other way around
	seller, buyer := info.Maker, info.Taker
	if info.OrderSide == order.SideBuy {
		seller, buyer = info.Taker, info.Maker
	}

	err := im.activity.Upsert(c, &activity.Activity{
		ChainId:     info.ChainId,
		Type:        activity.TypeSale,
		Hash:        keys.MD5(info.Context),
		Contract:    info.Contract,
		TokenId:     info.TokenId,
		OrderId:     info.OrderId,
		FromAddress: seller,
		ToAddress:   buyer,
		Price:       info.Price,
		Amount:      info.Amount,
		Timestamp:   info.Timestamp,
	})
	if err != nil {
		return err
	}

	if info.Contract.IsEmpty() || info.TokenId == "" {
		return nil
	}
	id := token.Id{ChainId: info.ChainId, Contract: info.Contract, TokenId: info.TokenId}
	err = im.token.SetLastSale(c, id, &token.Sale{
		OrderId:   info.OrderId,
		Price:     info.Price,
		Maker:     seller,
		Taker:     buyer,
		Timestamp: info.Timestamp,
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": info.Contract, "tokenId": info.TokenId}).Warn("last sale cache update failed")
	}
	return nil
}
