package price

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// UsdPrice is one currency's USD rate at day granularity
type UsdPrice struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Currency domain.Address `json:"currency" bson:"currency"`
	// Day is the rate's day truncated to UTC midnight
	Day      time.Time       `json:"day" bson:"day"`
	Value    decimal.Decimal `json:"value" bson:"value"`
	Provider string          `json:"provider" bson:"provider"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Currency domain.Address `json:"currency" bson:"currency"`
	Day      time.Time      `json:"day" bson:"day"`
}

func (p *UsdPrice) ToId() Id {
	return Id{
		ChainId:  p.ChainId,
		Currency: p.Currency,
		Day:      p.Day,
	}
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*UsdPrice, error)
	Upsert(ctx ctx.Ctx, price *UsdPrice) error
}

// Conversion carries a raw currency amount converted into USD and the
// chain native currency
type Conversion struct {
	Currency domain.Address
	// UsdPrice is the converted amount in 6-decimal USD units
	UsdPrice *string
	// NativePrice is the converted amount in 18-decimal native units
	NativePrice *string
}

type UseCase interface {
	// GetUsdPrice returns the USD rate of one whole unit of the currency
	// on the day of the given timestamp
	GetUsdPrice(ctx ctx.Ctx, chainId domain.ChainId, currency domain.Address, timestamp time.Time) (decimal.Decimal, error)
	// Convert converts a raw currency amount observed at the given
	// timestamp into USD and native units
	Convert(ctx ctx.Ctx, chainId domain.ChainId, currency domain.Address, amount string, timestamp time.Time) (*Conversion, error)
}
