package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/activity"
	mActivity "github.com/floorbook/goapi/domain/activity/mocks"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/keys"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/token"
	mToken "github.com/floorbook/goapi/domain/token/mocks"
)

func TestProcessFillInfo(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	maker := domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
	taker := domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	ts := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	info := &exchange.FillInfo{
		Context:   "filled-0xaaa-0xtx",
		ChainId:   1,
		OrderId:   "0xaaa",
		OrderSide: order.SideSell,
		Contract:  contract,
		TokenId:   "5",
		Amount:    "1",
		Price:     "1000000000000000000",
		Maker:     maker,
		Taker:     taker,
		Timestamp: ts,
	}

	activityRepo := mActivity.NewRepo(t)
	tokenRepo := mToken.NewRepo(t)

	var entry *activity.Activity
	activityRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*activity.Activity)
	}).Return(nil)

	var sale *token.Sale
	tokenRepo.On("SetLastSale", mock.Anything, token.Id{ChainId: 1, Contract: contract, TokenId: "5"}, mock.Anything).Run(func(args mock.Arguments) {
		sale = args.Get(2).(*token.Sale)
	}).Return(nil)

	pp := NewPostProcessor(&PostProcessorCfg{ActivityRepo: activityRepo, TokenRepo: tokenRepo})
	req.NoError(pp.ProcessFillInfo(c, info))

	req.Equal(activity.TypeSale, entry.Type)
	req.Equal(keys.MD5(info.Context), entry.Hash)
	// a listing fills maker to taker
	req.Equal(maker, entry.FromAddress)
	req.Equal(taker, entry.ToAddress)

	req.Equal(maker, sale.Maker)
	req.Equal(taker, sale.Taker)
	req.Equal(ts, sale.Timestamp)
}

func TestProcessFillInfoBuyOrderSwapsSides(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	maker := domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
	taker := domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")

	activityRepo := mActivity.NewRepo(t)
	tokenRepo := mToken.NewRepo(t)

	var entry *activity.Activity
	activityRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*activity.Activity)
	}).Return(nil)
	tokenRepo.On("SetLastSale", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	pp := NewPostProcessor(&PostProcessorCfg{ActivityRepo: activityRepo, TokenRepo: tokenRepo})
	req.NoError(pp.ProcessFillInfo(c, &exchange.FillInfo{
		Context:   "filled-0xbbb-0xtx",
		ChainId:   1,
		OrderId:   "0xbbb",
		OrderSide: order.SideBuy,
		Contract:  contract,
		TokenId:   "5",
		Maker:     maker,
		Taker:     taker,
	}))

	// an accepted offer moves the token from the taker to the maker
	req.Equal(taker, entry.FromAddress)
	req.Equal(maker, entry.ToAddress)
}

func TestProcessFillInfoWithoutTokenSkipsLastSale(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	activityRepo := mActivity.NewRepo(t)
	tokenRepo := mToken.NewRepo(t)
	activityRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	pp := NewPostProcessor(&PostProcessorCfg{ActivityRepo: activityRepo, TokenRepo: tokenRepo})
	req.NoError(pp.ProcessFillInfo(c, &exchange.FillInfo{
		Context: "filled:0xtx:7:0",
		ChainId: 1,
	}))

	tokenRepo.AssertNotCalled(t, "SetLastSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessFillInfoLastSaleFailureIsNotFatal(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	activityRepo := mActivity.NewRepo(t)
	tokenRepo := mToken.NewRepo(t)
	activityRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	tokenRepo.On("SetLastSale", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrInternalServerError)

	pp := NewPostProcessor(&PostProcessorCfg{ActivityRepo: activityRepo, TokenRepo: tokenRepo})
	req.NoError(pp.ProcessFillInfo(c, &exchange.FillInfo{
		Context:  "filled-0xccc-0xtx",
		ChainId:  1,
		Contract: contract,
		TokenId:  "9",
	}))
}
