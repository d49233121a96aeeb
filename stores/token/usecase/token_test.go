package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
	"github.com/floorbook/goapi/domain/token"
	mToken "github.com/floorbook/goapi/domain/token/mocks"
	"github.com/floorbook/goapi/domain/tokenset"
	mTokenset "github.com/floorbook/goapi/domain/tokenset/mocks"
)

const (
	testContract = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	testMaker    = domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
)

type setRecomputeMocks struct {
	tokenRepo *mToken.Repo
	orderRepo *mOrder.Repo
	tokenSet  *mTokenset.UseCase
}

func newSetRecomputeUseCase(t *testing.T) (token.UseCase, *setRecomputeMocks) {
	m := &setRecomputeMocks{
		tokenRepo: mToken.NewRepo(t),
		orderRepo: mOrder.NewRepo(t),
		tokenSet:  mTokenset.NewUseCase(t),
	}
	uc := New(&UseCaseCfg{
		TokenRepo: m.tokenRepo,
		OrderRepo: m.orderRepo,
		TokenSet:  m.tokenSet,
	})
	return uc, m
}

func coveringBid(setId domain.TokenSetId) *order.Order {
	return &order.Order{
		ChainId:           1,
		Id:                "0x00000000000000000000000000000000000000000000000000000000000000aa",
		Side:              order.SideBuy,
		Maker:             testMaker,
		Contract:          testContract,
		TokenSetId:        setId,
		Currency:          domain.NativeAddress,
		Price:             "1000",
		Value:             "1000",
		NormalizedValue:   "1000",
		FillabilityStatus: order.FillabilityFillable,
		ApprovalStatus:    order.ApprovalApproved,
		ValidUntil:        time.Now().Add(time.Hour).UTC(),
	}
}

// a token-list bid fans its top bid recompute out over the enumerated
// member tokens
func TestRecomputeSetTopBidsTokenList(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newSetRecomputeUseCase(t)

	ts := &tokenset.TokenSet{
		ChainId:  1,
		Id:       tokenset.TokenListId(testContract, "0xabc123"),
		Kind:     tokenset.KindTokenList,
		Contract: testContract,
		TokenIds: []domain.TokenId{"1", "2"},
	}
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return([]*order.Order{coveringBid(ts.Id)}, nil)

	recomputed := []domain.TokenId{}
	m.tokenRepo.On("SetTopBid", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			id := args.Get(1).(token.Id)
			recomputed = append(recomputed, id.TokenId)
			cached := args.Get(2).(*token.CachedOrder)
			require.NotNil(t, cached)
			require.Equal(t, domain.OrderHash("0x00000000000000000000000000000000000000000000000000000000000000aa"), cached.OrderId)
		}).Return(nil)

	req.NoError(uc.RecomputeSetTopBids(c, 1, ts.Id))
	req.Equal([]domain.TokenId{"1", "2"}, recomputed)
}

// a contract-wide bid recomputes the top bid of every token already
// indexed for the contract
func TestRecomputeSetTopBidsContractWide(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newSetRecomputeUseCase(t)

	ts := &tokenset.TokenSet{
		ChainId:  1,
		Id:       tokenset.ContractWideId(testContract),
		Kind:     tokenset.KindContractWide,
		Contract: testContract,
	}
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.tokenRepo.On("FindAllByContract", mock.Anything, domain.ChainId(1), testContract).
		Return([]*token.Token{
			{ChainId: 1, Contract: testContract, TokenId: "5"},
			{ChainId: 1, Contract: testContract, TokenId: "9"},
		}, nil)
	m.orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return([]*order.Order{coveringBid(ts.Id)}, nil)

	recomputed := []domain.TokenId{}
	m.tokenRepo.On("SetTopBid", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recomputed = append(recomputed, args.Get(1).(token.Id).TokenId)
		}).Return(nil)

	req.NoError(uc.RecomputeSetTopBids(c, 1, ts.Id))
	req.Equal([]domain.TokenId{"5", "9"}, recomputed)
}

// small ranges enumerate their members directly instead of scanning the
// indexed tokens
func TestRecomputeSetTopBidsTokenRange(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	uc, m := newSetRecomputeUseCase(t)

	start, end := domain.TokenId("10"), domain.TokenId("12")
	ts := &tokenset.TokenSet{
		ChainId:  1,
		Id:       tokenset.TokenRangeId(testContract, start, end),
		Kind:     tokenset.KindTokenRange,
		Contract: testContract,
		StartId:  &start,
		EndId:    &end,
	}
	m.tokenSet.On("Get", mock.Anything, mock.Anything).Return(ts, nil)
	m.orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return([]*order.Order{}, nil)

	recomputed := []domain.TokenId{}
	m.tokenRepo.On("SetTopBid", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recomputed = append(recomputed, args.Get(1).(token.Id).TokenId)
			// no live bids clears the cache
			require.Nil(t, args.Get(2))
		}).Return(nil)

	req.NoError(uc.RecomputeSetTopBids(c, 1, ts.Id))
	req.Equal([]domain.TokenId{"10", "11", "12"}, recomputed)
}
