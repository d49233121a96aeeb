package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	mBalance "github.com/floorbook/goapi/domain/balance/mocks"
	"github.com/floorbook/goapi/domain/currency"
	mCurrency "github.com/floorbook/goapi/domain/currency/mocks"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
	"github.com/floorbook/goapi/domain/orderupdate"
	mOrderupdate "github.com/floorbook/goapi/domain/orderupdate/mocks"
	"github.com/floorbook/goapi/domain/price"
	mPrice "github.com/floorbook/goapi/domain/price/mocks"
	mRoyalties "github.com/floorbook/goapi/domain/royalties/mocks"
	"github.com/floorbook/goapi/domain/source"
	mSource "github.com/floorbook/goapi/domain/source/mocks"
	mToken "github.com/floorbook/goapi/domain/token/mocks"
	"github.com/floorbook/goapi/domain/tokenset"
	mTokenset "github.com/floorbook/goapi/domain/tokenset/mocks"
)

// stubAdapter hands the engine a pre-parsed order
type stubAdapter struct {
	kind   order.Kind
	parsed *Parsed
	err    error
}

func (a *stubAdapter) Kind() order.Kind { return a.kind }

func (a *stubAdapter) Parse(c ctx.Ctx, info *order.Info) (*Parsed, error) {
	return a.parsed, a.err
}

type engineMocks struct {
	order       *mOrder.Repo
	tokenSet    *mTokenset.UseCase
	token       *mToken.UseCase
	royalties   *mRoyalties.UseCase
	price       *mPrice.UseCase
	currency    *mCurrency.UseCase
	source      *mSource.UseCase
	orderUpdate *mOrderupdate.Publisher
	balance     *mBalance.UseCase
}

func newTestEngine(t *testing.T, adapters []Adapter, filtered []domain.Address) (Engine, *engineMocks) {
	m := &engineMocks{
		order:       mOrder.NewRepo(t),
		tokenSet:    mTokenset.NewUseCase(t),
		token:       mToken.NewUseCase(t),
		royalties:   mRoyalties.NewUseCase(t),
		price:       mPrice.NewUseCase(t),
		currency:    mCurrency.NewUseCase(t),
		source:      mSource.NewUseCase(t),
		orderUpdate: mOrderupdate.NewPublisher(t),
		balance:     mBalance.NewUseCase(t),
	}
	eng := NewEngine(&EngineCfg{
		OrderRepo:         m.order,
		TokenSet:          m.tokenSet,
		Token:             m.token,
		Royalties:         m.royalties,
		Price:             m.price,
		Currency:          m.currency,
		Source:            m.source,
		OrderUpdate:       m.orderUpdate,
		Balance:           m.balance,
		Adapters:          adapters,
		FilteredContracts: filtered,
	})
	return eng, m
}

const (
	testMaker    = domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369")
	testContract = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
)

// sellOrderParsed builds a single-token erc721 listing priced in the
// native asset
func sellOrderParsed() *Parsed {
	tid := domain.TokenId("42")
	o := &order.Order{
		ChainId:       1,
		Id:            "0xAB12cd34EF56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12",
		Kind:          order.KindSeaport,
		Side:          order.SideSell,
		Maker:         testMaker,
		Contract:      testContract,
		Currency:      domain.NativeAddress,
		CurrencyPrice: "1000000",
		FeeBreakdown: []domain.FeeBreakdown{
			{Kind: domain.FeeKindMarketplace, Recipient: "0x9a23e00d6864efa28f6bd9861d9a418aaa27c85e", Bps: 250},
		},
		Nonce:      "123",
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
	}
	return &Parsed{
		Order: o,
		TokenSet: &tokenset.TokenSet{
			ChainId:  1,
			Id:       tokenset.SingleTokenId(testContract, tid),
			Kind:     tokenset.KindSingleToken,
			Contract: testContract,
			TokenId:  &tid,
		},
		TokenId: &tid,
	}
}

// expectBalanceProbes wires the erc721 fillability probes of the maker
func expectBalanceProbes(m *engineMocks, parsed *Parsed, hasToken, approved bool) {
	o := parsed.Order
	m.balance.On("Erc721HasToken", mock.Anything, o.ChainId, testContract, *parsed.TokenId, testMaker).
		Return(hasToken, nil)
	// no conduit set, the exchange contract itself is the operator
	m.balance.On("IsApprovedForAll", mock.Anything, o.ChainId, domain.TokenType721, testContract, testMaker, testContract).
		Return(approved, nil)
}

// expectSellPipeline wires the lookups of a clean sell-side ingestion up
// to the insert
func expectSellPipeline(m *engineMocks, parsed *Parsed) {
	o := parsed.Order
	loweredId := o.Id.ToLower()
	m.order.On("FindOne", mock.Anything, order.Id{ChainId: o.ChainId, Id: loweredId}).
		Return(nil, domain.ErrNotFound)
	m.token.On("ContractKind", mock.Anything, o.ChainId, testContract).
		Return(domain.TokenType721, nil)
	expectBalanceProbes(m, parsed, true, true)
	m.tokenSet.On("Save", mock.Anything, []*tokenset.TokenSet{parsed.TokenSet}).
		Return([]*tokenset.TokenSet{parsed.TokenSet}, nil)
	m.royalties.On("GetRoyaltiesByTokenSet", mock.Anything, o.ChainId, parsed.TokenSet.Id).
		Return([]domain.Royalty{}, nil)
}

func TestSaveSuccess(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	loweredId := parsed.Order.Id.ToLower()
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

	expectSellPipeline(m, parsed)
	m.source.On("GetOrInsert", mock.Anything, "market.example").
		Return(&source.Source{Id: "market-example", Domain: "market.example"}, nil)

	var inserted *order.Order
	m.order.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*order.Order)
	})
	var payloads []*orderupdate.Payload
	m.orderUpdate.On("PublishById", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		payloads = args.Get(1).([]*orderupdate.Payload)
	})

	results, err := eng.Save(c, []*order.Info{{
		Kind:    order.KindSeaport,
		ChainId: 1,
		Metadata: order.Metadata{
			SchemaHash: "0xschema",
			Source:     "market.example",
		},
	}})
	req.NoError(err)
	req.Len(results, 1)
	req.Equal(order.SaveStatusSuccess, results[0].Status)
	req.Equal(loweredId, results[0].Id)
	req.False(results[0].Unfillable)

	req.NotNil(inserted)
	req.Equal(order.FillabilityFillable, inserted.FillabilityStatus)
	req.Equal(order.ApprovalApproved, inserted.ApprovalStatus)
	req.Equal(parsed.TokenSet.Id, inserted.TokenSetId)
	req.Equal("0xschema", inserted.TokenSetSchemaHash)
	req.Equal(domain.SourceId("market-example"), inserted.SourceId)
	req.Equal(fmt.Sprintf("0x%064x", 123), inserted.HexNonce)
	req.Equal("1", inserted.QuantityRemaining)
	req.Equal("0", inserted.QuantityFilled)
	req.Equal(250, inserted.FeeBps)
	// native pricing keeps the currency amounts as-is
	req.Equal("1000000", inserted.Price)
	req.Equal("1000000", inserted.Value)
	req.Equal("1000000", inserted.NormalizedValue)
	req.False(inserted.CreatedAt.IsZero())

	req.Len(payloads, 1)
	req.Equal(orderupdate.NewOrderContext(loweredId), payloads[0].Context)
	req.Equal(orderupdate.TriggerNewOrder, payloads[0].Trigger.Kind)
	req.Equal(loweredId, payloads[0].Id)
	req.Equal(domain.ChainId(1), payloads[0].ChainId)
}

func TestSaveUnknownOrderKind(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	eng, _ := newTestEngine(t, nil, nil)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Len(results, 1)
	req.Equal(order.SaveStatusUnknownOrderKind, results[0].Status)
}

func TestSaveParseErrorMapsStatus(t *testing.T) {
	c := ctx.Background()

	cases := []struct {
		name   string
		err    error
		status order.SaveStatus
	}{
		{"invalid signature", ErrInvalidSignature, order.SaveStatusInvalidSignature},
		{"unsupported payment token", ErrUnsupportedPaymentToken, order.SaveStatusUnsupportedPaymentToken},
		{"bundle order", ErrBundleUnsupported, order.SaveStatusBundleUnsupported},
		{"unrecognized decode error", errors.New("boom"), order.SaveStatusInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			eng, _ := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, err: tc.err}}, nil)

			results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
			req.NoError(err)
			req.Equal(tc.status, results[0].Status)
		})
	}
}

func TestSaveFilteredContract(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	// filter list entries are matched case-insensitively
	eng, _ := newTestEngine(t,
		[]Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}},
		[]domain.Address{"0xDF8650B0CA1260F7A2F4FDFF9082AEDE554F65AD"},
	)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusFiltered, results[0].Status)
}

func TestSaveAlreadyExists(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)
	m.order.On("FindOne", mock.Anything, mock.Anything).Return(&order.Order{}, nil)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusAlreadyExists, results[0].Status)
}

func TestSaveTimeWindow(t *testing.T) {
	c := ctx.Background()

	t.Run("listing too far in the future", func(t *testing.T) {
		req := require.New(t)
		parsed := sellOrderParsed()
		parsed.Order.ValidFrom = time.Now().Add(10 * time.Minute)
		eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)
		m.order.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

		results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
		req.NoError(err)
		req.Equal(order.SaveStatusInvalidListingTime, results[0].Status)
	})

	t.Run("already expired", func(t *testing.T) {
		req := require.New(t)
		parsed := sellOrderParsed()
		parsed.Order.ValidUntil = time.Now().Add(-time.Second)
		eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)
		m.order.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

		results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
		req.NoError(err)
		req.Equal(order.SaveStatusExpired, results[0].Status)
	})
}

func TestSaveDegradedNoBalance(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

	m.order.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	m.token.On("ContractKind", mock.Anything, domain.ChainId(1), testContract).Return(domain.TokenType721, nil)
	// the maker no longer holds the token
	expectBalanceProbes(m, parsed, false, true)
	m.tokenSet.On("Save", mock.Anything, mock.Anything).Return([]*tokenset.TokenSet{parsed.TokenSet}, nil)
	m.royalties.On("GetRoyaltiesByTokenSet", mock.Anything, domain.ChainId(1), parsed.TokenSet.Id).
		Return([]domain.Royalty{}, nil)

	var inserted *order.Order
	m.order.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*order.Order)
	})

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusSuccess, results[0].Status)
	req.True(results[0].Unfillable)

	req.NotNil(inserted)
	req.Equal(order.FillabilityNoBalance, inserted.FillabilityStatus)
	req.Equal(order.ApprovalApproved, inserted.ApprovalStatus)

	// degraded orders are stored but not propagated as new
	m.orderUpdate.AssertNotCalled(t, "PublishById", mock.Anything, mock.Anything)
}

func TestSaveOnChainStateTerminal(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	parsed.CheckState = func(c ctx.Ctx) error { return order.ErrOrderCancelled }
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)
	m.order.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusNotFillable, results[0].Status)

	m.tokenSet.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.order.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSaveInsertConflict(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	parsed := sellOrderParsed()
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

	expectSellPipeline(m, parsed)
	m.order.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusAlreadyExists, results[0].Status)

	m.orderUpdate.AssertNotCalled(t, "PublishById", mock.Anything, mock.Anything)
}

func TestSaveConvertsNonNativeCurrency(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	dai := domain.Address("0x6b175474e89094c44da98b954eedeac495271d0f")
	parsed := sellOrderParsed()
	parsed.Order.Currency = dai
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

	expectSellPipeline(m, parsed)
	m.currency.On("IsWhitelisted", mock.Anything, currency.Id{ChainId: 1, Contract: dai}).Return(false)
	native := "500000000000000000"
	m.price.On("Convert", mock.Anything, domain.ChainId(1), dai, "1000000", mock.Anything).
		Return(&price.Conversion{NativePrice: &native}, nil)

	var inserted *order.Order
	m.order.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*order.Order)
	})
	m.orderUpdate.On("PublishById", mock.Anything, mock.Anything).Return(nil)

	results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
	req.NoError(err)
	req.Equal(order.SaveStatusSuccess, results[0].Status)

	req.NotNil(inserted)
	req.Equal("1000000", inserted.CurrencyPrice)
	req.Equal(native, inserted.Price)
	req.Equal(native, inserted.Value)
	req.Equal(native, inserted.NormalizedValue)
}

// a cancel the event syncer missed still surfaces on revalidation: the
// stored raw order is re-parsed and its on-chain state probe consulted
func TestRevalidateSurfacesOnChainCancel(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	tid := domain.TokenId("42")
	stored := &order.Order{
		ChainId:           1,
		Id:                "0x00000000000000000000000000000000000000000000000000000000000000aa",
		Kind:              order.KindSeaport,
		Side:              order.SideSell,
		Maker:             testMaker,
		Contract:          testContract,
		TokenSetId:        tokenset.SingleTokenId(testContract, tid),
		RawData:           `{"offerer":"` + testMaker.ToLowerStr() + `"}`,
		FillabilityStatus: order.FillabilityFillable,
		ApprovalStatus:    order.ApprovalApproved,
	}

	reparsed := &Parsed{
		Order:      &order.Order{},
		CheckState: func(c ctx.Ctx) error { return order.ErrOrderCancelled },
	}
	eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: reparsed}}, nil)

	var patch order.Patchable
	m.order.On("Update", mock.Anything, stored.ToId(), mock.Anything).Run(func(args mock.Arguments) {
		patch = args.Get(2).(order.Patchable)
	}).Return(nil)

	changed, err := eng.Revalidate(c, stored)
	req.NoError(err)
	req.True(changed)
	req.Equal(order.FillabilityCancelled, *patch.FillabilityStatus)
	req.Equal(order.FillabilityCancelled, stored.FillabilityStatus)

	// terminal now, a second pass leaves it alone
	changed, err = eng.Revalidate(c, stored)
	req.NoError(err)
	req.False(changed)
}

func TestSaveUnpricedCurrency(t *testing.T) {
	c := ctx.Background()
	doge := domain.Address("0x4206942069420694206942069420694206942069")

	t.Run("not whitelisted", func(t *testing.T) {
		req := require.New(t)
		parsed := sellOrderParsed()
		parsed.Order.Currency = doge
		eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

		expectSellPipeline(m, parsed)
		m.currency.On("IsWhitelisted", mock.Anything, currency.Id{ChainId: 1, Contract: doge}).Return(false)
		m.price.On("Convert", mock.Anything, domain.ChainId(1), doge, mock.Anything, mock.Anything).
			Return(nil, domain.ErrNotFound)

		results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
		req.NoError(err)
		req.Equal(order.SaveStatusUnsupportedPaymentToken, results[0].Status)
		m.order.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("whitelisted currency lands without a rate", func(t *testing.T) {
		req := require.New(t)
		parsed := sellOrderParsed()
		parsed.Order.Currency = doge
		eng, m := newTestEngine(t, []Adapter{&stubAdapter{kind: order.KindSeaport, parsed: parsed}}, nil)

		expectSellPipeline(m, parsed)
		m.currency.On("IsWhitelisted", mock.Anything, currency.Id{ChainId: 1, Contract: doge}).Return(true)
		m.price.On("Convert", mock.Anything, domain.ChainId(1), doge, mock.Anything, mock.Anything).
			Return(nil, domain.ErrNotFound)

		var inserted *order.Order
		m.order.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*order.Order)
		})
		m.orderUpdate.On("PublishById", mock.Anything, mock.Anything).Return(nil)

		results, err := eng.Save(c, []*order.Info{{Kind: order.KindSeaport, ChainId: 1}})
		req.NoError(err)
		req.Equal(order.SaveStatusSuccess, results[0].Status)

		req.NotNil(inserted)
		req.Equal("0", inserted.Price)
		req.Equal("0", inserted.Value)
		req.Equal("0", inserted.NormalizedValue)
	})
}
