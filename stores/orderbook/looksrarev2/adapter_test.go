package looksrarev2

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const testCollection = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")

type stubStateReader struct {
	results map[string][]interface{}
	err     error
}

func (s *stubStateReader) Call(c ctx.Ctx, chainId int32, addr ethcommon.Address, blk *big.Int, contractAbi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results[method], nil
}

func newSignedAsk(t *testing.T) (*rawOrder, domain.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()).ToLower()

	raw := &rawOrder{
		QuoteType:   quoteTypeAsk,
		GlobalNonce: "0",
		SubsetNonce: "0",
		OrderNonce:  "7",
		StrategyId:  0,
		Collection:  testCollection,
		Currency:    "0x0000000000000000000000000000000000000000",
		Signer:      signer,
		StartTime:   1700000000,
		EndTime:     1900003600,
		Price:       "1000",
		ItemIds:     []string{"123"},
		Amounts:     []string{"1"},
	}

	separator := common.DomainSeparator("LooksRareProtocol", "2", 1, Exchange)
	sig, err := crypto.Sign(common.TypedDataDigest(separator, makerHash(raw)), key)
	require.NoError(t, err)
	raw.Signature = sig
	return raw, signer
}

func parseAsk(t *testing.T, a common.Adapter, raw *rawOrder) (*common.Parsed, error) {
	encoded, err := json.Marshal(raw)
	require.NoError(t, err)
	return a.Parse(ctx.Background(), &order.Info{
		Kind:     order.KindLooksRareV2,
		ChainId:  1,
		RawOrder: encoded,
	})
}

// TestParseIdIsMakerOrderHash pins the order id to the maker order's
// eip-712 hash, cross-checked against go-ethereum's typed data encoder,
// so execution and cancel events resolve back to the stored row
func TestParseIdIsMakerOrderHash(t *testing.T) {
	req := require.New(t)
	raw, signer := newSignedAsk(t)

	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Maker": []apitypes.Type{
				{Name: "quoteType", Type: "uint8"},
				{Name: "globalNonce", Type: "uint256"},
				{Name: "subsetNonce", Type: "uint256"},
				{Name: "orderNonce", Type: "uint256"},
				{Name: "strategyId", Type: "uint256"},
				{Name: "collectionType", Type: "uint8"},
				{Name: "collection", Type: "address"},
				{Name: "currency", Type: "address"},
				{Name: "signer", Type: "address"},
				{Name: "startTime", Type: "uint256"},
				{Name: "endTime", Type: "uint256"},
				{Name: "price", Type: "uint256"},
				{Name: "itemIds", Type: "uint256[]"},
				{Name: "amounts", Type: "uint256[]"},
				{Name: "additionalParameters", Type: "bytes"},
			},
		},
		PrimaryType: "Maker",
		Domain: apitypes.TypedDataDomain{
			Name:              "LooksRareProtocol",
			Version:           "2",
			ChainId:           math.NewHexOrDecimal256(1),
			VerifyingContract: Exchange.ToLowerStr(),
		},
		Message: apitypes.TypedDataMessage{
			"quoteType":            "1",
			"globalNonce":          "0",
			"subsetNonce":          "0",
			"orderNonce":           "7",
			"strategyId":           "0",
			"collectionType":       "0",
			"collection":           testCollection.ToLowerStr(),
			"currency":             "0x0000000000000000000000000000000000000000",
			"signer":               signer.ToLowerStr(),
			"startTime":            "1700000000",
			"endTime":              "1900003600",
			"price":                "1000",
			"itemIds":              []interface{}{"123"},
			"amounts":              []interface{}{"1"},
			"additionalParameters": "0x",
		},
	}
	want, err := td.HashStruct("Maker", td.Message)
	req.NoError(err)

	parsed, err := parseAsk(t, NewAdapter(nil), raw)
	req.NoError(err)
	req.Equal(domain.OrderHash(hexutil.Encode(want)).ToLower(), parsed.Order.Id)
	req.Equal(order.SideSell, parsed.Order.Side)
	req.Equal("7", parsed.Order.Nonce)
	req.Nil(parsed.CheckState)

	// the domain separator matches the encoder's too
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	req.NoError(err)
	req.Equal([]byte(sep), common.DomainSeparator("LooksRareProtocol", "2", 1, Exchange))
}

func TestParseRejectsForeignTypedSignature(t *testing.T) {
	req := require.New(t)
	raw, _ := newSignedAsk(t)

	other, err := crypto.GenerateKey()
	req.NoError(err)
	separator := common.DomainSeparator("LooksRareProtocol", "2", 1, Exchange)
	raw.Signature, err = crypto.Sign(common.TypedDataDigest(separator, makerHash(raw)), other)
	req.NoError(err)

	_, err = parseAsk(t, NewAdapter(nil), raw)
	req.Equal(common.ErrInvalidSignature, err)
}

func TestCheckStateDetectsSpentNonces(t *testing.T) {
	var executed [32]byte
	copy(executed[:], nonceExecuted)

	cases := []struct {
		name   string
		nonces []interface{}
		status [32]byte
		want   error
	}{
		{
			name:   "open",
			nonces: []interface{}{new(big.Int), new(big.Int)},
			want:   nil,
		},
		{
			name:   "global nonce bumped",
			nonces: []interface{}{new(big.Int), big.NewInt(4)},
			want:   order.ErrOrderCancelled,
		},
		{
			name:   "order nonce executed",
			nonces: []interface{}{new(big.Int), new(big.Int)},
			status: executed,
			want:   order.ErrOrderFilled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, _ := newSignedAsk(t)
			state := &stubStateReader{results: map[string][]interface{}{
				"userBidAskNonces": tc.nonces,
				"userOrderNonce":   {tc.status},
			}}

			parsed, err := parseAsk(t, NewAdapter(state), raw)
			require.NoError(t, err)
			require.NotNil(t, parsed.CheckState)
			require.Equal(t, tc.want, parsed.CheckState(ctx.Background()))
		})
	}
}
