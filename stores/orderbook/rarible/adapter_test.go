package rarible

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

const testContract = domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")

type stubStateReader struct {
	filled *big.Int
	err    error
}

func (s *stubStateReader) Call(c ctx.Ctx, chainId int32, addr ethcommon.Address, blk *big.Int, contractAbi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []interface{}{s.filled}, nil
}

func newSignedListing(t *testing.T) (*RawOrder, domain.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	maker := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()).ToLower()

	raw := &RawOrder{
		Maker: maker,
		Make: asset{
			AssetType: assetType{AssetClass: classErc721, Contract: testContract, TokenId: "123"},
			Value:     "1",
		},
		Take: asset{
			AssetType: assetType{AssetClass: classEth},
			Value:     "1000",
		},
		Salt:  "12345",
		Start: 1700000000,
		End:   1900003600,
	}

	sig, err := crypto.Sign(accounts.TextHash(hashKey(raw)), key)
	require.NoError(t, err)
	raw.Signature = sig
	return raw, maker
}

func parseListing(t *testing.T, raw *RawOrder, state common.StateReader) (*common.Parsed, error) {
	encoded, err := json.Marshal(raw)
	require.NoError(t, err)
	return NewAdapter(state).Parse(ctx.Background(), &order.Info{
		Kind:     order.KindRarible,
		ChainId:  1,
		RawOrder: encoded,
	})
}

// TestParseIdIsExchangeHashKey pins the order id to the exchange's
// on-chain order key, rebuilt here over go-ethereum's abi packer, so
// match and cancel events resolve back to the stored row
func TestParseIdIsExchangeHashKey(t *testing.T) {
	req := require.New(t)
	raw, maker := newSignedListing(t)

	addressTy, err := abi.NewType("address", "", nil)
	req.NoError(err)
	uint256Ty, err := abi.NewType("uint256", "", nil)
	req.NoError(err)
	bytes32Ty, err := abi.NewType("bytes32", "", nil)
	req.NoError(err)
	bytes4Ty, err := abi.NewType("bytes4", "", nil)
	req.NoError(err)

	word32 := func(b []byte) [32]byte {
		var out [32]byte
		copy(out[:], b)
		return out
	}
	class4 := func(name string) [4]byte {
		var out [4]byte
		copy(out[:], crypto.Keccak256([]byte(name)))
		return out
	}

	typeHash := word32(crypto.Keccak256([]byte("AssetType(bytes4 assetClass,bytes data)")))
	assetTypeArgs := abi.Arguments{{Type: bytes32Ty}, {Type: bytes4Ty}, {Type: bytes32Ty}}

	nftData, err := abi.Arguments{{Type: addressTy}, {Type: uint256Ty}}.Pack(
		ethcommon.HexToAddress(testContract.ToLowerStr()), big.NewInt(123))
	req.NoError(err)
	nftPacked, err := assetTypeArgs.Pack(typeHash, class4(classErc721), word32(crypto.Keccak256(nftData)))
	req.NoError(err)

	ethPacked, err := assetTypeArgs.Pack(typeHash, class4(classEth), word32(crypto.Keccak256(nil)))
	req.NoError(err)

	keyPacked, err := abi.Arguments{
		{Type: addressTy}, {Type: bytes32Ty}, {Type: bytes32Ty}, {Type: uint256Ty},
	}.Pack(ethcommon.HexToAddress(maker.ToLowerStr()),
		word32(crypto.Keccak256(nftPacked)), word32(crypto.Keccak256(ethPacked)), big.NewInt(12345))
	req.NoError(err)
	want := hexutil.Encode(crypto.Keccak256(keyPacked))

	parsed, err := parseListing(t, raw, nil)
	req.NoError(err)
	req.Equal(domain.OrderHash(want).ToLower(), parsed.Order.Id)
	req.Equal(order.SideSell, parsed.Order.Side)
	req.Equal("1000", parsed.Order.CurrencyPrice)
	req.Nil(parsed.CheckState)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	req := require.New(t)
	raw, _ := newSignedListing(t)

	other, err := crypto.GenerateKey()
	req.NoError(err)
	raw.Signature, err = crypto.Sign(accounts.TextHash(hashKey(raw)), other)
	req.NoError(err)

	_, err = parseListing(t, raw, nil)
	req.Equal(common.ErrInvalidSignature, err)
}

func TestCheckStateReadsFillRegistry(t *testing.T) {
	cases := []struct {
		name   string
		filled *big.Int
		want   error
	}{
		{name: "untouched", filled: new(big.Int), want: nil},
		{name: "partially filled", filled: big.NewInt(400), want: nil},
		{name: "fully filled", filled: big.NewInt(1000), want: order.ErrOrderFilled},
		{name: "cancelled on chain", filled: new(big.Int).Set(maxUint256), want: order.ErrOrderCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, _ := newSignedListing(t)
			parsed, err := parseListing(t, raw, &stubStateReader{filled: tc.filled})
			require.NoError(t, err)
			require.NotNil(t, parsed.CheckState)
			require.Equal(t, tc.want, parsed.CheckState(ctx.Background()))
		})
	}
}
