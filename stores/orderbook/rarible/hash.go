package rarible

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/stores/orderbook/common"
)

var assetTypeTypeHash = common.TypeHash("AssetType(bytes4 assetClass,bytes data)")

// assetClassId is the bytes4 selector of the asset class name, right
// padded to its abi word
func assetClassId(class string) []byte {
	return ethcommon.RightPadBytes(crypto.Keccak256([]byte(class))[:4], 32)
}

func assetTypeHash(t *assetType) []byte {
	var data []byte
	switch t.AssetClass {
	case classErc20:
		data = common.Word(t.Contract)
	case classErc721, classErc1155:
		data = append(common.Word(t.Contract), common.Word(t.TokenId)...)
	}
	return common.StructHash(assetTypeTypeHash, assetClassId(t.AssetClass), crypto.Keccak256(data))
}

// hashKey computes the order key the exchange derives on chain, the
// value it emits in match and cancel events and keys its fill registry
// with
func hashKey(raw *RawOrder) []byte {
	return crypto.Keccak256(
		common.Word(raw.Maker),
		assetTypeHash(&raw.Make.AssetType),
		assetTypeHash(&raw.Take.AssetType),
		common.Word(raw.Salt),
	)
}
