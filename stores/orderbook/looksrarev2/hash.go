package looksrarev2

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/stores/orderbook/common"
)

var makerTypeHash = common.TypeHash(
	"Maker(uint8 quoteType,uint256 globalNonce,uint256 subsetNonce,uint256 orderNonce,uint256 strategyId,uint8 collectionType,address collection,address currency,address signer,uint256 startTime,uint256 endTime,uint256 price,uint256[] itemIds,uint256[] amounts,bytes additionalParameters)")

// makerHash computes the maker order's eip-712 struct hash, the order
// hash the exchange reports in its execution and cancel events
func makerHash(raw *rawOrder) []byte {
	itemIds := make([][]byte, 0, len(raw.ItemIds))
	for _, id := range raw.ItemIds {
		itemIds = append(itemIds, common.Word(id))
	}
	amounts := make([][]byte, 0, len(raw.Amounts))
	for _, amount := range raw.Amounts {
		amounts = append(amounts, common.Word(amount))
	}

	return common.StructHash(makerTypeHash,
		common.Word(int64(raw.QuoteType)),
		common.Word(raw.GlobalNonce),
		common.Word(raw.SubsetNonce),
		common.Word(raw.OrderNonce),
		common.Word(int64(raw.StrategyId)),
		common.Word(int64(raw.CollectionType)),
		common.Word(raw.Collection),
		common.Word(raw.Currency),
		common.Word(raw.Signer),
		common.Word(raw.StartTime),
		common.Word(raw.EndTime),
		common.Word(raw.Price),
		common.WordArrayHash(itemIds...),
		common.WordArrayHash(amounts...),
		crypto.Keccak256(raw.AdditionalParameters),
	)
}
