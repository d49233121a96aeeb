package seaport

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/stores/orderbook/common"
)

// eip-712 type hashes of the exchange's order schema. Referenced types
// are appended to the root in alphabetical order.
var (
	orderComponentsTypeHash = common.TypeHash(
		"OrderComponents(address offerer,address zone,OfferItem[] offer,ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime,bytes32 zoneHash,uint256 salt,bytes32 conduitKey,uint256 counter)" +
			"ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)" +
			"OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)")
	offerItemTypeHash = common.TypeHash(
		"OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)")
	considerationItemTypeHash = common.TypeHash(
		"ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)")
)

// orderHash computes the order's eip-712 struct hash, the same value the
// exchange emits in its fulfillment and cancel events and keys its fill
// registry with
func orderHash(raw *rawOrder) []byte {
	offer := make([]byte, 0, 32*len(raw.Offer))
	for i := range raw.Offer {
		offer = append(offer, offerItemHash(&raw.Offer[i])...)
	}
	consideration := make([]byte, 0, 32*len(raw.Consideration))
	for i := range raw.Consideration {
		consideration = append(consideration, considerationItemHash(&raw.Consideration[i])...)
	}

	return common.StructHash(orderComponentsTypeHash,
		common.Word(raw.Offerer),
		common.Word(raw.Zone),
		crypto.Keccak256(offer),
		crypto.Keccak256(consideration),
		common.Word(int64(raw.OrderType)),
		common.Word(raw.StartTime),
		common.Word(raw.EndTime),
		common.Bytes32Word(raw.ZoneHash),
		common.Word(raw.Salt),
		common.Bytes32Word(raw.ConduitKey),
		common.Word(raw.Counter),
	)
}

func offerItemHash(it *item) []byte {
	return common.StructHash(offerItemTypeHash,
		common.Word(int64(it.ItemType)),
		common.Word(it.Token),
		common.Word(it.IdentifierOrCriteria),
		common.Word(it.StartAmount),
		common.Word(it.EndAmount),
	)
}

func considerationItemHash(it *item) []byte {
	return common.StructHash(considerationItemTypeHash,
		common.Word(int64(it.ItemType)),
		common.Word(it.Token),
		common.Word(it.IdentifierOrCriteria),
		common.Word(it.StartAmount),
		common.Word(it.EndAmount),
		common.Word(it.Recipient),
	)
}
