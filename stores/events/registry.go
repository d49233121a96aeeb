package events

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/domain/exchange"
)

// event signatures of every log the indexer understands
const (
	sigTransfer       = "Transfer(address,address,uint256)"
	sigTransferSingle = "TransferSingle(address,address,address,uint256,uint256)"
	sigTransferBatch  = "TransferBatch(address,address,address,uint256[],uint256[])"
	sigApprovalForAll = "ApprovalForAll(address,address,bool)"

	sigSeaportOrderFulfilled     = "OrderFulfilled(bytes32,address,address,address,(uint8,address,uint256,uint256)[],(uint8,address,uint256,uint256,address)[])"
	sigSeaportOrderCancelled     = "OrderCancelled(bytes32,address,address)"
	sigSeaportCounterIncremented = "CounterIncremented(uint256,address)"

	sigX2Y2Inventory = "EvInventory(bytes32,address,address,uint256,uint256,uint256,uint256,uint256,address,bytes,(uint256,(uint256,address,bytes4,bytes)[]),(uint256,uint256,uint256,uint256,bytes32,uint8,uint256,bytes,uint256,uint8,uint8,uint8))"
	sigX2Y2Cancel    = "EvCancel(bytes32)"

	sigLooksRareTakerAsk             = "TakerAsk((bytes32,uint256,bool),address,address,uint256,address,address,uint256[],uint256[],address[2],uint256[3])"
	sigLooksRareTakerBid             = "TakerBid((bytes32,uint256,bool),address,address,uint256,address,address,uint256[],uint256[],address[2],uint256[3])"
	sigLooksRareOrderNoncesCancelled = "OrderNoncesCancelled(address,uint256[])"
	sigLooksRareNewBidAskNonces      = "NewBidAskNonces(address,uint256,uint256)"

	sigZeroExErc721OrderFilled     = "ERC721OrderFilled(uint8,address,address,uint256,address,uint256,address,uint256,address)"
	sigZeroExErc721OrderCancelled  = "ERC721OrderCancelled(address,uint256)"
	sigZeroExErc1155OrderFilled    = "ERC1155OrderFilled(uint8,address,address,uint256,address,uint256,address,uint256,uint128,address)"
	sigZeroExErc1155OrderCancelled = "ERC1155OrderCancelled(address,uint256)"

	// element cancels reuse the zeroex-v4 signatures so they classify as
	// zeroex-v4 events, the nonce cancel semantics are identical
	sigElementErc721SellOrderFilled = "ERC721SellOrderFilled(bytes32,address,address,address,uint256,address,uint256,uint256)"
	sigElementErc721BuyOrderFilled  = "ERC721BuyOrderFilled(bytes32,address,address,address,uint256,address,uint256,uint256)"

	sigRaribleMatch  = "Match(bytes32,bytes32,uint256,uint256)"
	sigRaribleCancel = "Cancel(bytes32)"

	sigUniverseMatch  = "Match(bytes32,bytes32,address,address,uint256,uint256)"
	sigUniverseCancel = "Cancel(bytes32,address,address,uint256)"

	sigManifoldPurchase = "PurchaseEvent(uint40,address,uint24,uint256)"
	sigManifoldCancel   = "CancelListing(uint40,address,uint16)"

	sigSudoswapBuy         = "SwapNFTOutPair(uint256,uint256[],uint256)"
	sigSudoswapSell        = "SwapNFTInPair(uint256,uint256[])"
	sigSudoswapPriceUpdate = "SpotPriceUpdate(uint128)"

	sigWyvernOrdersMatched = "OrdersMatched(bytes32,bytes32,address,address,uint256,bytes32)"
)

type eventInfo struct {
	Kind    exchange.EventKind
	SubKind string
}

var registry map[ethcommon.Hash]eventInfo

func topic(sig string) ethcommon.Hash {
	return crypto.Keccak256Hash([]byte(sig))
}

func init() {
	registry = map[ethcommon.Hash]eventInfo{
		topic(sigTransferSingle): {exchange.EventKindErc1155, "erc1155-transfer-single"},
		topic(sigTransferBatch):  {exchange.EventKindErc1155, "erc1155-transfer-batch"},

		// both nft standards emit the same ApprovalForAll, the erc721
		// handler owns it for dispatch purposes
		topic(sigApprovalForAll): {exchange.EventKindErc721, "approval-for-all"},

		topic(sigSeaportOrderFulfilled):     {exchange.EventKindSeaport, "seaport-order-filled"},
		topic(sigSeaportOrderCancelled):     {exchange.EventKindSeaport, "seaport-order-cancelled"},
		topic(sigSeaportCounterIncremented): {exchange.EventKindSeaport, "seaport-counter-incremented"},

		topic(sigX2Y2Inventory): {exchange.EventKindX2Y2, "x2y2-order-filled"},
		topic(sigX2Y2Cancel):    {exchange.EventKindX2Y2, "x2y2-order-cancelled"},

		topic(sigLooksRareTakerAsk):             {exchange.EventKindLooksRareV2, "looks-rare-v2-taker-ask"},
		topic(sigLooksRareTakerBid):             {exchange.EventKindLooksRareV2, "looks-rare-v2-taker-bid"},
		topic(sigLooksRareOrderNoncesCancelled): {exchange.EventKindLooksRareV2, "looks-rare-v2-order-nonces-cancelled"},
		topic(sigLooksRareNewBidAskNonces):      {exchange.EventKindLooksRareV2, "looks-rare-v2-new-bid-ask-nonces"},

		topic(sigZeroExErc721OrderFilled):     {exchange.EventKindZeroExV4, "zeroex-v4-erc721-order-filled"},
		topic(sigZeroExErc721OrderCancelled):  {exchange.EventKindZeroExV4, "zeroex-v4-erc721-order-cancelled"},
		topic(sigZeroExErc1155OrderFilled):    {exchange.EventKindZeroExV4, "zeroex-v4-erc1155-order-filled"},
		topic(sigZeroExErc1155OrderCancelled): {exchange.EventKindZeroExV4, "zeroex-v4-erc1155-order-cancelled"},

		topic(sigElementErc721SellOrderFilled): {exchange.EventKindElement, "element-erc721-sell-order-filled"},
		topic(sigElementErc721BuyOrderFilled):  {exchange.EventKindElement, "element-erc721-buy-order-filled"},

		topic(sigRaribleMatch):  {exchange.EventKindRarible, "rarible-match"},
		topic(sigRaribleCancel): {exchange.EventKindRarible, "rarible-cancel"},

		topic(sigUniverseMatch):  {exchange.EventKindUniverse, "universe-match"},
		topic(sigUniverseCancel): {exchange.EventKindUniverse, "universe-cancel"},

		topic(sigManifoldPurchase): {exchange.EventKindManifold, "manifold-purchase"},
		topic(sigManifoldCancel):   {exchange.EventKindManifold, "manifold-cancel"},

		topic(sigSudoswapBuy):         {exchange.EventKindSudoswapV2, "sudoswap-v2-buy"},
		topic(sigSudoswapSell):        {exchange.EventKindSudoswapV2, "sudoswap-v2-sell"},
		topic(sigSudoswapPriceUpdate): {exchange.EventKindSudoswapV2, "sudoswap-v2-spot-price-update"},

		topic(sigWyvernOrdersMatched): {exchange.EventKindWyvern, "wyvern-orders-matched"},
	}
}

// watchedTopics lists every topic0 the indexer subscribes to, including
// the shared Transfer topic
func watchedTopics() []ethcommon.Hash {
	topics := make([]ethcommon.Hash, 0, len(registry)+2)
	topics = append(topics, topic(sigTransfer), topic(sigApprovalForAll))
	for t := range registry {
		topics = append(topics, t)
	}
	return topics
}

// classify resolves a raw log to the handler kind owning it. The shared
// Transfer topic is split by arity, erc721 indexes the token id while
// erc20 carries the amount in the data.
func classify(l *types.Log) (eventInfo, bool) {
	if len(l.Topics) == 0 {
		return eventInfo{}, false
	}
	if l.Topics[0] == topic(sigTransfer) {
		if len(l.Topics) == 4 {
			return eventInfo{exchange.EventKindErc721, "erc721-transfer"}, true
		}
		return eventInfo{exchange.EventKindErc20, exchange.SubKindErc20Transfer}, true
	}
	info, ok := registry[l.Topics[0]]
	return info, ok
}
