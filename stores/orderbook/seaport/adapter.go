package seaport

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
	"github.com/floorbook/goapi/domain/tokenset"
	"github.com/floorbook/goapi/stores/orderbook/common"
)

// seaport item types
const (
	itemTypeNative = iota
	itemTypeErc20
	itemTypeErc721
	itemTypeErc1155
	itemTypeErc721Criteria
	itemTypeErc1155Criteria
)

const zeroConduitKey = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Exchange is the seaport 1.5 deployment, shared across chains
const Exchange = domain.Address("0x00000000000000adc04c56bf30ac9d3c0aaf14dc")

// conduits maps conduit keys onto their deployed conduit addresses
var conduits = map[string]domain.Address{
	// opensea's conduit
	"0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000": "0x1e0049783f008a0085193e00003d00cd54003c71",
}

type item struct {
	ItemType             int            `json:"itemType"`
	Token                domain.Address `json:"token"`
	IdentifierOrCriteria string         `json:"identifierOrCriteria"`
	StartAmount          string         `json:"startAmount"`
	EndAmount            string         `json:"endAmount"`
	Recipient            domain.Address `json:"recipient,omitempty"`
}

type rawOrder struct {
	Offerer       domain.Address `json:"offerer"`
	Zone          domain.Address `json:"zone"`
	Offer         []item         `json:"offer"`
	Consideration []item         `json:"consideration"`
	OrderType     int            `json:"orderType"`
	StartTime     int64          `json:"startTime"`
	EndTime       int64          `json:"endTime"`
	ZoneHash      string         `json:"zoneHash"`
	Counter       string         `json:"counter"`
	Salt          string         `json:"salt"`
	ConduitKey    string         `json:"conduitKey"`
	Signature     hexutil.Bytes  `json:"signature"`
}

type adapter struct {
	state common.StateReader
}

func NewAdapter(state common.StateReader) common.Adapter {
	return &adapter{state: state}
}

func (a *adapter) Kind() order.Kind {
	return order.KindSeaport
}

func isNft(t int) bool {
	return t == itemTypeErc721 || t == itemTypeErc1155 ||
		t == itemTypeErc721Criteria || t == itemTypeErc1155Criteria
}

func isCriteria(t int) bool {
	return t == itemTypeErc721Criteria || t == itemTypeErc1155Criteria
}

func (a *adapter) Parse(c ctx.Ctx, info *order.Info) (*common.Parsed, error) {
	raw := &rawOrder{}
	if err := json.Unmarshal(info.RawOrder, raw); err != nil {
		return nil, common.ErrInvalidOrder
	}
	if raw.Offerer.IsEmpty() || len(raw.Offer) == 0 || len(raw.Consideration) == 0 {
		return nil, common.ErrInvalidOrder
	}
	if raw.Counter == "" {
		raw.Counter = "0"
	}
	if raw.Salt == "" {
		raw.Salt = "0"
	}

	// exactly one nft side, bundles are not handled
	nftItems := 0
	var nft *item
	side := order.SideSell
	for i := range raw.Offer {
		if isNft(raw.Offer[i].ItemType) {
			nftItems++
			nft = &raw.Offer[i]
		}
	}
	if nftItems == 0 {
		side = order.SideBuy
		for i := range raw.Consideration {
			if isNft(raw.Consideration[i].ItemType) {
				nftItems++
				nft = &raw.Consideration[i]
			}
		}
	}
	if nftItems == 0 {
		return nil, common.ErrInvalidOrder
	}
	if nftItems > 1 {
		return nil, common.ErrBundleUnsupported
	}

	currency, price, feeBreakdown, err := a.pricing(raw, side)
	if err != nil {
		return nil, err
	}

	// buy orders escrow erc20, the native asset cannot back a bid
	if side == order.SideBuy && currency.Equals(domain.NativeAddress) {
		return nil, common.ErrUnsupportedPaymentToken
	}

	quantity := nft.StartAmount
	if _, ok := new(big.Int).SetString(quantity, 10); !ok || quantity == "0" {
		return nil, common.ErrUnsupportedAmount
	}

	conduit := Exchange
	if raw.ConduitKey != "" && raw.ConduitKey != zeroConduitKey {
		mapped, ok := conduits[raw.ConduitKey]
		if !ok {
			return nil, common.ErrInvalidOrder
		}
		conduit = mapped
	}

	// the id is the protocol's own order hash so fills and cancels seen
	// on chain resolve back to the stored row
	structHash := orderHash(raw)
	id := domain.OrderHash(hexutil.Encode(structHash)).ToLower()
	separator := common.DomainSeparator("Seaport", "1.5", info.ChainId, Exchange)
	if err := common.VerifyTypedSignature(separator, structHash, raw.Signature, raw.Offerer); err != nil {
		return nil, err
	}

	ts, tokenId := a.tokenSet(info.ChainId, nft)
	isDynamic := false
	for _, it := range append(raw.Offer, raw.Consideration...) {
		if it.StartAmount != it.EndAmount {
			isDynamic = true
		}
	}

	o := &order.Order{
		ChainId:           info.ChainId,
		Id:                id,
		Kind:              order.KindSeaport,
		Side:              side,
		Maker:             raw.Offerer,
		Contract:          nft.Token,
		Conduit:           conduit,
		Currency:          currency,
		CurrencyPrice:     price.String(),
		QuantityRemaining: quantity,
		Nonce:             raw.Counter,
		FeeBreakdown:      feeBreakdown,
		ValidFrom:         time.Unix(raw.StartTime, 0).UTC(),
		IsDynamic:         isDynamic,
		RawData:           string(info.RawOrder),
	}
	if raw.EndTime > 0 {
		o.ValidUntil = time.Unix(raw.EndTime, 0).UTC()
	}

	return &common.Parsed{
		Order:      o,
		TokenSet:   ts,
		TokenId:    tokenId,
		CheckState: a.checkState(info.ChainId, raw, structHash),
	}, nil
}

// pricing sums the payment legs. Legs not paid to the offerer count as
// built-in fees.
func (a *adapter) pricing(raw *rawOrder, side order.Side) (domain.Address, *big.Int, []domain.FeeBreakdown, error) {
	var currency domain.Address
	price := new(big.Int)
	fees := []domain.FeeBreakdown{}

	if side == order.SideBuy {
		// a bid offers erc20 and pays fees out of it
		offer := raw.Offer[0]
		if offer.ItemType != itemTypeErc20 {
			return "", nil, nil, common.ErrInvalidOrder
		}
		currency = offer.Token.ToLower()
		amount, ok := new(big.Int).SetString(offer.StartAmount, 10)
		if !ok {
			return "", nil, nil, common.ErrInvalidOrder
		}
		price.Set(amount)
		for _, cons := range raw.Consideration {
			if cons.ItemType != itemTypeErc20 || cons.Recipient.Equals(raw.Offerer) {
				continue
			}
			fees = append(fees, a.feeLeg(raw, cons, price))
		}
		return currency, price, fees, nil
	}

	// a listing's price is everything the consideration side collects
	for _, cons := range raw.Consideration {
		if isNft(cons.ItemType) {
			continue
		}
		legCurrency := domain.NativeAddress
		if cons.ItemType == itemTypeErc20 {
			legCurrency = cons.Token.ToLower()
		}
		if currency != "" && currency != legCurrency {
			return "", nil, nil, common.ErrUnsupportedPaymentToken
		}
		currency = legCurrency
		amount, ok := new(big.Int).SetString(cons.StartAmount, 10)
		if !ok {
			return "", nil, nil, common.ErrInvalidOrder
		}
		price.Add(price, amount)
		if !cons.Recipient.Equals(raw.Offerer) {
			fees = append(fees, a.feeLeg(raw, cons, nil))
		}
	}
	if currency == "" {
		return "", nil, nil, common.ErrInvalidOrder
	}
	// fee bps need the final price
	for i := range fees {
		fees[i].Bps = legBps(feeAmount(raw, fees[i].Recipient), price)
	}
	return currency, price, fees, nil
}

func (a *adapter) feeLeg(raw *rawOrder, cons item, price *big.Int) domain.FeeBreakdown {
	kind := domain.FeeKindRoyalty
	if cons.Recipient.Equals(raw.Zone) || isKnownMarketplaceFeeRecipient(cons.Recipient) {
		kind = domain.FeeKindMarketplace
	}
	leg := domain.FeeBreakdown{
		Kind:      kind,
		Recipient: cons.Recipient.ToLower(),
	}
	if price != nil {
		amount, _ := new(big.Int).SetString(cons.StartAmount, 10)
		leg.Bps = legBps(amount, price)
	}
	return leg
}

func feeAmount(raw *rawOrder, recipient domain.Address) *big.Int {
	total := new(big.Int)
	for _, cons := range raw.Consideration {
		if isNft(cons.ItemType) || !cons.Recipient.Equals(recipient) {
			continue
		}
		if amount, ok := new(big.Int).SetString(cons.StartAmount, 10); ok {
			total.Add(total, amount)
		}
	}
	return total
}

func legBps(amount, price *big.Int) int {
	if amount == nil || price == nil || price.Sign() == 0 {
		return 0
	}
	bps := new(big.Int).Div(new(big.Int).Mul(amount, domain.Big10000), price)
	return int(bps.Int64())
}

var marketplaceFeeRecipients = map[domain.Address]bool{
	// opensea fee collector
	"0x0000a26b00c1f0df003000390027140000faa719": true,
}

func isKnownMarketplaceFeeRecipient(addr domain.Address) bool {
	return marketplaceFeeRecipients[addr.ToLower()]
}

func (a *adapter) tokenSet(chainId domain.ChainId, nft *item) (*tokenset.TokenSet, *domain.TokenId) {
	contract := nft.Token.ToLower()
	if !isCriteria(nft.ItemType) {
		tokenId := domain.TokenId(nft.IdentifierOrCriteria)
		return &tokenset.TokenSet{
			ChainId:  chainId,
			Id:       tokenset.SingleTokenId(contract, tokenId),
			Kind:     tokenset.KindSingleToken,
			Contract: contract,
			TokenId:  &tokenId,
		}, &tokenId
	}

	// zero criteria accepts any token of the collection, anything else is
	// a merkle root over the accepted ids
	if root, ok := new(big.Int).SetString(nft.IdentifierOrCriteria, 10); ok && root.Sign() == 0 {
		return &tokenset.TokenSet{
			ChainId:  chainId,
			Id:       tokenset.ContractWideId(contract),
			Kind:     tokenset.KindContractWide,
			Contract: contract,
		}, nil
	}
	return &tokenset.TokenSet{
		ChainId:    chainId,
		Id:         tokenset.TokenListId(contract, nft.IdentifierOrCriteria),
		Kind:       tokenset.KindTokenList,
		Contract:   contract,
		MerkleRoot: nft.IdentifierOrCriteria,
	}, nil
}
