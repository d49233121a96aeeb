package events

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
)

func topicAddress(t ethcommon.Hash) domain.Address {
	return domain.Address(ethcommon.BytesToAddress(t.Bytes()).Hex()).ToLower()
}

func topicU256(t ethcommon.Hash) *big.Int {
	return new(big.Int).SetBytes(t.Bytes())
}

func dataWord(data []byte, i int) []byte {
	if len(data) < (i+1)*32 {
		return nil
	}
	return data[i*32 : (i+1)*32]
}

// erc20Handler only exists to keep the dispatch list uniform, erc20
// transfers are consumed by the marketplace handlers they are
// co-delivered with
type erc20Handler struct{}

func NewErc20Handler() exchange.Handler {
	return &erc20Handler{}
}

func (h *erc20Handler) Kind() exchange.EventKind {
	return exchange.EventKindErc20
}

func (h *erc20Handler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	return nil
}

type erc721Handler struct{}

func NewErc721Handler() exchange.Handler {
	return &erc721Handler{}
}

func (h *erc721Handler) Kind() exchange.EventKind {
	return exchange.EventKindErc721
}

func (h *erc721Handler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		if ev.SubKind == "approval-for-all" && len(ev.Log.Topics) == 3 {
			approved := dataWord(ev.Log.Data, 0)
			if approved == nil {
				continue
			}
			data.ApprovalChanges = append(data.ApprovalChanges, &exchange.ApprovalChange{
				ChainId:  ev.ChainId,
				Contract: ev.Meta.ContractAddress,
				Owner:    topicAddress(ev.Log.Topics[1]),
				Operator: topicAddress(ev.Log.Topics[2]),
				Approved: new(big.Int).SetBytes(approved).Sign() != 0,
				Meta:     ev.Meta,
			})
			continue
		}
		if ev.SubKind != "erc721-transfer" || len(ev.Log.Topics) != 4 {
			continue
		}
		data.NftTransfers = append(data.NftTransfers, &exchange.NftTransfer{
			ChainId:  ev.ChainId,
			Kind:     domain.TokenType721,
			Contract: ev.Meta.ContractAddress,
			TokenId:  domain.TokenId(topicU256(ev.Log.Topics[3]).String()),
			From:     topicAddress(ev.Log.Topics[1]),
			To:       topicAddress(ev.Log.Topics[2]),
			Amount:   "1",
			Meta:     ev.Meta,
		})
	}
	return nil
}

type erc1155Handler struct{}

func NewErc1155Handler() exchange.Handler {
	return &erc1155Handler{}
}

func (h *erc1155Handler) Kind() exchange.EventKind {
	return exchange.EventKindErc1155
}

func (h *erc1155Handler) HandleEvents(c ctx.Ctx, events []*exchange.EnhancedEvent, data *exchange.OnChainData) error {
	for _, ev := range events {
		if len(ev.Log.Topics) != 4 {
			continue
		}
		from := topicAddress(ev.Log.Topics[2])
		to := topicAddress(ev.Log.Topics[3])

		switch ev.SubKind {
		case "erc1155-transfer-single":
			id := dataWord(ev.Log.Data, 0)
			amount := dataWord(ev.Log.Data, 1)
			if id == nil || amount == nil {
				continue
			}
			data.NftTransfers = append(data.NftTransfers, &exchange.NftTransfer{
				ChainId:  ev.ChainId,
				Kind:     domain.TokenType1155,
				Contract: ev.Meta.ContractAddress,
				TokenId:  domain.TokenId(new(big.Int).SetBytes(id).String()),
				From:     from,
				To:       to,
				Amount:   new(big.Int).SetBytes(amount).String(),
				Meta:     ev.Meta,
			})
		case "erc1155-transfer-batch":
			ids, amounts, ok := unpackBatchTransfer(ev.Log.Data)
			if !ok {
				continue
			}
			for i := range ids {
				transfer := &exchange.NftTransfer{
					ChainId:  ev.ChainId,
					Kind:     domain.TokenType1155,
					Contract: ev.Meta.ContractAddress,
					TokenId:  domain.TokenId(ids[i].String()),
					From:     from,
					To:       to,
					Amount:   amounts[i].String(),
					Meta:     ev.Meta,
				}
				transfer.Meta.BatchIndex = uint(i)
				data.NftTransfers = append(data.NftTransfers, transfer)
			}
		}
	}
	return nil
}

// unpackBatchTransfer decodes the two dynamic uint256 arrays of a
// TransferBatch payload
func unpackBatchTransfer(data []byte) ([]*big.Int, []*big.Int, bool) {
	idsOffset := dataWord(data, 0)
	amountsOffset := dataWord(data, 1)
	if idsOffset == nil || amountsOffset == nil {
		return nil, nil, false
	}
	ids, ok := unpackU256Array(data, int(new(big.Int).SetBytes(idsOffset).Int64()))
	if !ok {
		return nil, nil, false
	}
	amounts, ok := unpackU256Array(data, int(new(big.Int).SetBytes(amountsOffset).Int64()))
	if !ok || len(ids) != len(amounts) {
		return nil, nil, false
	}
	return ids, amounts, true
}

func unpackU256Array(data []byte, offset int) ([]*big.Int, bool) {
	if offset < 0 || offset+32 > len(data) {
		return nil, false
	}
	length := int(new(big.Int).SetBytes(data[offset : offset+32]).Int64())
	if length < 0 || offset+32+length*32 > len(data) {
		return nil, false
	}
	res := make([]*big.Int, 0, length)
	for i := 0; i < length; i++ {
		start := offset + 32 + i*32
		res = append(res, new(big.Int).SetBytes(data[start:start+32]))
	}
	return res, true
}
