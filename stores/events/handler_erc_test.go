package events

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
)

func u256Word(v int64) []byte {
	return ethcommon.BigToHash(big.NewInt(v)).Bytes()
}

func TestErc721HandlerTransfer(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	from := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	to := ethcommon.HexToHash("0x000000000000000000000000df8650b0ca1260f7a2f4fdff9082aede554f65ad")
	meta := domain.LogMeta{ContractAddress: "0xdcf0de6b17785a143d006e1515a6afd123cde8ba"}

	data := exchange.NewOnChainData()
	err := NewErc721Handler().HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindErc721,
		SubKind: "erc721-transfer",
		ChainId: 1,
		Log: types.Log{Topics: []ethcommon.Hash{
			topic(sigTransfer), from, to, ethcommon.BigToHash(big.NewInt(42)),
		}},
		Meta: meta,
	}}, data)
	req.NoError(err)

	req.Len(data.NftTransfers, 1)
	tr := data.NftTransfers[0]
	req.Equal(domain.TokenType721, tr.Kind)
	req.Equal(domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369"), tr.From)
	req.Equal(domain.Address("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"), tr.To)
	req.Equal(domain.TokenId("42"), tr.TokenId)
	req.Equal("1", tr.Amount)
	req.Equal(meta.ContractAddress, tr.Contract)
}

func TestErc721HandlerApprovalForAll(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	owner := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	operator := ethcommon.HexToHash("0x0000000000000000000000001a01ecd2263a9d5b5967667e508ea22db478bc4b")

	for _, tc := range []struct {
		name     string
		flag     int64
		approved bool
	}{
		{name: "granted", flag: 1, approved: true},
		{name: "revoked", flag: 0, approved: false},
	} {
		data := exchange.NewOnChainData()
		err := NewErc721Handler().HandleEvents(c, []*exchange.EnhancedEvent{{
			Kind:    exchange.EventKindErc721,
			SubKind: "approval-for-all",
			ChainId: 1,
			Log: types.Log{
				Topics: []ethcommon.Hash{topic(sigApprovalForAll), owner, operator},
				Data:   u256Word(tc.flag),
			},
			Meta: domain.LogMeta{ContractAddress: "0xdcf0de6b17785a143d006e1515a6afd123cde8ba"},
		}}, data)
		req.NoError(err, tc.name)

		req.Len(data.ApprovalChanges, 1, tc.name)
		ch := data.ApprovalChanges[0]
		req.Equal(tc.approved, ch.Approved, tc.name)
		req.Equal(domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369"), ch.Owner)
		req.Equal(domain.Address("0x1a01ecd2263a9d5b5967667e508ea22db478bc4b"), ch.Operator)
		req.Empty(data.NftTransfers, tc.name)
	}
}

func TestErc1155HandlerTransferSingle(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	operator := ethcommon.HexToHash("0x0000000000000000000000001a01ecd2263a9d5b5967667e508ea22db478bc4b")
	from := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	to := ethcommon.HexToHash("0x000000000000000000000000df8650b0ca1260f7a2f4fdff9082aede554f65ad")

	payload := append(u256Word(7), u256Word(3)...)

	data := exchange.NewOnChainData()
	err := NewErc1155Handler().HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindErc1155,
		SubKind: "erc1155-transfer-single",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigTransferSingle), operator, from, to},
			Data:   payload,
		},
		Meta: domain.LogMeta{ContractAddress: "0x23c0221b2b66071afdcce502a103f18ec2666a12"},
	}}, data)
	req.NoError(err)

	req.Len(data.NftTransfers, 1)
	tr := data.NftTransfers[0]
	req.Equal(domain.TokenType1155, tr.Kind)
	req.Equal(domain.TokenId("7"), tr.TokenId)
	req.Equal("3", tr.Amount)
	req.Equal(domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369"), tr.From)
}

func TestErc1155HandlerTransferBatch(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	operator := ethcommon.HexToHash("0x0000000000000000000000001a01ecd2263a9d5b5967667e508ea22db478bc4b")
	from := ethcommon.HexToHash("0x000000000000000000000000ce4468e7ce84aceb74363f4ea64e5a038176f369")
	to := ethcommon.HexToHash("0x000000000000000000000000df8650b0ca1260f7a2f4fdff9082aede554f65ad")

	// abi layout: two offsets, then [len, ids...] and [len, amounts...]
	payload := []byte{}
	payload = append(payload, u256Word(64)...)
	payload = append(payload, u256Word(160)...)
	payload = append(payload, u256Word(2)...)
	payload = append(payload, u256Word(10)...)
	payload = append(payload, u256Word(11)...)
	payload = append(payload, u256Word(2)...)
	payload = append(payload, u256Word(5)...)
	payload = append(payload, u256Word(6)...)

	data := exchange.NewOnChainData()
	err := NewErc1155Handler().HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindErc1155,
		SubKind: "erc1155-transfer-batch",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigTransferBatch), operator, from, to},
			Data:   payload,
		},
		Meta: domain.LogMeta{ContractAddress: "0x23c0221b2b66071afdcce502a103f18ec2666a12", LogIndex: 9},
	}}, data)
	req.NoError(err)

	req.Len(data.NftTransfers, 2)
	req.Equal(domain.TokenId("10"), data.NftTransfers[0].TokenId)
	req.Equal("5", data.NftTransfers[0].Amount)
	req.Equal(domain.TokenId("11"), data.NftTransfers[1].TokenId)
	req.Equal("6", data.NftTransfers[1].Amount)

	// each decoded movement keeps its own batch index
	req.Equal(uint(0), data.NftTransfers[0].Meta.BatchIndex)
	req.Equal(uint(1), data.NftTransfers[1].Meta.BatchIndex)
	req.Equal(uint(9), data.NftTransfers[1].Meta.LogIndex)
}

func TestErc1155HandlerMalformedPayload(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	operator := ethcommon.HexToHash("0x01")
	from := ethcommon.HexToHash("0x02")
	to := ethcommon.HexToHash("0x03")

	data := exchange.NewOnChainData()
	err := NewErc1155Handler().HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindErc1155,
		SubKind: "erc1155-transfer-single",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigTransferSingle), operator, from, to},
			Data:   u256Word(7),
		},
	}}, data)
	req.NoError(err)
	req.Empty(data.NftTransfers)
}
