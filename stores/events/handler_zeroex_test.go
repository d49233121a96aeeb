package events

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/exchange"
	"github.com/floorbook/goapi/domain/order"
	mOrder "github.com/floorbook/goapi/domain/order/mocks"
)

func addrWord(addr string) []byte {
	return ethcommon.LeftPadBytes(ethcommon.HexToAddress(addr).Bytes(), 32)
}

func TestZeroExHandlerErc721Fill(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	maker := "0xce4468e7ce84aceb74363f4ea64e5a038176f369"
	taker := "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"
	nft := "0xdcf0de6b17785a143d006e1515a6afd123cde8ba"
	weth := "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6"

	payload := []byte{}
	payload = append(payload, u256Word(0)...) // sell direction
	payload = append(payload, addrWord(maker)...)
	payload = append(payload, addrWord(taker)...)
	payload = append(payload, u256Word(77)...) // nonce
	payload = append(payload, addrWord(weth)...)
	payload = append(payload, ethcommon.BigToHash(big.NewInt(1500000000000000000)).Bytes()...)
	payload = append(payload, addrWord(nft)...)
	payload = append(payload, u256Word(42)...)

	orderRepo := mOrder.NewRepo(t)
	orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*order.Order{
		{ChainId: 1, Id: "0xstored", Maker: domain.Address(maker), Nonce: "77"},
	}, nil)

	data := exchange.NewOnChainData()
	err := NewZeroExV4Handler(orderRepo).HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindZeroExV4,
		SubKind: "zeroex-v4-erc721-order-filled",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigZeroExErc721OrderFilled)},
			Data:   payload,
		},
		Meta: domain.LogMeta{TxHash: "0xtx", LogIndex: 3},
	}}, data)
	req.NoError(err)

	req.Len(data.FillEvents, 1)
	fe := data.FillEvents[0]
	req.Equal(order.KindZeroExV4, fe.OrderKind)
	req.Equal(domain.OrderHash("0xstored"), fe.OrderId)
	req.Equal(order.SideSell, fe.OrderSide)
	req.Equal(domain.Address(maker), fe.Maker)
	req.Equal(domain.Address(taker), fe.Taker)
	req.Equal(domain.Address(nft), fe.Contract)
	req.Equal(domain.TokenId("42"), fe.TokenId)
	req.Equal("1", fe.Amount)
	req.Equal(domain.Address(weth), fe.Currency)
	req.Equal("1500000000000000000", fe.CurrencyPrice)
}

func TestZeroExHandlerErc1155FillAmountAndNativeCurrency(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	maker := "0xce4468e7ce84aceb74363f4ea64e5a038176f369"

	payload := []byte{}
	payload = append(payload, u256Word(1)...) // buy direction
	payload = append(payload, addrWord(maker)...)
	payload = append(payload, addrWord("0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")...)
	payload = append(payload, u256Word(9)...)
	payload = append(payload, addrWord("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")...)
	payload = append(payload, u256Word(1000)...)
	payload = append(payload, addrWord("0x23c0221b2b66071afdcce502a103f18ec2666a12")...)
	payload = append(payload, u256Word(7)...)
	payload = append(payload, u256Word(5)...) // fill amount

	orderRepo := mOrder.NewRepo(t)
	orderRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*order.Order{}, nil)

	data := exchange.NewOnChainData()
	err := NewZeroExV4Handler(orderRepo).HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindZeroExV4,
		SubKind: "zeroex-v4-erc1155-order-filled",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigZeroExErc1155OrderFilled)},
			Data:   payload,
		},
	}}, data)
	req.NoError(err)

	req.Len(data.FillEvents, 1)
	fe := data.FillEvents[0]
	// fills of never-ingested orders still record, without an order id
	req.Equal(domain.OrderHash(""), fe.OrderId)
	req.Equal(order.SideBuy, fe.OrderSide)
	req.Equal("5", fe.Amount)
	req.Equal(domain.NativeAddress, fe.Currency)
}

func TestZeroExHandlerNonceCancel(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	maker := "0xce4468e7ce84aceb74363f4ea64e5a038176f369"
	payload := append(addrWord(maker), u256Word(55)...)

	data := exchange.NewOnChainData()
	err := NewZeroExV4Handler(mOrder.NewRepo(t)).HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindZeroExV4,
		SubKind: "zeroex-v4-erc721-order-cancelled",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigZeroExErc721OrderCancelled)},
			Data:   payload,
		},
	}}, data)
	req.NoError(err)

	req.Len(data.NonceCancelEvents, 1)
	ev := data.NonceCancelEvents[0]
	req.Equal(domain.Address(maker), ev.Maker)
	req.Equal("55", ev.Nonce)
	req.Equal(order.KindZeroExV4, ev.OrderKind)
}

func TestZeroExHandlerTruncatedPayload(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	data := exchange.NewOnChainData()
	err := NewZeroExV4Handler(mOrder.NewRepo(t)).HandleEvents(c, []*exchange.EnhancedEvent{{
		Kind:    exchange.EventKindZeroExV4,
		SubKind: "zeroex-v4-erc721-order-filled",
		ChainId: 1,
		Log: types.Log{
			Topics: []ethcommon.Hash{topic(sigZeroExErc721OrderFilled)},
			Data:   u256Word(0),
		},
	}}, data)
	req.NoError(err)
	req.Empty(data.FillEvents)
}
