package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

const erc20AbiJson = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

const erc721AbiJson = `[
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"interfaceId","type":"bytes4"}],"name":"supportsInterface","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

const erc1155AbiJson = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"id","type":"uint256"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"interfaceId","type":"bytes4"}],"name":"supportsInterface","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

var (
	erc20Abi   abi.ABI
	erc721Abi  abi.ABI
	erc1155Abi abi.ABI

	// ERC-165 interface ids
	erc721InterfaceId  = [4]byte{0x80, 0xac, 0x58, 0xcd}
	erc1155InterfaceId = [4]byte{0xd9, 0xb6, 0x7a, 0x26}
)

func init() {
	mustParse := func(s string) abi.ABI {
		parsed, err := abi.JSON(strings.NewReader(s))
		if err != nil {
			panic(err)
		}
		return parsed
	}
	erc20Abi = mustParse(erc20AbiJson)
	erc721Abi = mustParse(erc721AbiJson)
	erc1155Abi = mustParse(erc1155AbiJson)
}

// Erc is the typed read surface over Client used by fillability checks
type Erc interface {
	Erc20BalanceOf(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address) (*big.Int, error)
	Erc20Allowance(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, spender domain.Address) (*big.Int, error)
	Erc20Decimals(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (uint8, error)
	Erc20Symbol(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (string, error)
	Erc20Name(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (string, error)
	Erc721OwnerOf(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, tokenId domain.TokenId) (domain.Address, error)
	Erc721IsApprovedForAll(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, operator domain.Address) (bool, error)
	Erc1155BalanceOf(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address, tokenId domain.TokenId) (*big.Int, error)
	Erc1155IsApprovedForAll(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, operator domain.Address) (bool, error)
	// ContractKind probes ERC-165 to classify the contract
	ContractKind(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (domain.TokenType, error)
}

type ercImpl struct {
	client Client
}

func NewErc(client Client) Erc {
	return &ercImpl{client: client}
}

func (e *ercImpl) Erc20BalanceOf(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address) (*big.Int, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc20Abi, "balanceOf", common.HexToAddress(string(owner)))
	if err != nil {
		return nil, err
	}
	return res[0].(*big.Int), nil
}

func (e *ercImpl) Erc20Allowance(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, spender domain.Address) (*big.Int, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc20Abi, "allowance", common.HexToAddress(string(owner)), common.HexToAddress(string(spender)))
	if err != nil {
		return nil, err
	}
	return res[0].(*big.Int), nil
}

func (e *ercImpl) Erc20Decimals(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (uint8, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc20Abi, "decimals")
	if err != nil {
		return 0, err
	}
	return res[0].(uint8), nil
}

func (e *ercImpl) Erc20Symbol(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (string, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc20Abi, "symbol")
	if err != nil {
		return "", err
	}
	return res[0].(string), nil
}

func (e *ercImpl) Erc20Name(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (string, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc20Abi, "name")
	if err != nil {
		return "", err
	}
	return res[0].(string), nil
}

func (e *ercImpl) Erc721OwnerOf(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, tokenId domain.TokenId) (domain.Address, error) {
	id, err := tokenId.ToBigInt()
	if err != nil {
		return "", err
	}
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc721Abi, "ownerOf", id)
	if err != nil {
		return "", err
	}
	return domain.Address(res[0].(common.Address).Hex()).ToLower(), nil
}

func (e *ercImpl) Erc721IsApprovedForAll(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, operator domain.Address) (bool, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc721Abi, "isApprovedForAll", common.HexToAddress(string(owner)), common.HexToAddress(string(operator)))
	if err != nil {
		return false, err
	}
	return res[0].(bool), nil
}

func (e *ercImpl) Erc1155BalanceOf(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address, tokenId domain.TokenId) (*big.Int, error) {
	id, err := tokenId.ToBigInt()
	if err != nil {
		return nil, err
	}
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc1155Abi, "balanceOf", common.HexToAddress(string(owner)), id)
	if err != nil {
		return nil, err
	}
	return res[0].(*big.Int), nil
}

func (e *ercImpl) Erc1155IsApprovedForAll(ctx bCtx.Ctx, chainId domain.ChainId, token, owner, operator domain.Address) (bool, error) {
	res, err := e.client.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, erc1155Abi, "isApprovedForAll", common.HexToAddress(string(owner)), common.HexToAddress(string(operator)))
	if err != nil {
		return false, err
	}
	return res[0].(bool), nil
}

func (e *ercImpl) ContractKind(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (domain.TokenType, error) {
	addr := common.HexToAddress(string(token))
	if res, err := e.client.Call(ctx, int32(chainId), addr, nil, erc721Abi, "supportsInterface", erc721InterfaceId); err == nil && res[0].(bool) {
		return domain.TokenType721, nil
	}
	if res, err := e.client.Call(ctx, int32(chainId), addr, nil, erc1155Abi, "supportsInterface", erc1155InterfaceId); err == nil && res[0].(bool) {
		return domain.TokenType1155, nil
	}
	return 0, domain.ErrNotFound
}
