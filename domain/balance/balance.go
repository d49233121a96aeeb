package balance

import (
	"math/big"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

// NftBalance is one owner's cached holding of one token. Erc721 rows
// carry "1" for the current owner and "0" for a previous one.
type NftBalance struct {
	ChainId   domain.ChainId `json:"chainId" bson:"chainId"`
	Contract  domain.Address `json:"contract" bson:"contract"`
	TokenId   domain.TokenId `json:"tokenId" bson:"tokenId"`
	Owner     domain.Address `json:"owner" bson:"owner"`
	Amount    string         `json:"amount" bson:"amount"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Id struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
	Owner    domain.Address `json:"owner" bson:"owner"`
}

func (b *NftBalance) ToId() Id {
	return Id{
		ChainId:  b.ChainId,
		Contract: b.Contract,
		TokenId:  b.TokenId,
		Owner:    b.Owner,
	}
}

// Approval caches one operator approval of an owner on a contract
type Approval struct {
	ChainId   domain.ChainId `json:"chainId" bson:"chainId"`
	Contract  domain.Address `json:"contract" bson:"contract"`
	Owner     domain.Address `json:"owner" bson:"owner"`
	Operator  domain.Address `json:"operator" bson:"operator"`
	Approved  bool           `json:"approved" bson:"approved"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type ApprovalId struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Contract domain.Address `json:"contract" bson:"contract"`
	Owner    domain.Address `json:"owner" bson:"owner"`
	Operator domain.Address `json:"operator" bson:"operator"`
}

func (a *Approval) ToId() ApprovalId {
	return ApprovalId{
		ChainId:  a.ChainId,
		Contract: a.Contract,
		Owner:    a.Owner,
		Operator: a.Operator,
	}
}

type Repo interface {
	FindBalance(ctx ctx.Ctx, id Id) (*NftBalance, error)
	UpsertBalance(ctx ctx.Ctx, balance *NftBalance) error
	FindApproval(ctx ctx.Ctx, id ApprovalId) (*Approval, error)
	UpsertApproval(ctx ctx.Ctx, approval *Approval) error
	// RemoveAllByOwner drops the owner's cached rows on the contract so
	// the next check reprobes the chain
	RemoveAllByOwner(ctx ctx.Ctx, chainId domain.ChainId, contract, owner domain.Address) error
}

// UseCase answers fillability questions from the cache, reprobing the
// chain when a row is missing or stale and writing the answer back
type UseCase interface {
	Erc721HasToken(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId, owner domain.Address) (bool, error)
	Erc1155Balance(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId, owner domain.Address) (*big.Int, error)
	Erc20Balance(ctx ctx.Ctx, chainId domain.ChainId, currency, owner domain.Address) (*big.Int, error)
	Erc20Allowance(ctx ctx.Ctx, chainId domain.ChainId, currency, owner, operator domain.Address) (*big.Int, error)
	IsApprovedForAll(ctx ctx.Ctx, chainId domain.ChainId, kind domain.TokenType, contract, owner, operator domain.Address) (bool, error)
	Invalidate(ctx ctx.Ctx, chainId domain.ChainId, contract, owner domain.Address) error
}
