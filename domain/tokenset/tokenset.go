package tokenset

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/domain"
)

type Kind string

const (
	KindSingleToken  Kind = "single-token"
	KindContractWide Kind = "contract-wide"
	KindTokenRange   Kind = "token-range"
	KindTokenList    Kind = "token-list"
)

// TokenSet describes a criteria of tokens an order can be filled against.
// Ids are deterministic so the same criteria always resolves to the same
// set regardless of which order created it first.
type TokenSet struct {
	ChainId    domain.ChainId    `json:"chainId" bson:"chainId"`
	Id         domain.TokenSetId `json:"id" bson:"id"`
	SchemaHash string            `json:"schemaHash" bson:"schemaHash"`
	Kind       Kind              `json:"kind" bson:"kind"`
	Contract   domain.Address    `json:"contract" bson:"contract"`
	TokenId    *domain.TokenId   `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	StartId    *domain.TokenId   `json:"startId,omitempty" bson:"startId,omitempty"`
	EndId      *domain.TokenId   `json:"endId,omitempty" bson:"endId,omitempty"`
	MerkleRoot string            `json:"merkleRoot,omitempty" bson:"merkleRoot,omitempty"`
	// enumerated membership for token-list sets
	TokenIds  []domain.TokenId `json:"tokenIds,omitempty" bson:"tokenIds,omitempty"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
}

func SingleTokenId(contract domain.Address, tokenId domain.TokenId) domain.TokenSetId {
	return domain.TokenSetId(fmt.Sprintf("token:%s:%s", contract.ToLower(), tokenId))
}

func ContractWideId(contract domain.Address) domain.TokenSetId {
	return domain.TokenSetId(fmt.Sprintf("contract:%s", contract.ToLower()))
}

func TokenRangeId(contract domain.Address, startId, endId domain.TokenId) domain.TokenSetId {
	return domain.TokenSetId(fmt.Sprintf("range:%s:%s:%s", contract.ToLower(), startId, endId))
}

func TokenListId(contract domain.Address, merkleRoot string) domain.TokenSetId {
	return domain.TokenSetId(fmt.Sprintf("list:%s:%s", contract.ToLower(), merkleRoot))
}

// ContractOf extracts the contract out of a token set id
func ContractOf(id domain.TokenSetId) (domain.Address, error) {
	parts := strings.Split(string(id), ":")
	if len(parts) < 2 {
		return "", domain.ErrBadParamInput
	}
	switch parts[0] {
	case "token", "contract", "range", "list":
		return domain.Address(parts[1]).ToLower(), nil
	}
	return "", domain.ErrBadParamInput
}

// Validate checks the id matches the set's own definition
func (ts *TokenSet) Validate() error {
	switch ts.Kind {
	case KindSingleToken:
		if ts.TokenId == nil || SingleTokenId(ts.Contract, *ts.TokenId) != ts.Id {
			return domain.ErrBadParamInput
		}
	case KindContractWide:
		if ContractWideId(ts.Contract) != ts.Id {
			return domain.ErrBadParamInput
		}
	case KindTokenRange:
		if ts.StartId == nil || ts.EndId == nil || TokenRangeId(ts.Contract, *ts.StartId, *ts.EndId) != ts.Id {
			return domain.ErrBadParamInput
		}
		start, err := ts.StartId.ToBigInt()
		if err != nil {
			return err
		}
		end, err := ts.EndId.ToBigInt()
		if err != nil {
			return err
		}
		if start.Cmp(end) > 0 {
			return domain.ErrBadParamInput
		}
	case KindTokenList:
		if ts.MerkleRoot == "" || TokenListId(ts.Contract, ts.MerkleRoot) != ts.Id {
			return domain.ErrBadParamInput
		}
	default:
		return domain.ErrBadParamInput
	}
	return nil
}

// Contains reports whether the set covers the given token
func (ts *TokenSet) Contains(contract domain.Address, tokenId domain.TokenId) bool {
	if !ts.Contract.Equals(contract) {
		return false
	}
	switch ts.Kind {
	case KindSingleToken:
		return ts.TokenId != nil && *ts.TokenId == tokenId
	case KindContractWide:
		return true
	case KindTokenRange:
		id, err := tokenId.ToBigInt()
		if err != nil {
			return false
		}
		start, err := ts.StartId.ToBigInt()
		if err != nil {
			return false
		}
		end, err := ts.EndId.ToBigInt()
		if err != nil {
			return false
		}
		return id.Cmp(start) >= 0 && id.Cmp(end) <= 0
	case KindTokenList:
		for _, t := range ts.TokenIds {
			if t == tokenId {
				return true
			}
		}
		return false
	}
	return false
}

// RangeSize returns the number of tokens covered by a token-range set
func (ts *TokenSet) RangeSize() (*big.Int, error) {
	if ts.Kind != KindTokenRange {
		return nil, domain.ErrBadParamInput
	}
	start, err := ts.StartId.ToBigInt()
	if err != nil {
		return nil, err
	}
	end, err := ts.EndId.ToBigInt()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(new(big.Int).Sub(end, start), domain.Big1), nil
}

type Id struct {
	ChainId domain.ChainId    `json:"chainId" bson:"chainId"`
	Id      domain.TokenSetId `json:"id" bson:"id"`
}

func (ts *TokenSet) ToId() Id {
	return Id{
		ChainId: ts.ChainId,
		Id:      ts.Id,
	}
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id Id) (*TokenSet, error)
	Upsert(ctx ctx.Ctx, tokenSet *TokenSet) error
}

type UseCase interface {
	// Save validates and persists the given sets, returning the ones
	// actually stored. Malformed sets are skipped.
	Save(ctx ctx.Ctx, tokenSets []*TokenSet) ([]*TokenSet, error)
	Get(ctx ctx.Ctx, id Id) (*TokenSet, error)
}
