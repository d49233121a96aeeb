package tokenset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floorbook/goapi/domain"
)

func tokenIdPtr(id string) *domain.TokenId {
	t := domain.TokenId(id)
	return &t
}

func TestValidate(t *testing.T) {
	req := require.New(t)
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")

	cases := []struct {
		name    string
		set     TokenSet
		wantErr bool
	}{
		{
			name: "single token",
			set: TokenSet{
				Id:       SingleTokenId(contract, "123"),
				Kind:     KindSingleToken,
				Contract: contract,
				TokenId:  tokenIdPtr("123"),
			},
		},
		{
			name: "single token with mismatched id",
			set: TokenSet{
				Id:       SingleTokenId(contract, "124"),
				Kind:     KindSingleToken,
				Contract: contract,
				TokenId:  tokenIdPtr("123"),
			},
			wantErr: true,
		},
		{
			name: "single token missing token id",
			set: TokenSet{
				Id:       SingleTokenId(contract, "123"),
				Kind:     KindSingleToken,
				Contract: contract,
			},
			wantErr: true,
		},
		{
			name: "contract wide",
			set: TokenSet{
				Id:       ContractWideId(contract),
				Kind:     KindContractWide,
				Contract: contract,
			},
		},
		{
			name: "token range",
			set: TokenSet{
				Id:       TokenRangeId(contract, "10", "20"),
				Kind:     KindTokenRange,
				Contract: contract,
				StartId:  tokenIdPtr("10"),
				EndId:    tokenIdPtr("20"),
			},
		},
		{
			name: "token range with inverted bounds",
			set: TokenSet{
				Id:       TokenRangeId(contract, "20", "10"),
				Kind:     KindTokenRange,
				Contract: contract,
				StartId:  tokenIdPtr("20"),
				EndId:    tokenIdPtr("10"),
			},
			wantErr: true,
		},
		{
			name: "token list",
			set: TokenSet{
				Id:         TokenListId(contract, "0xdeadbeef"),
				Kind:       KindTokenList,
				Contract:   contract,
				MerkleRoot: "0xdeadbeef",
				TokenIds:   []domain.TokenId{"1", "2", "3"},
			},
		},
		{
			name: "token list without merkle root",
			set: TokenSet{
				Id:       TokenListId(contract, ""),
				Kind:     KindTokenList,
				Contract: contract,
				TokenIds: []domain.TokenId{"1"},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			set: TokenSet{
				Id:       ContractWideId(contract),
				Kind:     Kind("bogus"),
				Contract: contract,
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		err := c.set.Validate()
		if c.wantErr {
			req.Error(err, c.name)
		} else {
			req.NoError(err, c.name)
		}
	}
}

func TestIdsAreCaseInsensitive(t *testing.T) {
	req := require.New(t)
	lower := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	mixed := domain.Address("0xDCf0dE6b17785A143d006E1515A6afd123CDE8Ba")

	req.Equal(SingleTokenId(lower, "1"), SingleTokenId(mixed, "1"))
	req.Equal(ContractWideId(lower), ContractWideId(mixed))
	req.Equal(TokenRangeId(lower, "1", "2"), TokenRangeId(mixed, "1", "2"))
	req.Equal(TokenListId(lower, "0xroot"), TokenListId(mixed, "0xroot"))
}

func TestContractOf(t *testing.T) {
	req := require.New(t)
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")

	for _, id := range []domain.TokenSetId{
		SingleTokenId(contract, "1"),
		ContractWideId(contract),
		TokenRangeId(contract, "1", "2"),
		TokenListId(contract, "0xroot"),
	} {
		got, err := ContractOf(id)
		req.NoError(err)
		req.Equal(contract, got)
	}

	_, err := ContractOf("bogus")
	req.Error(err)
	_, err = ContractOf("bogus:0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	req.Error(err)
}

func TestContains(t *testing.T) {
	req := require.New(t)
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")
	other := domain.Address("0x23c0221b2b66071afdcce502a103f18ec2666a12")

	single := TokenSet{
		Id:       SingleTokenId(contract, "5"),
		Kind:     KindSingleToken,
		Contract: contract,
		TokenId:  tokenIdPtr("5"),
	}
	req.True(single.Contains(contract, "5"))
	req.False(single.Contains(contract, "6"))
	req.False(single.Contains(other, "5"))

	wide := TokenSet{
		Id:       ContractWideId(contract),
		Kind:     KindContractWide,
		Contract: contract,
	}
	req.True(wide.Contains(contract, "5"))
	req.True(wide.Contains(contract, "99999999999999999999999999"))
	req.False(wide.Contains(other, "5"))

	rng := TokenSet{
		Id:       TokenRangeId(contract, "10", "20"),
		Kind:     KindTokenRange,
		Contract: contract,
		StartId:  tokenIdPtr("10"),
		EndId:    tokenIdPtr("20"),
	}
	req.True(rng.Contains(contract, "10"))
	req.True(rng.Contains(contract, "15"))
	req.True(rng.Contains(contract, "20"))
	req.False(rng.Contains(contract, "9"))
	req.False(rng.Contains(contract, "21"))
	req.False(rng.Contains(contract, "not-a-number"))

	list := TokenSet{
		Id:         TokenListId(contract, "0xroot"),
		Kind:       KindTokenList,
		Contract:   contract,
		MerkleRoot: "0xroot",
		TokenIds:   []domain.TokenId{"1", "3", "5"},
	}
	req.True(list.Contains(contract, "3"))
	req.False(list.Contains(contract, "2"))
}

func TestRangeSize(t *testing.T) {
	req := require.New(t)
	contract := domain.Address("0xdcf0de6b17785a143d006e1515a6afd123cde8ba")

	rng := TokenSet{
		Id:       TokenRangeId(contract, "10", "20"),
		Kind:     KindTokenRange,
		Contract: contract,
		StartId:  tokenIdPtr("10"),
		EndId:    tokenIdPtr("20"),
	}
	size, err := rng.RangeSize()
	req.NoError(err)
	req.Equal("11", size.String())

	wide := TokenSet{
		Id:       ContractWideId(contract),
		Kind:     KindContractWide,
		Contract: contract,
	}
	_, err = wide.RangeSize()
	req.Error(err)
}
