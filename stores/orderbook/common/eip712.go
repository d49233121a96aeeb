package common

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/domain"
)

var eip712DomainTypeHash = TypeHash("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)")

// TypeHash hashes an eip-712 type string
func TypeHash(typeString string) []byte {
	return crypto.Keccak256([]byte(typeString))
}

// Word abi-encodes one value into its 32 byte word
func Word(f interface{}) []byte {
	return packField(f)
}

// Bytes32Word decodes an optional 0x-prefixed bytes32 field, empty means
// the zero word
func Bytes32Word(v string) []byte {
	if v == "" {
		return make([]byte, 32)
	}
	return ethcommon.LeftPadBytes(ethcommon.FromHex(strings.ToLower(v)), 32)
}

// StructHash hashes the type hash followed by the encoded member words,
// per eip-712 hashStruct
func StructHash(typeHash []byte, words ...[]byte) []byte {
	data := make([]byte, 0, 32*(len(words)+1))
	data = append(data, typeHash...)
	for _, w := range words {
		data = append(data, w...)
	}
	return crypto.Keccak256(data)
}

// WordArrayHash hashes a dynamic array member from its encoded element
// words
func WordArrayHash(words ...[]byte) []byte {
	data := make([]byte, 0, 32*len(words))
	for _, w := range words {
		data = append(data, w...)
	}
	return crypto.Keccak256(data)
}

// DomainSeparator derives the eip-712 domain separator of an exchange
// deployment
func DomainSeparator(name, version string, chainId domain.ChainId, verifyingContract domain.Address) []byte {
	return StructHash(eip712DomainTypeHash,
		crypto.Keccak256([]byte(name)),
		crypto.Keccak256([]byte(version)),
		Word(int64(chainId)),
		Word(verifyingContract),
	)
}

// TypedDataDigest is the final eip-712 signing digest over the domain
// separator and the primary struct hash
func TypedDataDigest(domainSeparator, structHash []byte) []byte {
	data := make([]byte, 0, 2+len(domainSeparator)+len(structHash))
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator...)
	data = append(data, structHash...)
	return crypto.Keccak256(data)
}

// VerifyTypedSignature checks the eip-712 signature over the struct hash
// was produced by the maker
func VerifyTypedSignature(domainSeparator, structHash, sig []byte, maker domain.Address) error {
	signer, err := recoverAddress(TypedDataDigest(domainSeparator, structHash), sig)
	if err != nil {
		return err
	}
	if !signer.Equals(maker) {
		return ErrInvalidSignature
	}
	return nil
}
