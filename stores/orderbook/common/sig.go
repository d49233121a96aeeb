package common

import (
	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/domain"
)

// recoverAddress recovers the signer of a 65 byte signature over the
// digest. The 65th byte accepts both the raw and the legacy 27/28
// recovery id.
func recoverAddress(digest []byte, sig []byte) (domain.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return "", ErrInvalidSignature
	}
	cpy := make([]byte, crypto.SignatureLength)
	copy(cpy, sig)
	if cpy[64] >= 27 {
		cpy[64] -= 27
	}

	pub, err := crypto.SigToPub(digest, cpy)
	if err != nil {
		return "", ErrInvalidSignature
	}
	return domain.Address(crypto.PubkeyToAddress(*pub).Hex()).ToLower(), nil
}

// RecoverSigner recovers the signer of an eth_sign style signature over
// the given order hash
func RecoverSigner(hash []byte, sig []byte) (domain.Address, error) {
	return recoverAddress(accounts.TextHash(hash), sig)
}

// VerifySignature checks the signature over the order hash was produced
// by the maker
func VerifySignature(hash domain.OrderHash, sig []byte, maker domain.Address) error {
	signer, err := RecoverSigner(ethcommon.FromHex(string(hash)), sig)
	if err != nil {
		return err
	}
	if !signer.Equals(maker) {
		return ErrInvalidSignature
	}
	return nil
}
