package common

import (
	"math/big"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

// HashOrder derives the order id from the protocol's defining fields.
// Every field is padded to 32 bytes before hashing so the id is stable
// across formatting differences.
func HashOrder(kind order.Kind, fields ...interface{}) domain.OrderHash {
	data := []byte(kind)
	for _, f := range fields {
		data = append(data, packField(f)...)
	}
	return domain.OrderHash(crypto.Keccak256Hash(data).Hex()).ToLower()
}

func packField(f interface{}) []byte {
	switch v := f.(type) {
	case *big.Int:
		return math.U256Bytes(new(big.Int).Set(v))
	case string:
		if strings.HasPrefix(v, "0x") {
			return ethcommon.LeftPadBytes(ethcommon.FromHex(strings.ToLower(v)), 32)
		}
		if n, ok := new(big.Int).SetString(v, 10); ok {
			return math.U256Bytes(n)
		}
		return crypto.Keccak256([]byte(v))
	case domain.Address:
		return ethcommon.LeftPadBytes(ethcommon.HexToAddress(v.ToLowerStr()).Bytes(), 32)
	case domain.TokenId:
		if n, err := v.ToBigInt(); err == nil {
			return math.U256Bytes(n)
		}
		return crypto.Keccak256([]byte(v))
	case time.Time:
		return math.U256Bytes(big.NewInt(v.Unix()))
	case int64:
		return math.U256Bytes(big.NewInt(v))
	case uint64:
		return math.U256Bytes(new(big.Int).SetUint64(v))
	}
	return nil
}
