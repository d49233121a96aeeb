package redis

import (
	"errors"
	"time"

	"github.com/floorbook/goapi/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
)

// Service wraps the redis commands the repo relies on
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, value []byte, ttl time.Duration) error
	// SetNX sets the key only when absent, returns whether it was set
	SetNX(context ctx.Ctx, key string, value []byte, ttl time.Duration) (bool, error)
	Del(context ctx.Ctx, keys ...string) (int64, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	TTL(context ctx.Ctx, key string) (int64, error)
	Incrby(context ctx.Ctx, key string, diff int) (int64, error)

	LPush(context ctx.Ctx, key string, values ...[]byte) error
	// RPop returns ErrNotFound when the list is empty
	RPop(context ctx.Ctx, key string) ([]byte, error)

	ZAdd(context ctx.Ctx, key string, score float64, member []byte) error
	ZRangeByScore(context ctx.Ctx, key string, min, max float64, limit int) ([][]byte, error)
	ZRem(context ctx.Ctx, key string, member []byte) error
}
