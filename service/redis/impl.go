package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/metrics"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New redis service backed by one pool
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	defer r.met.BumpTime("command.time", "cluster", r.name, "command", commandName).End()
	reply, err := conn.Do(commandName, args...)
	if err != nil {
		r.met.BumpSum("command.err", 1, "cluster", r.name, "command", commandName)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	reply, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	return reply, err
}

func (r *redImpl) Set(context ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	var err error
	if ttl > 0 {
		_, err = r.connDo(context, "SET", key, value, "PX", int64(ttl/time.Millisecond))
	} else {
		_, err = r.connDo(context, "SET", key, value)
	}
	return err
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, value []byte, ttl time.Duration) (bool, error) {
	var reply interface{}
	var err error
	if ttl > 0 {
		reply, err = r.connDo(context, "SET", key, value, "PX", int64(ttl/time.Millisecond), "NX")
	} else {
		reply, err = r.connDo(context, "SET", key, value, "NX")
	}
	if err != nil {
		return false, err
	}
	return reply != nil, nil
}

func (r *redImpl) Del(context ctx.Ctx, keys ...string) (int64, error) {
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return redis.Int64(r.connDo(context, "DEL", args...))
}

func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	return redis.Bool(r.connDo(context, "EXISTS", key))
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int64, error) {
	ttl, err := redis.Int64(r.connDo(context, "TTL", key))
	if err != nil {
		return 0, err
	}
	if ttl == retTTLNoKey {
		return 0, ErrNotFound
	}
	return ttl, nil
}

func (r *redImpl) Incrby(context ctx.Ctx, key string, diff int) (int64, error) {
	return redis.Int64(r.connDo(context, "INCRBY", key, diff))
}

func (r *redImpl) LPush(context ctx.Ctx, key string, values ...[]byte) error {
	args := make([]interface{}, 0, len(values)+1)
	args = append(args, key)
	for _, v := range values {
		args = append(args, v)
	}
	_, err := r.connDo(context, "LPUSH", args...)
	return err
}

func (r *redImpl) RPop(context ctx.Ctx, key string) ([]byte, error) {
	reply, err := redis.Bytes(r.connDo(context, "RPOP", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	return reply, err
}

func (r *redImpl) ZAdd(context ctx.Ctx, key string, score float64, member []byte) error {
	_, err := r.connDo(context, "ZADD", key, score, member)
	return err
}

func (r *redImpl) ZRangeByScore(context ctx.Ctx, key string, min, max float64, limit int) ([][]byte, error) {
	reply, err := redis.ByteSlices(r.connDo(context, "ZRANGEBYSCORE", key, min, max, "LIMIT", 0, limit))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	return reply, err
}

func (r *redImpl) ZRem(context ctx.Ctx, key string, member []byte) error {
	_, err := r.connDo(context, "ZREM", key, member)
	return err
}
