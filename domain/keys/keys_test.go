package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMD5(t *testing.T) {
	req := require.New(t)
	req.Equal("d41d8cd98f00b204e9800998ecf8427e", MD5(""))
	req.Equal("acbd18db4cc2f85cedef654fccc4a4d8", MD5("foo"))
	req.Equal(MD5("filled-0xabc-0xdef"), MD5("filled-0xabc-0xdef"))
	req.NotEqual(MD5("filled-0xabc-0xdef"), MD5("filled-0xabc-0xde0"))
}

func TestRedisKey(t *testing.T) {
	req := require.New(t)
	req.Equal("jobqueue:orderbook-orders", RedisKey(PfxJobQueue, "orderbook-orders"))
	req.Equal("filled:0xabc:1:0", RedisKey("filled", "0xabc", "1", "0"))
	req.Equal("single", RedisKey("single"))
}

func TestCustomKey(t *testing.T) {
	require.Equal(t, "a-b-c", CustomKey("-", "a", "b", "c"))
}
