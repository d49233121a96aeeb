package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxJobQueue is used for prefixing job queue redis keys
	PfxJobQueue = "jobqueue"
	// PfxJobDedupe is used for prefixing job dedupe redis keys
	PfxJobDedupe = "jobdedupe"
	// PfxUsdPrice is used for prefixing usd price cache keys
	PfxUsdPrice = "usdprice"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}
