// Package rediscache wraps another metadata.Oracle with a Redis-backed
// cache, so repeated TypeOf lookups against the same table/column avoid
// round-tripping to the underlying catalog on every call.
package rediscache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sqlmv/rewriter/engine/metadata"
)

// CachingOracle answers TypeOf from a Redis hash per column, falling
// back to Next and populating the cache on a miss.
type CachingOracle struct {
	rdb    *redis.Client
	next   metadata.Oracle
	prefix string
}

// New builds a CachingOracle. prefix namespaces its keys, letting
// multiple catalogs share one Redis instance.
func New(rdb *redis.Client, next metadata.Oracle, prefix string) *CachingOracle {
	if prefix == "" {
		prefix = "mvrewrite:coltype"
	}
	return &CachingOracle{rdb: rdb, next: next, prefix: prefix}
}

func (c *CachingOracle) key(table, column string) string {
	return fmt.Sprintf("%s:%s", c.prefix, metadata.Key(table, column))
}

func (c *CachingOracle) TypeOf(ctx context.Context, table, column string) (metadata.ColumnType, error) {
	key := c.key(table, column)
	hash, err := c.rdb.HGetAll(ctx, key).Result()
	if err == nil && len(hash) > 0 {
		ct, ok := decodeColumnType(hash)
		if ok {
			return ct, nil
		}
	}

	ct, err := c.next.TypeOf(ctx, table, column)
	if err != nil {
		return metadata.ColumnType{}, err
	}

	c.rdb.HSet(ctx, key, encodeColumnType(ct))
	return ct, nil
}

func encodeColumnType(ct metadata.ColumnType) map[string]any {
	return map[string]any{
		"kind":   int(ct.Kind),
		"strlen": ct.StrLen,
	}
}

func decodeColumnType(hash map[string]string) (metadata.ColumnType, bool) {
	kindStr, ok := hash["kind"]
	if !ok {
		return metadata.ColumnType{}, false
	}
	kind, err := strconv.Atoi(kindStr)
	if err != nil {
		return metadata.ColumnType{}, false
	}
	strLen, _ := strconv.Atoi(strings.TrimSpace(hash["strlen"]))
	return metadata.ColumnType{Kind: metadata.SQLType(kind), StrLen: strLen}, true
}
