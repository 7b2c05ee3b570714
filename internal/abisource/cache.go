package abisource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps fetched interfaces across runs so repeated scans skip the
// explorer. Cache failures are logged and fall through to the wrapped source.
type RedisCache struct {
	client  *redis.Client
	source  Source
	chainID int64
	ttl     time.Duration
	logger  *slog.Logger
}

// NewRedisCache wraps source with a read-through cache.
func NewRedisCache(client *redis.Client, source Source, chainID int64, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client:  client,
		source:  source,
		chainID: chainID,
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *RedisCache) key(address common.Address) string {
	return fmt.Sprintf("udscan:abi:%d:%s", c.chainID, strings.ToLower(address.Hex()))
}

// FetchABI returns the cached interface, or fetches and stores it.
func (c *RedisCache) FetchABI(ctx context.Context, address common.Address) (string, error) {
	key := c.key(address)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		c.logger.DebugContext(ctx, "contract interface cache hit", "address", address.Hex())
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "contract interface cache read failed", "error", err)
	}

	abiJSON, err := c.source.FetchABI(ctx, address)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, abiJSON, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "contract interface cache write failed", "error", err)
	}
	return abiJSON, nil
}
