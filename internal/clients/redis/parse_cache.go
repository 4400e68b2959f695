package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/utils"
)

// ParseCache caches raw segmentation payloads keyed by source URL. It is an
// optimization only: both Get and Set absorb redis failures so a missing or
// broken cache never changes pipeline behavior.
type ParseCache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, payload []byte)
	Close() error
}

type parseCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewParseCache(log *logger.Logger) (ParseCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSec := utils.GetEnvAsInt("PARSE_CACHE_TTL_SECONDS", 3600, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &parseCache{
		log: log.With("service", "RedisParseCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func (c *parseCache) Get(ctx context.Context, url string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(url)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("parse cache get failed", "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *parseCache) Set(ctx context.Context, url string, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(url), payload, c.ttl).Err(); err != nil {
		c.log.Debug("parse cache set failed", "error", err)
	}
}

func (c *parseCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "parse:" + hex.EncodeToString(sum[:16])
}
