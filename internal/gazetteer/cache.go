package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geonames/csc-resolver/app/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheStats mirrors the teacher's ICacheService stats shape, adapted
// from an address-parse cache to a gazetteer-lookup cache.
type CacheStats struct {
	L1Hits   int64
	L1Misses int64
	L2Hits   int64
	L2Misses int64
}

// CachedIndex wraps any Index with an L1 in-process LRU
// (hashicorp/golang-lru) and an optional L2 shared Redis cache, the
// same two-tier layering the teacher's hybrid_cache_service.go applies
// to address-parse results — generalized here to gazetteer Find/Count
// results. Because the wrapped gazetteer is immutable between builds
// (§3 Lifecycles), entries never need invalidation: only bounded LRU
// eviction by size, and an optional Redis TTL as a memory backstop for
// the shared tier.
type CachedIndex struct {
	backing Index
	l1      *lru.Cache[string, []models.Record]
	l2      *redis.Client
	l2TTL   time.Duration
	logger  *zap.Logger
	stats   CacheStats
}

// cacheRecord is the JSON-serializable shape a Record is flattened to
// for the Redis L2 tier; it carries just enough fields for the
// resolver to re-hydrate a usable Record without needing the original
// concrete type back (gid/population/name/countryCode are all the
// resolver statistics depend on downstream of a cache hit).
type cacheRecord struct {
	GID         int64  `json:"gid"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Population  int64  `json:"population"`
}

func (c *cacheRecord) GazID() int64 { return c.GID }
func (c *cacheRecord) Pop() int64   { return c.Population }

func NewCachedIndex(backing Index, l1Size int, l2 *redis.Client, l2TTL time.Duration, logger *zap.Logger) (*CachedIndex, error) {
	l1, err := lru.New[string, []models.Record](l1Size)
	if err != nil {
		return nil, fmt.Errorf("gazetteer: constructing L1 cache: %w", err)
	}
	return &CachedIndex{backing: backing, l1: l1, l2: l2, l2TTL: l2TTL, logger: logger}, nil
}

func (c *CachedIndex) Version(ctx context.Context) (string, error) { return c.backing.Version(ctx) }

func (c *CachedIndex) Get(ctx context.Context, collection models.Collection, gid int64) (models.Record, error) {
	return c.backing.Get(ctx, collection, gid)
}

func (c *CachedIndex) Find(ctx context.Context, collection models.Collection, q Query) ([]models.Record, error) {
	key := cacheKey(collection, q)

	if records, ok := c.l1.Get(key); ok {
		c.stats.L1Hits++
		return records, nil
	}
	c.stats.L1Misses++

	if c.l2 != nil {
		if records, ok := c.getL2(ctx, key); ok {
			c.stats.L2Hits++
			c.l1.Add(key, records)
			return records, nil
		}
		c.stats.L2Misses++
	}

	records, err := c.backing.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	c.l1.Add(key, records)
	if c.l2 != nil {
		c.setL2(ctx, key, records)
	}
	return records, nil
}

func (c *CachedIndex) Count(ctx context.Context, collection models.Collection, q Query) (int, error) {
	records, err := c.Find(ctx, collection, q)
	return len(records), err
}

func (c *CachedIndex) Stats() CacheStats { return c.stats }

func cacheKey(collection models.Collection, q Query) string {
	return fmt.Sprintf("gaz:%s:%s:%s:%s:%s:%s:%s:%s:%s:%s:%s",
		collection, q.CountryCode, q.ISO, q.ISO3, q.Admin1, q.Names, q.Admin1Names, q.Admin2Names, q.Abbr, q.Lang, q.NamesLang)
}

func (c *CachedIndex) getL2(ctx context.Context, key string) ([]models.Record, bool) {
	raw, err := c.l2.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("gazetteer L2 cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var flattened []cacheRecord
	if err := json.Unmarshal(raw, &flattened); err != nil {
		return nil, false
	}
	out := make([]models.Record, len(flattened))
	for i := range flattened {
		out[i] = &flattened[i]
	}
	return out, true
}

func (c *CachedIndex) setL2(ctx context.Context, key string, records []models.Record) {
	flattened := make([]cacheRecord, len(records))
	for i, r := range records {
		flattened[i] = cacheRecord{GID: r.GazID(), Population: r.Pop()}
		if base, ok := baseOf(r); ok {
			flattened[i].Name = base.Name
			flattened[i].CountryCode = base.CountryCode
		}
	}
	raw, err := json.Marshal(flattened)
	if err != nil {
		return
	}
	if err := c.l2.Set(ctx, key, raw, c.l2TTL).Err(); err != nil && c.logger != nil {
		c.logger.Warn("gazetteer L2 cache write failed", zap.String("key", key), zap.Error(err))
	}
}
