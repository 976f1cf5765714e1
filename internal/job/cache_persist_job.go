package job

import (
	"context"

	"github.com/searchapi/prodsearch/internal/embedcache"
)

// CachePersistJob flushes the embedding cache to durable storage whenever
// search-time misses have dirtied it since the last write.
type CachePersistJob struct {
	cache *embedcache.Cache
}

func NewCachePersistJob(cache *embedcache.Cache) *CachePersistJob {
	return &CachePersistJob{cache: cache}
}

func (j *CachePersistJob) Name() string {
	return "cache_persist"
}

func (j *CachePersistJob) Run(ctx context.Context) error {
	if j.cache == nil || !j.cache.Dirty() {
		return nil
	}
	return j.cache.Persist(ctx)
}
