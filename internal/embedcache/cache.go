package embedcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/searchapi/prodsearch/internal/model"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
	"github.com/searchapi/prodsearch/internal/snapstore"
	"github.com/searchapi/prodsearch/internal/vector"
)

// Cache maps exact source text to its embedding vector. Keys are never
// normalized: case and whitespace are significant, matching the catalog's
// raw descriptions. Entries are never evicted within a process lifetime.
type Cache struct {
	dim     int
	store   snapstore.Store
	seedURL string

	mu      sync.RWMutex
	entries map[string][]float32
	dirty   bool

	// persistMu serializes store writes; lookups keep running off mu.
	persistMu sync.Mutex
}

func New(dim int, store snapstore.Store, seedURL string) *Cache {
	return &Cache{
		dim:     dim,
		store:   store,
		seedURL: seedURL,
		entries: make(map[string][]float32),
	}
}

// Get returns a copy of the cached vector for text, if present.
func (c *Cache) Get(text string) ([]float32, bool) {
	c.mu.RLock()
	cached, ok := c.entries[text]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneEmbedding(cached), true
}

// Put stores a copy of vec under text. Vectors failing validation are
// dropped, so a bad provider response can never poison the cache.
func (c *Cache) Put(text string, vec []float32) {
	if !vector.IsValid(vec, c.dim) {
		return
	}
	clone := cloneEmbedding(vec)
	c.mu.Lock()
	c.entries[text] = clone
	c.dirty = true
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Load populates the cache from the durable store, falling back to the
// remote seed URL when the store is empty or unreadable. Entries with a bad
// vector are skipped. Load never fails the process: on total failure the
// cache simply starts cold.
func (c *Cache) Load(ctx context.Context) {
	logger := logutil.GetLogger(ctx)
	entries, err := c.store.Load(ctx)
	seeded := false
	if err != nil || len(entries) == 0 {
		if err != nil && !errors.Is(err, snapstore.ErrNoSnapshot) {
			logger.Warn("load cache snapshot failed", zap.Error(err))
		}
		if c.seedURL == "" {
			return
		}
		entries, err = fetchSeed(ctx, c.seedURL)
		if err != nil {
			logger.Warn("load remote cache seed failed", zap.String("url", c.seedURL), zap.Error(err))
			return
		}
		seeded = true
	}

	admitted, skipped := 0, 0
	c.mu.Lock()
	for _, item := range entries {
		if !vector.IsValid(item.Embedding, c.dim) {
			skipped++
			continue
		}
		c.entries[item.Text] = cloneEmbedding(item.Embedding)
		admitted++
	}
	c.mu.Unlock()
	if skipped > 0 {
		logger.Warn("skipped invalid snapshot entries", zap.Int("skipped", skipped), zap.Int("dim", c.dim))
	}
	logger.Info("embedding cache loaded", zap.Int("entries", admitted), zap.Bool("seeded", seeded))

	// A seeded cache is persisted right away so the next start does not
	// depend on the remote source.
	if seeded && admitted > 0 {
		if err := c.Persist(ctx); err != nil {
			logger.Warn("persist seeded cache failed", zap.Error(err))
		}
	}
}

// Persist writes the full cache to the durable store. Concurrent Get/Put
// keep working while the store write is in flight.
func (c *Cache) Persist(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	snapshot := make([]model.EmbeddingEntry, 0, len(c.entries))
	for text, emb := range c.entries {
		snapshot = append(snapshot, model.EmbeddingEntry{Text: text, Embedding: emb})
	}
	c.dirty = false
	c.mu.Unlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	logutil.GetLogger(ctx).Info("embedding cache persisted", zap.Int("entries", len(snapshot)))
	return nil
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
