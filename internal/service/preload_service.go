package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/embedcache"
)

// Preloader warms the embedding cache for every distinct catalog description
// before search traffic is served. It runs at most once per process; a run
// aborted by a catalog failure may be retried.
type Preloader struct {
	cache   *embedcache.Cache
	embed   *EmbedService
	catalog *catalog.Loader
	workers int

	mu   sync.Mutex
	done bool
}

func NewPreloader(cache *embedcache.Cache, embed *EmbedService, loader *catalog.Loader, workers int) *Preloader {
	if workers <= 0 {
		workers = 4
	}
	return &Preloader{
		cache:   cache,
		embed:   embed,
		catalog: loader,
		workers: workers,
	}
}

func (p *Preloader) Run(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil
	}
	logger := logutil.GetLogger(ctx)

	p.cache.Load(ctx)

	products, err := p.catalog.Products(ctx)
	if err != nil {
		return err
	}

	// Dedupe: identical descriptions get a single fetch, and anything already
	// cached is skipped entirely.
	seen := make(map[string]struct{}, len(products))
	var missing []string
	for _, product := range products {
		text := product.Description
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		if _, ok := p.cache.Get(text); !ok {
			missing = append(missing, text)
		}
	}
	logger.Info("preload starting",
		zap.Int("products", len(products)),
		zap.Int("missing", len(missing)),
		zap.Int("workers", p.workers),
	)

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	// The limit protects the embedding provider and local memory; unbounded
	// fan-out is a correctness problem, not a tuning knob.
	g.SetLimit(p.workers)
	for _, text := range missing {
		g.Go(func() error {
			if _, err := p.embed.Embed(gctx, text); err != nil {
				failed.Add(1)
				logger.Warn("preload embedding failed", zap.String("text", text), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if p.cache.Dirty() {
		if err := p.cache.Persist(ctx); err != nil {
			logger.Warn("preload persist failed", zap.Error(err))
		}
	}
	logger.Info("preload finished",
		zap.Int("fetched", len(missing)-int(failed.Load())),
		zap.Int64("failed", failed.Load()),
		zap.Int("cached", p.cache.Len()),
	)
	p.done = true
	return nil
}
