package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/embedcache"
	"github.com/searchapi/prodsearch/internal/model"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
	"github.com/searchapi/prodsearch/internal/vector"
)

// TopK is the fixed number of results a search returns at most.
const TopK = 5

// SearchService ranks the catalog against a query by cosine similarity.
// Catalog descriptions are resolved through the cache only: the provider is
// never called for catalog entries on the search path, so search latency
// stays independent of it once preload has run.
type SearchService struct {
	embed   *EmbedService
	cache   *embedcache.Cache
	catalog *catalog.Loader
	results *expirable.LRU[string, []model.SearchResult]
}

func NewSearchService(embed *EmbedService, cache *embedcache.Cache, loader *catalog.Loader) *SearchService {
	return &SearchService{
		embed:   embed,
		cache:   cache,
		catalog: loader,
		results: expirable.NewLRU[string, []model.SearchResult](1024, nil, 5*time.Minute),
	}
}

func (s *SearchService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrInvalid
	}
	if cached, ok := s.results.Get(query); ok {
		return cached, nil
	}

	// The query vector may be a cache miss; that one fetch inherits the
	// provider deadline and fails the whole search on error.
	queryVec, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(products))
	skipped := 0
	for _, product := range products {
		emb, ok := s.cache.Get(product.Description)
		if !ok {
			skipped++
			continue
		}
		score := vector.Cosine(queryVec, emb)
		if math.IsNaN(score) {
			skipped++
			continue
		}
		results = append(results, model.SearchResult{
			ID:          product.ID,
			Name:        product.Name,
			CreatedBy:   product.CreatedBy,
			Description: product.Description,
			Similarity:  score,
		})
	}
	// Stable: ties keep catalog order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > TopK {
		results = results[:TopK]
	}
	if skipped > 0 {
		logutil.GetLogger(ctx).Debug("search skipped unembedded products", zap.Int("skipped", skipped))
	}
	s.results.Add(query, results)
	return results, nil
}
