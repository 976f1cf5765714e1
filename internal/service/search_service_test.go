package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/embedcache"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
)

const searchCSV = `PRODUCT_ID,NAME,CREATEDBY,DESCRIPTION
1,Runner,alice,red shoes
2,Topper,bob,blue hat
`

func newSearchFixture(t *testing.T, csv string) (*SearchService, *embedcache.Cache, *fakeEmbedder) {
	t.Helper()
	cache := newTestCache(t, nil)
	fake := newFakeEmbedder()
	fake.vectors["red shoes"] = []float32{1, 0, 0}
	fake.vectors["blue hat"] = []float32{0, 1, 0}
	loader := newTestCatalog(t, csv)
	svc := NewSearchService(newTestEmbedService(cache, fake), cache, loader)
	return svc, cache, fake
}

func TestSearchRanksBySimilarity(t *testing.T) {
	svc, cache, _ := newSearchFixture(t, searchCSV)
	cache.Put("red shoes", []float32{1, 0, 0})
	cache.Put("blue hat", []float32{0, 1, 0})

	results, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "1", results[0].ID)
	require.Equal(t, "2", results[1].ID)
	require.Greater(t, results[0].Similarity, results[1].Similarity)
	require.InDelta(t, 1.0, results[0].Similarity, 1e-9)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc, _, _ := newSearchFixture(t, searchCSV)
	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := svc.Search(context.Background(), query)
		require.ErrorIs(t, err, apperrors.ErrInvalid)
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	svc, _, _ := newSearchFixture(t, "PRODUCT_ID,NAME,CREATEDBY,DESCRIPTION\n")
	results, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchSkipsUnembeddedProducts(t *testing.T) {
	svc, cache, _ := newSearchFixture(t, searchCSV)
	// Only "red shoes" got embedded during preload; "blue hat" failed.
	cache.Put("red shoes", []float32{1, 0, 0})

	results, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "1", results[0].ID)
}

func TestSearchNeverFetchesCatalogEmbeddings(t *testing.T) {
	svc, cache, fake := newSearchFixture(t, searchCSV)
	cache.Put("red shoes", []float32{1, 0, 0})
	// "blue hat" is absent; search must skip it, not fetch it.

	_, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	// The only provider call allowed is the query text itself; "red shoes"
	// is already cached, so there are none.
	require.Equal(t, 0, fake.callCount())
}

func TestSearchQueryEmbedFailure(t *testing.T) {
	svc, _, fake := newSearchFixture(t, searchCSV)
	fake.fail["warm jacket"] = true

	_, err := svc.Search(context.Background(), "warm jacket")
	require.ErrorIs(t, err, apperrors.ErrEmbedding)
}

func TestSearchCatalogFailure(t *testing.T) {
	cache := newTestCache(t, nil)
	fake := newFakeEmbedder()
	svc := NewSearchService(newTestEmbedService(cache, fake), cache, catalog.NewLoader("/does/not/exist.csv"))

	_, err := svc.Search(context.Background(), "red shoes")
	require.ErrorIs(t, err, apperrors.ErrCatalog)
}

func TestSearchDeterministic(t *testing.T) {
	svc, cache, _ := newSearchFixture(t, searchCSV)
	cache.Put("red shoes", []float32{1, 0, 0})
	cache.Put("blue hat", []float32{0, 1, 0})

	first, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "red shoes")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSearchTopKAndTieOrder(t *testing.T) {
	csv := "PRODUCT_ID,NAME,CREATEDBY,DESCRIPTION\n"
	descs := []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7"}
	for i, d := range descs {
		csv += string(rune('1'+i)) + ",P,who," + d + "\n"
	}
	cache := newTestCache(t, nil)
	fake := newFakeEmbedder()
	fake.vectors["query"] = []float32{1, 0, 0}
	loader := newTestCatalog(t, csv)
	svc := NewSearchService(newTestEmbedService(cache, fake), cache, loader)

	// d1..d5 get strictly decreasing similarity to the query, d6 and d7 tie.
	cache.Put("d1", []float32{1, 0, 0})
	cache.Put("d2", []float32{1, 0.2, 0})
	cache.Put("d3", []float32{1, 0.5, 0})
	cache.Put("d4", []float32{1, 1, 0})
	cache.Put("d5", []float32{1, 2, 0})
	cache.Put("d6", []float32{0, 1, 0})
	cache.Put("d7", []float32{0, 1, 0})

	results, err := svc.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, TopK)
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
	require.Equal(t, "1", results[0].ID)
	require.Equal(t, "5", results[4].ID)

	// Ties keep catalog order: drop the strictly-better entries and check
	// d6 sorts ahead of d7.
	cache2 := newTestCache(t, nil)
	cache2.Put("d6", []float32{0, 1, 0})
	cache2.Put("d7", []float32{0, 1, 0})
	svc2 := NewSearchService(newTestEmbedService(cache2, fake), cache2, newTestCatalog(t, csv))
	tied, err := svc2.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, tied, 2)
	require.Equal(t, "6", tied[0].ID)
	require.Equal(t, "7", tied[1].ID)
}
