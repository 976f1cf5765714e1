package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/config"
	"github.com/searchapi/prodsearch/internal/embedcache"
	"github.com/searchapi/prodsearch/internal/snapstore"
)

const testDim = 3

type fakeEmbedder struct {
	mu      sync.Mutex
	calls   int
	vectors map[string][]float32
	fail    map[string]bool
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float32{},
		fail:    map[string]bool{},
	}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[text] {
		return nil, fmt.Errorf("provider down")
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 1, 1}, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake"
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(t *testing.T) snapstore.Store {
	t.Helper()
	store, err := snapstore.New(config.SnapshotConfig{
		Type: "local",
		Data: map[string]interface{}{
			"path": filepath.Join(t.TempDir(), "embeddings.json"),
		},
	})
	require.NoError(t, err)
	return store
}

func newTestCache(t *testing.T, store snapstore.Store) *embedcache.Cache {
	t.Helper()
	if store == nil {
		store = newTestStore(t)
	}
	return embedcache.New(testDim, store, "")
}

func newTestCatalog(t *testing.T, csv string) *catalog.Loader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	return catalog.NewLoader(path)
}

func newTestEmbedService(cache *embedcache.Cache, f *fakeEmbedder) *EmbedService {
	return NewEmbedService(cache, f, testDim, time.Second)
}
