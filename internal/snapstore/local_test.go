package snapstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/searchapi/prodsearch/internal/model"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	store, err := createLocalStore(map[string]interface{}{"path": path})
	require.NoError(t, err)

	entries := []model.EmbeddingEntry{
		{Text: "red shoes", Embedding: []float32{1, 0, 0}},
		{Text: "blue hat", Embedding: []float32{0, 1, 0}},
	}
	require.NoError(t, store.Save(context.Background(), entries))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestLocalStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	store, err := createLocalStore(map[string]interface{}{"path": path})
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	require.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestLocalStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	store, err := createLocalStore(map[string]interface{}{"path": path})
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), []model.EmbeddingEntry{
		{Text: "old", Embedding: []float32{1}},
	}))
	require.NoError(t, store.Save(context.Background(), []model.EmbeddingEntry{
		{Text: "new", Embedding: []float32{2}},
	}))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "new", got[0].Text)
}

func TestLocalStoreRequiresPath(t *testing.T) {
	_, err := createLocalStore(map[string]interface{}{})
	require.Error(t, err)
}
