package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "nomic-embed-text", req.Model)
		require.Equal(t, "red shoes", req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	provider, err := createOllamaFactory(map[string]interface{}{"base_url": srv.URL})
	require.NoError(t, err)

	vec, err := provider.Embed(context.Background(), "nomic-embed-text", "red shoes")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOllamaEmbedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	provider, err := createOllamaFactory(map[string]interface{}{"base_url": srv.URL})
	require.NoError(t, err)

	_, err = provider.Embed(context.Background(), "nomic-embed-text", "red shoes")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ollama request failed")
}

func TestOllamaEmbedEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	provider, err := createOllamaFactory(map[string]interface{}{"base_url": srv.URL})
	require.NoError(t, err)

	_, err = provider.Embed(context.Background(), "nomic-embed-text", "red shoes")
	require.Error(t, err)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("nope", nil)
	require.Error(t, err)
}
