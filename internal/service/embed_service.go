package service

import (
	"context"
	"fmt"
	"time"

	"github.com/searchapi/prodsearch/internal/ai"
	"github.com/searchapi/prodsearch/internal/embedcache"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
	"github.com/searchapi/prodsearch/internal/vector"
)

// EmbedService resolves a text to its embedding vector, cache first. A miss
// means a single provider call under a bounded deadline; the result is
// cached in memory but durable persistence is left to the caller so bulk
// preload batches its writes.
type EmbedService struct {
	cache    *embedcache.Cache
	embedder ai.IEmbedder
	dim      int
	timeout  time.Duration
}

func NewEmbedService(cache *embedcache.Cache, embedder ai.IEmbedder, dim int, timeout time.Duration) *EmbedService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmbedService{
		cache:    cache,
		embedder: embedder,
		dim:      dim,
		timeout:  timeout,
	}
}

func (s *EmbedService) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := s.cache.Get(text); ok {
		return cached, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEmbedding, err)
	}
	if !vector.IsValid(vec, s.dim) {
		return nil, fmt.Errorf("%w: provider returned %d values, want %d", apperrors.ErrEmbedding, len(vec), s.dim)
	}
	s.cache.Put(text, vec)
	return vec, nil
}
