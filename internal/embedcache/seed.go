package embedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/searchapi/prodsearch/internal/model"
)

var seedClient = &http.Client{Timeout: 30 * time.Second}

// fetchSeed downloads a snapshot of (text, embedding) pairs from a remote
// URL. Used only to warm a fresh instance that has no local snapshot.
func fetchSeed(ctx context.Context, url string) ([]model.EmbeddingEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := seedClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("seed request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var entries []model.EmbeddingEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return entries, nil
}
