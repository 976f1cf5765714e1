package snapstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/searchapi/prodsearch/internal/config"
	"github.com/searchapi/prodsearch/internal/model"
)

// ErrNoSnapshot means the backing store is reachable but holds no snapshot
// yet. Callers may fall back to a remote seed.
var ErrNoSnapshot = errors.New("no snapshot")

// Store persists the full embedding cache snapshot. Save fully overwrites any
// prior snapshot; Load returns everything the last Save wrote.
type Store interface {
	Load(ctx context.Context) ([]model.EmbeddingEntry, error)
	Save(ctx context.Context, entries []model.EmbeddingEntry) error
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.SnapshotConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("snapshot.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported snapshot store type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("snapshot store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode snapshot store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode snapshot store config: %w", err)
	}
	return nil
}
