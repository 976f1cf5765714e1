package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Catalog       CatalogConfig    `json:"catalog"`
	AI            AIConfig         `json:"ai"`
	Snapshot      SnapshotConfig   `json:"snapshot"`
	Preload       PreloadConfig    `json:"preload"`
	PersistCron   string           `json:"persist_cron"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	SearchRateMS  int64            `json:"search_rate_window_ms"`
}

type CatalogConfig struct {
	// Source is a local CSV path or an http(s) URL.
	Source string `json:"source"`
}

type AIConfig struct {
	Provider       string                 `json:"provider"`
	Model          string                 `json:"model"`
	Dimension      int                    `json:"dimension"`
	TimeoutSeconds int                    `json:"timeout_seconds"`
	Data           map[string]interface{} `json:"data"`
}

type SnapshotConfig struct {
	Type    string                 `json:"type"`
	SeedURL string                 `json:"seed_url"`
	Data    map[string]interface{} `json:"data"`
}

type PreloadConfig struct {
	Workers int `json:"workers"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Catalog.Source == "" {
		return nil, fmt.Errorf("catalog.source is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "ollama"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "nomic-embed-text"
	}
	if cfg.AI.Dimension == 0 {
		cfg.AI.Dimension = 768
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 10
	}
	switch cfg.Snapshot.Type {
	case "":
		cfg.Snapshot.Type = "local"
	case "local", "s3", "postgres":
	default:
		return nil, fmt.Errorf("snapshot.type must be local, s3 or postgres")
	}
	if cfg.Snapshot.Type == "local" && cfg.Snapshot.Data == nil {
		cfg.Snapshot.Data = map[string]interface{}{"path": "embeddings.json"}
	}
	if cfg.Preload.Workers <= 0 {
		cfg.Preload.Workers = 4
	}
	if cfg.PersistCron == "" {
		cfg.PersistCron = "*/5 * * * *"
	}
	return &cfg, nil
}
