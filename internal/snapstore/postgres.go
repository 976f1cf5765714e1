package snapstore

import (
	"context"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/searchapi/prodsearch/internal/model"
)

type postgresConfig struct {
	DSN       string `json:"dsn"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Password  string `json:"password"`
	DBName    string `json:"dbname"`
	SSLMode   string `json:"sslmode"`
	Dimension int    `json:"dimension"`
}

type postgresStore struct {
	db *sqlx.DB
}

func init() {
	Register("postgres", createPostgresStore)
}

func createPostgresStore(args interface{}) (Store, error) {
	config := &postgresConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	dsn := config.DSN
	if dsn == "" {
		sslmode := config.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.DBName, sslmode)
	}
	if config.Dimension == 0 {
		config.Dimension = 768
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embedding_snapshot (
			source_text TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL
		)
	`, config.Dimension)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure snapshot table: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Load(ctx context.Context) ([]model.EmbeddingEntry, error) {
	sqlStr, args, err := builder.BuildSelect("embedding_snapshot", nil, []string{"source_text", "embedding"})
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()
	var entries []model.EmbeddingEntry
	for rows.Next() {
		var item model.EmbeddingEntry
		var embedding pgvector.Vector
		if err := rows.Scan(&item.Text, &embedding); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		item.Embedding = embedding.Slice()
		entries = append(entries, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoSnapshot
	}
	return entries, nil
}

// Save replaces the whole table so the durable state always matches the last
// full in-memory snapshot, same as the file backend overwriting its file.
func (s *postgresStore) Save(ctx context.Context, entries []model.EmbeddingEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM embedding_snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	const insert = `INSERT INTO embedding_snapshot (source_text, embedding) VALUES ($1, $2)`
	for _, item := range entries {
		if _, err := tx.ExecContext(ctx, insert, item.Text, pgvector.NewVector(item.Embedding)); err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	return tx.Commit()
}
