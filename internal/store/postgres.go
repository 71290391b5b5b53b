package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS journey_maps (
    key        TEXT PRIMARY KEY,
    data       JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// Postgres keeps values in a JSONB column.
type Postgres struct {
	db *pgxpool.Pool
}

// OpenPostgres connects and creates the journey_maps table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store: postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	p := &Postgres{db: pool}
	if err := p.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) CreateSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// DropSchema removes the journey_maps table.
func (p *Postgres) DropSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `DROP TABLE IF EXISTS journey_maps`)
	return err
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	p.db.Close()
	return nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotConfigured
	}
	var data []byte
	err := p.db.QueryRow(ctx, `SELECT data FROM journey_maps WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", key, err)
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, key string, value []byte) error {
	if p == nil || p.db == nil {
		return ErrNotConfigured
	}
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := p.db.Exec(ctx,
		`INSERT INTO journey_maps (key, data) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Keys(ctx context.Context) ([]string, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := p.db.Query(ctx, `SELECT key FROM journey_maps ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("store: list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("store: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
