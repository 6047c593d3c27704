package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storefront-client/internal/domain/repository"
)

var _ repository.KeyValueStore = (*KVStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS client_state (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KVStore implementación de repository.KeyValueStore sobre la tabla client_state.
type KVStore struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewKVStore construye el adaptador; prefix separa clientes que comparten la base.
func NewKVStore(pool *pgxpool.Pool, prefix string) *KVStore {
	return &KVStore{pool: pool, prefix: prefix}
}

// EnsureSchema crea la tabla si no existe.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear tabla client_state: %w", err)
	}
	return nil
}

// Get nil si la clave no existe.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM client_state WHERE key = $1`, s.prefix+key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select client_state %s: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set upsert de la clave.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO client_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.prefix+key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert client_state %s: %w", key, err)
	}
	return nil
}

// Remove borra la clave; no falla si no existe.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM client_state WHERE key = $1`, s.prefix+key); err != nil {
		return fmt.Errorf("delete client_state %s: %w", key, err)
	}
	return nil
}
