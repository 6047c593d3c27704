package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-client/internal/domain/repository"
	"github.com/jhoicas/storefront-client/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-client/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-client/pkg/config"
)

// openStore abre el KeyValueStore del driver configurado; el cierre libera conexiones.
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.KeyValueStore, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case config.StoreMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.StoreFile:
		s, err := storage.NewFileStore(cfg.Dir, cfg.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.StoreRedis:
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(rdb, cfg.KeyPrefix), func() { _ = rdb.Close() }, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewKVStore(pool, cfg.KeyPrefix)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Driver)
}
