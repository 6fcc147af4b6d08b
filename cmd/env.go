package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pitchside-labs/sponsormatch/internal/embed"
	"github.com/pitchside-labs/sponsormatch/internal/store"
)

// openStore opens the configured store backend and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newEmbedder builds the embedding provider, wrapped with the store
// cache when enabled.
func newEmbedder(st store.Store) embed.Embedder {
	var emb embed.Embedder = embed.NewOpenAI(cfg.Embedding)
	if cfg.Embedding.Cache {
		emb = embed.NewCached(emb, &storeCache{st: st}, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	}
	return emb
}

// storeCache adapts the store's TTL cache to the embedder's cache
// interface. Embeddings never expire; a model or dimension change
// rotates the key instead.
type storeCache struct {
	st store.Store
}

func (c *storeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.st.CacheGet(ctx, key)
}

func (c *storeCache) Set(ctx context.Context, key string, value []byte) error {
	return c.st.CacheSet(ctx, key, value, time.Duration(0))
}
