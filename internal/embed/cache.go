package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/metrics"
)

// Cache is the consumer interface for embedding storage. Get returns
// (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cached decorates an Embedder with a byte-level cache. Cache failures
// log and fall through to the provider; they never fail the embed.
type Cached struct {
	inner Embedder
	cache Cache
	model string
	dims  int
}

// NewCached wraps inner with a cache keyed by (model, dimensions, text).
func NewCached(inner Embedder, cache Cache, model string, dims int) *Cached {
	return &Cached{inner: inner, cache: cache, model: model, dims: dims}
}

// Embed implements Embedder.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	if data, err := c.cache.Get(ctx, key); err != nil {
		zap.L().Warn("embed: cache get failed", zap.Error(err))
	} else if len(data) > 0 {
		vec, err := bytesToVector(data)
		if err == nil {
			metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
			return vec, nil
		}
		zap.L().Warn("embed: corrupt cache entry", zap.String("key", key), zap.Error(err))
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, vectorToBytes(vec)); err != nil {
		zap.L().Warn("embed: cache set failed", zap.Error(err))
	}
	return vec, nil
}

// key hashes the model, dimension, and text so a model or dimension
// change never serves stale vectors.
func (c *Cached) key(text string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", c.model, c.dims, text)))
	return "emb:" + hex.EncodeToString(h[:])
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, eris.Errorf("embed: invalid cached vector length %d", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
