// Package embed provides the text embedding boundary: an OpenAI-backed
// provider plus a caching decorator.
package embed

import (
	"context"

	"github.com/rotisserie/eris"
)

// Embedder turns text into a fixed-length float vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrEmptyText is returned when the input has no content to embed.
// Callers map empty blobs to nil vectors before reaching the provider;
// hitting this error means a caller skipped that check.
var ErrEmptyText = eris.New("embed: empty text")

// ErrProvider wraps upstream embedding API failures.
var ErrProvider = eris.New("embed: provider error")
