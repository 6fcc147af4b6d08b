package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside-labs/sponsormatch/internal/config"
)

func embedServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEmbed(t *testing.T) {
	srv := embedServer(t, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"object": "embedding", "index": 0, "embedding": []float32{0.25, -0.5, 0.75}},
		},
		"model": "text-embedding-3-small",
	})

	o := NewOpenAI(config.EmbeddingConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "text-embedding-3-small",
		Dimensions: 3,
	})

	vec, err := o.Embed(context.Background(), "harbor city fc")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 0.75}, vec)
}

func TestOpenAIEmbedEmptyText(t *testing.T) {
	o := NewOpenAI(config.EmbeddingConfig{APIKey: "k"})

	_, err := o.Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestOpenAIEmbedAPIError(t *testing.T) {
	srv := embedServer(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
	})

	o := NewOpenAI(config.EmbeddingConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})

	_, err := o.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIEmbedEmptyData(t *testing.T) {
	srv := embedServer(t, http.StatusOK, map[string]any{"object": "list", "data": []any{}})

	o := NewOpenAI(config.EmbeddingConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})

	_, err := o.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}
