package embed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/metrics"
)

// OpenAI embeds text via an OpenAI-compatible embeddings API.
type OpenAI struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAI creates the provider from the embedding config section.
func NewOpenAI(cfg config.EmbeddingConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
	}
}

// Embed implements Embedder.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          o.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if o.dimensions > 0 {
		req.Dimensions = o.dimensions
	}

	start := time.Now()
	resp, err := o.client.CreateEmbeddings(ctx, req)
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(o.model), "error").Inc()
		return nil, classifyAPIError(err)
	}
	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(o.model), "error").Inc()
		return nil, eris.Wrap(ErrProvider, "embed: empty response")
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(string(o.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(string(o.model)).Observe(time.Since(start).Seconds())

	return resp.Data[0].Embedding, nil
}

// classifyAPIError maps go-openai error types onto ErrProvider with a
// readable message.
func classifyAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return eris.Wrapf(ErrProvider, "embed: API status %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return eris.Wrapf(ErrProvider, "embed: API status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return eris.Wrapf(ErrProvider, "embed: request failed: %v", err)
}
