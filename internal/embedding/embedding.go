// Package embedding turns text into vectors through an external model service.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/pkg/errors"
)

// Embedder returns a fixed-length vector for a text. Implementations must be safe for
// concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the configured provider wrapped in the cache and circuit breaker.
func New(ctx context.Context, cfg *config.Config) (*ResilientEmbedder, error) {
	var provider Embedder
	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderGenAI:
		g, err := NewGenAIEmbedder(ctx, cfg.GenAIAPIKey, cfg.GenAIEmbedModel)
		if err != nil {
			return nil, err
		}
		provider = g
	case config.EmbeddingProviderHuggingFace:
		provider = NewHuggingFaceEmbedder(cfg.HuggingFaceURL, cfg.HuggingFaceToken, cfg.GetEmbedTimeout())
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}

	return NewResilientEmbedder(provider, ResilientConfig{
		Name:             cfg.EmbeddingProvider,
		CacheSize:        cfg.EmbedCacheSize,
		FailureThreshold: cfg.EmbedBreakerFailures,
		OpenTimeout:      30 * time.Second,
	})
}

func unavailable(err error, message string) error {
	return errors.Wrap(err, errors.ErrCodeEmbeddingUnavailable, message)
}
