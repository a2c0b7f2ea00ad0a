package embedding

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/mroshb/value_matcher/pkg/logger"
)

// ResilientConfig tunes the cache and circuit breaker around a provider.
type ResilientConfig struct {
	Name             string
	CacheSize        int
	FailureThreshold uint32        // consecutive failures that open the breaker
	OpenTimeout      time.Duration // how long the breaker stays open
}

// ResilientEmbedder caches vectors by text and stops calling a failing provider
// until the breaker half-opens.
type ResilientEmbedder struct {
	next    Embedder
	cache   *lru.Cache[string, []float32]
	breaker *gobreaker.CircuitBreaker[[]float32]
}

func NewResilientEmbedder(next Embedder, cfg ResilientConfig) (*ResilientEmbedder, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "embedding"
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the provider
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &ResilientEmbedder{
		next:    next,
		cache:   cache,
		breaker: gobreaker.NewCircuitBreaker[[]float32](settings),
	}, nil
}

func (r *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := r.cache.Get(text); ok {
		return cached, nil
	}

	vec, err := r.breaker.Execute(func() ([]float32, error) {
		return r.next.Embed(ctx, text)
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, unavailable(err, "embedding provider temporarily disabled")
		}
		return nil, err
	}

	r.cache.Add(text, vec)
	return vec, nil
}

// State reports the breaker state, for health output.
func (r *ResilientEmbedder) State() string {
	return r.breaker.State().String()
}
