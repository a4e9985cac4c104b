// Package semantic implements the Semantic Edge Builder (stage C, spec.md
// §4.C): it embeds every surviving Word node, finds near-neighbor pairs
// within the same POS tag, and adds a semantic edge for every pair whose
// cosine similarity clears the configured threshold.
package semantic

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
)

// Embedder turns a batch of texts into embedding vectors, one per input
// text, in order. It is the external collaborator contract of spec.md §6.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EinoEmbedder adapts a CloudWeGo Eino embedding.Embedder (see
// internal/provider.NewEmbedder) to the Embedder interface, narrowing its
// float64 output to the float32 precision used throughout this package.
type EinoEmbedder struct {
	inner embedding.Embedder
}

// NewEinoEmbedder wraps inner.
func NewEinoEmbedder(inner embedding.Embedder) *EinoEmbedder {
	return &EinoEmbedder{inner: inner}
}

// Embed implements Embedder.
func (e *EinoEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.inner.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("semantic: embedding request failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("semantic: embedder returned %d vectors for %d inputs", len(vectors), len(texts))
	}
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = make([]float32, len(v))
		for j, x := range v {
			out[i][j] = float32(x)
		}
	}
	return out, nil
}

// cacheKey identifies one (text, pos) embedding, matching the Word node
// dedup key in internal/graph: two Word nodes with the same text carry
// different vectors if their POS differs, since downstream similarity is
// only ever compared within one POS tag.
type cacheKey struct {
	text, pos string
}

// Cache is a process-lifetime, concurrency-safe embedding cache keyed by
// (text, pos). Stored vectors are already L2-normalized, so later cosine
// similarity reduces to a dot product.
type Cache struct {
	mu      sync.Mutex
	vectors map[cacheKey][]float32
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{vectors: make(map[cacheKey][]float32)}
}

func (c *Cache) get(text, pos string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vectors[cacheKey{text: text, pos: pos}]
	return v, ok
}

func (c *Cache) put(text, pos string, v []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[cacheKey{text: text, pos: pos}] = v
}

// Len reports how many (text, pos) vectors are cached, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vectors)
}

func normalizeL2(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}
	norm := float32(1.0 / math.Sqrt(sumSquares))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x * norm
	}
	return out
}
