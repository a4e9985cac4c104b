package semantic

import (
	"context"
	"log/slog"

	"github.com/josephgoksu/factwing/internal/diagnostics"
	"github.com/josephgoksu/factwing/internal/graph"
)

// BuilderOptions configures stage C (spec.md §4.C, §6).
type BuilderOptions struct {
	// TopK bounds how many nearest neighbors are considered per word.
	// TopK <= 0 disables semantic edge building entirely.
	TopK int
	// Threshold is the minimum cosine similarity for a candidate pair to
	// become an edge.
	Threshold float64
	// UseFastIndex selects chromem-go's approximate index over the exact
	// gonum brute-force path. This is an explicit switch, not an
	// automatic heuristic: callers pick a backend, they don't get one
	// chosen for them based on graph size.
	UseFastIndex bool
}

// DefaultBuilderOptions mirrors spec.md §4.C's defaults.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{TopK: 5, Threshold: 0.85, UseFastIndex: false}
}

// Stats summarizes one semantic edge build, for observability (spec.md
// §9). CandidatePairs counts every nearest-neighbor candidate examined;
// Min/Mean/MaxSimilarity are taken over the similarities of the edges
// actually added, and are 0 when no edge was added.
type Stats struct {
	CandidatePairs int
	EdgesAdded     int
	MinSimilarity  float64
	MeanSimilarity float64
	MaxSimilarity  float64
}

// Builder runs stage C over a graph already produced by stage A.
type Builder struct {
	embedder Embedder
	cache    *Cache
	opts     BuilderOptions
	logger   *slog.Logger
}

// NewBuilder returns a Builder. A nil cache allocates a fresh one; pass a
// shared cache across pipeline runs within the same process to reuse
// embeddings for repeated (text, pos) pairs. A nil logger falls back to
// slog.Default().
func NewBuilder(embedder Embedder, cache *Cache, opts BuilderOptions, logger *slog.Logger) *Builder {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{embedder: embedder, cache: cache, opts: opts, logger: logger}
}

// Build embeds every surviving Word node grouped by POS tag, finds
// near-neighbor candidates within each group, and adds a semantic edge
// for every candidate pair clearing opts.Threshold that doesn't already
// have one (spec.md §4.C steps 1-5). A TopK <= 0 is a no-op, returning
// zero edges without calling the embedder at all (spec.md §8 boundary
// behavior). An embedder or nearest-neighbor failure is recorded as
// ExternalUnavailable and the affected POS group gets no semantic edges;
// other groups are still processed, and the run is never aborted.
func (b *Builder) Build(ctx context.Context, g *graph.Graph, diag *diagnostics.Diagnostics) Stats {
	if b.opts.TopK <= 0 {
		return Stats{}
	}

	groups := make(map[string][]graph.Node)
	for _, n := range g.WordNodes() {
		groups[n.POS] = append(groups[n.POS], n)
	}

	stats := Stats{MinSimilarity: 1, MaxSimilarity: -1}
	var simSum float64

	for _, nodes := range groups {
		if len(nodes) < 2 {
			continue
		}
		vectors, err := b.embedAll(ctx, nodes)
		if err != nil {
			b.logger.Warn("embedder call failed; skipping semantic edges for this POS group", "error", err)
			diag.Record(diagnostics.ExternalUnavailable, err)
			continue
		}

		neighbors, err := nearestNeighbors(ctx, vectors, b.opts.TopK, b.opts.UseFastIndex)
		if err != nil {
			b.logger.Warn("nearest-neighbor search failed; skipping semantic edges for this POS group", "error", err)
			diag.Record(diagnostics.ExternalUnavailable, err)
			continue
		}

		for i, cands := range neighbors {
			for _, c := range cands {
				stats.CandidatePairs++
				if c.similarity < b.opts.Threshold {
					continue
				}
				a, other := nodes[i].ID, nodes[c.index].ID
				if g.HasSemanticEdge(a, other) {
					continue
				}
				if !g.ConnectSemantic(a, other, c.similarity) {
					continue
				}
				stats.EdgesAdded++
				if c.similarity < stats.MinSimilarity {
					stats.MinSimilarity = c.similarity
				}
				if c.similarity > stats.MaxSimilarity {
					stats.MaxSimilarity = c.similarity
				}
				simSum += c.similarity
			}
		}
	}

	if stats.EdgesAdded > 0 {
		stats.MeanSimilarity = simSum / float64(stats.EdgesAdded)
	} else {
		stats.MinSimilarity = 0
		stats.MaxSimilarity = 0
	}
	return stats
}

// embedAll returns one L2-normalized vector per node, reusing the cache
// for (text, pos) pairs seen before and batching the rest into a single
// embedder call.
func (b *Builder) embedAll(ctx context.Context, nodes []graph.Node) ([][]float32, error) {
	vectors := make([][]float32, len(nodes))
	var missingIdx []int
	var missingText []string

	for i, n := range nodes {
		if v, ok := b.cache.get(n.Text, n.POS); ok {
			vectors[i] = v
			continue
		}
		missingIdx = append(missingIdx, i)
		missingText = append(missingText, n.Text)
	}

	if len(missingText) > 0 {
		raw, err := b.embedder.Embed(ctx, missingText)
		if err != nil {
			return nil, err
		}
		for k, idx := range missingIdx {
			normalized := normalizeL2(raw[k])
			vectors[idx] = normalized
			b.cache.put(nodes[idx].Text, nodes[idx].POS, normalized)
		}
	}

	return vectors, nil
}
