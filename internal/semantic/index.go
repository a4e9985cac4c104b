package semantic

import (
	"context"
	"fmt"
	"sort"

	chromem "github.com/philippgille/chromem-go"
	"gonum.org/v1/gonum/mat"
)

// neighborResult is one nearest-neighbor hit: the candidate's position in
// the input slice and its cosine similarity to the query.
type neighborResult struct {
	index      int
	similarity float64
}

// nearestNeighbors finds, for every vector in vectors, the topK most
// similar other vectors in the same slice (self excluded). All vectors
// must already be L2-normalized so cosine similarity reduces to a dot
// product. useFastIndex selects chromem-go's ANN index; otherwise an exact
// gonum brute-force matrix product is used. Both paths return identical
// results up to ANN's approximation (spec.md §9 "fast and brute-force
// paths must be interchangeable up to index approximation").
func nearestNeighbors(ctx context.Context, vectors [][]float32, topK int, useFastIndex bool) ([][]neighborResult, error) {
	n := len(vectors)
	if n == 0 || topK <= 0 {
		return make([][]neighborResult, n), nil
	}
	if useFastIndex {
		return nearestNeighborsChromem(ctx, vectors, topK)
	}
	return nearestNeighborsBruteForce(vectors, topK), nil
}

// nearestNeighborsBruteForce computes the full similarity matrix via a
// single dense matrix product (vectors x vectors^T), grounded on the
// term-document matrix technique in rekal-cli's LSA model: build a dense
// matrix, let gonum do the heavy arithmetic, then read results back out.
func nearestNeighborsBruteForce(vectors [][]float32, topK int) [][]neighborResult {
	n := len(vectors)
	dim := len(vectors[0])

	data := make([]float64, n*dim)
	for i, v := range vectors {
		for j, x := range v {
			data[i*dim+j] = float64(x)
		}
	}
	m := mat.NewDense(n, dim, data)

	var sims mat.Dense
	sims.Mul(m, m.T())

	out := make([][]neighborResult, n)
	for i := 0; i < n; i++ {
		candidates := make([]neighborResult, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			candidates = append(candidates, neighborResult{index: j, similarity: sims.At(i, j)})
		}
		sort.Slice(candidates, func(a, b int) bool {
			return candidates[a].similarity > candidates[b].similarity
		})
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
		out[i] = candidates
	}
	return out
}

// nearestNeighborsChromem loads every vector into an in-memory chromem-go
// collection, then queries each vector against it. Eviction isn't needed:
// the collection lives only for the duration of one semantic edge build.
func nearestNeighborsChromem(ctx context.Context, vectors [][]float32, topK int) ([][]neighborResult, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("semantic-edges", nil, noOpEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("semantic: creating chromem collection: %w", err)
	}

	docs := make([]chromem.Document, len(vectors))
	for i, v := range vectors {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%d", i),
			Embedding: v,
		}
	}
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("semantic: indexing vectors: %w", err)
	}

	n := len(vectors)
	out := make([][]neighborResult, n)
	// +1 because the query vector always matches itself first.
	nResults := topK + 1
	if nResults > n {
		nResults = n
	}
	for i, v := range vectors {
		results, err := collection.QueryEmbedding(ctx, v, nResults, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("semantic: querying nearest neighbors: %w", err)
		}
		candidates := make([]neighborResult, 0, len(results))
		for _, r := range results {
			idx, err := parseDocID(r.ID)
			if err != nil || idx == i {
				continue
			}
			candidates = append(candidates, neighborResult{index: idx, similarity: float64(r.Similarity)})
		}
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
		out[i] = candidates
	}
	return out, nil
}

// noOpEmbeddingFunc returns an error if chromem-go ever tries to compute an
// embedding itself; every Document here already carries a precomputed
// Embedding, so this function is not expected to be called.
func noOpEmbeddingFunc(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("semantic: unexpected embedding callback for %q; all documents are pre-embedded", text)
}

func parseDocID(id string) (int, error) {
	var idx int
	_, err := fmt.Sscanf(id, "%d", &idx)
	return idx, err
}
