package pipeline

import (
	"context"
	"testing"

	"github.com/josephgoksu/factwing/internal/annotate"
	"github.com/josephgoksu/factwing/internal/diagnostics"
	"github.com/josephgoksu/factwing/internal/entity"
)

type stubExtractor struct {
	entities []entity.Entity
	err      error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) ([]entity.Entity, error) {
	return s.entities, s.err
}

// oneHotEmbedder returns the one-hot-by-text embedding used in spec.md
// §8's concrete end-to-end scenario 1: identical text, identical vector.
type oneHotEmbedder struct {
	vocab map[string]int
}

func newOneHotEmbedder() *oneHotEmbedder {
	return &oneHotEmbedder{vocab: make(map[string]int)}
}

func (e *oneHotEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		idx, ok := e.vocab[t]
		if !ok {
			idx = len(e.vocab)
			e.vocab[t] = idx
		}
		vec := make([]float32, idx+1)
		vec[idx] = 1
		out[i] = vec
	}
	// Pad every vector to the same (final) length so cosine similarity is
	// well-defined across the whole batch.
	maxLen := len(e.vocab)
	for i, v := range out {
		if len(v) < maxLen {
			padded := make([]float32, maxLen)
			copy(padded, v)
			out[i] = padded
		}
	}
	return out, nil
}

func TestRunProducesEvidenceSentenceForSAWACOScenario(t *testing.T) {
	annotator := annotate.NewStubAnnotator("N")
	extractor := &stubExtractor{entities: nil}
	embedder := newOneHotEmbedder()

	opts := DefaultOptions()
	opts.Semantic.Threshold = 0.99
	opts.Semantic.TopK = 5
	opts.Beam.MaxDepth = 3
	opts.Beam.BeamWidth = 5
	opts.Beam.MaxPaths = 10

	p := New(annotator, extractor, embedder, opts, nil)

	result, err := p.Run(context.Background(), "SAWACO ngung cap nuoc.", "SAWACO thong bao tam ngung cap nuoc.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, path := range result.Paths {
		if path.ReachedSentence && path.Pattern == "C->W->S" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one C->W->S path reaching the sentence, got paths: %+v", result.Paths)
	}
}

func TestRunRecordsExternalUnavailableOnExtractorFailure(t *testing.T) {
	annotator := annotate.NewStubAnnotator("N")
	extractor := &stubExtractor{err: context.DeadlineExceeded}

	p := New(annotator, extractor, nil, DefaultOptions(), nil)

	result, err := p.Run(context.Background(), "claim text", "context sentence one.")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if result.Diagnostics.Count(diagnostics.ExternalUnavailable) != 1 {
		t.Fatalf("expected one ExternalUnavailable diagnostic, got %d", result.Diagnostics.Count(diagnostics.ExternalUnavailable))
	}
}

func TestRunReturnsFatalErrorOnInvalidAnnotatorOutput(t *testing.T) {
	p := New(&badAnnotator{}, nil, nil, DefaultOptions(), nil)

	_, err := p.Run(context.Background(), "claim", "context")
	if err == nil {
		t.Fatal("expected fatal error from invalid annotator output")
	}
	var fatalErr *diagnostics.FatalError
	if !asFatalError(err, &fatalErr) {
		t.Fatalf("expected *diagnostics.FatalError, got %T: %v", err, err)
	}
	if fatalErr.Kind != diagnostics.AnnotatorInputError {
		t.Fatalf("expected AnnotatorInputError, got %v", fatalErr.Kind)
	}
}

// badAnnotator produces a sentence with two tokens sharing the same
// Index, which annotate.Sentence.Validate rejects. (A dangling HeadIndex
// is not rejected here: spec.md §4.A requires the Graph Builder to drop
// that kind of inconsistency silently rather than abort the build.)
type badAnnotator struct{}

func (badAnnotator) AnnotateContext(_ context.Context, _ string) (annotate.Context, error) {
	return annotate.Context{Sentences: []annotate.Sentence{{
		Text: "broken",
		Tokens: []annotate.Token{
			{Index: 1, WordForm: "broken", POSTag: "N"},
			{Index: 1, WordForm: "again", POSTag: "N"},
		},
	}}}, nil
}

func (badAnnotator) AnnotateClaim(_ context.Context, text string) (annotate.Sentence, error) {
	return annotate.Sentence{Text: text, Tokens: []annotate.Token{{Index: 1, WordForm: text, POSTag: "N"}}}, nil
}

func asFatalError(err error, target **diagnostics.FatalError) bool {
	fe, ok := err.(*diagnostics.FatalError)
	if ok {
		*target = fe
	}
	return ok
}

func TestRunSkipsSemanticStageWhenTopKIsZero(t *testing.T) {
	annotator := annotate.NewStubAnnotator("N")
	embedder := newOneHotEmbedder()

	opts := DefaultOptions()
	opts.Semantic.TopK = 0

	p := New(annotator, nil, embedder, opts, nil)
	result, err := p.Run(context.Background(), "claim", "context sentence.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SemanticStats.EdgesAdded != 0 {
		t.Fatalf("expected zero semantic edges when top_k=0, got %d", result.SemanticStats.EdgesAdded)
	}
}
