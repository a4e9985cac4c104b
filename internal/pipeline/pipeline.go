// Package pipeline wires stages A through E (spec.md §2) into the single
// call surface the CLI and any embedding caller use: annotate, build the
// graph, link entities, build semantic edges, beam-search from the claim,
// and rank the resulting evidence sentences. One pipeline run is
// single-threaded throughout (spec.md §5).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/factwing/internal/annotate"
	"github.com/josephgoksu/factwing/internal/beam"
	"github.com/josephgoksu/factwing/internal/diagnostics"
	"github.com/josephgoksu/factwing/internal/entity"
	"github.com/josephgoksu/factwing/internal/graph"
	"github.com/josephgoksu/factwing/internal/rank"
	"github.com/josephgoksu/factwing/internal/semantic"
)

// Options configures one pipeline run. Fields are used as given; start
// from DefaultOptions for the documented defaults. Only an empty
// GraphBuilder.POSFilterTags (default content tag set) and an empty
// RankMethod (combined) fall back to a default.
type Options struct {
	GraphBuilder   graph.BuilderOptions
	Semantic       semantic.BuilderOptions
	Beam           beam.Params
	RankMethod     rank.Method
}

// DefaultOptions returns the spec.md §4 defaults for every stage.
func DefaultOptions() Options {
	return Options{
		GraphBuilder: graph.DefaultBuilderOptions(),
		Semantic:     semantic.DefaultBuilderOptions(),
		Beam:         beam.DefaultParams(),
		RankMethod:   rank.Combined,
	}
}

// Pipeline orchestrates one or more runs. It is not safe for concurrent
// reuse across in-flight Run calls that share one embedding cache (spec.md
// §5): construct a private Pipeline per concurrent caller, or serialize
// calls to Run.
type Pipeline struct {
	Annotator annotate.Annotator
	Extractor entity.Extractor
	Embedder  semantic.Embedder

	Options Options
	Logger  *slog.Logger

	cache *semantic.Cache
}

// New returns a Pipeline wired to the given collaborators, with a new
// embedding cache that lives as long as this Pipeline instance and is
// shared by all of its Run calls.
func New(annotator annotate.Annotator, extractor entity.Extractor, embedder semantic.Embedder, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Annotator: annotator,
		Extractor: extractor,
		Embedder:  embedder,
		Options:   opts,
		Logger:    logger,
		cache:     semantic.NewCache(),
	}
}

// Result is everything one Run produces.
type Result struct {
	Graph       *graph.Graph
	Paths       []beam.Path
	Ranks       []rank.SentenceRank
	Diagnostics *diagnostics.Diagnostics
	SemanticStats semantic.Stats
}

// Run executes stages A through E over one claim/context pair. A fatal
// error (AnnotatorInputError, ResourceExhausted) aborts the run and is
// returned as a *diagnostics.FatalError; any other recoverable error is
// recorded in Result.Diagnostics and the run proceeds.
func (p *Pipeline) Run(ctx context.Context, claimText, contextText string) (*Result, error) {
	diag := diagnostics.New()

	annotatedContext, err := p.Annotator.AnnotateContext(ctx, contextText)
	if err != nil {
		return nil, diagnostics.NewFatal(diagnostics.AnnotatorInputError, fmt.Errorf("pipeline: annotating context: %w", err))
	}
	if err := annotatedContext.Validate(); err != nil {
		return nil, diagnostics.NewFatal(diagnostics.AnnotatorInputError, err)
	}

	claimSentence, err := p.Annotator.AnnotateClaim(ctx, claimText)
	if err != nil {
		return nil, diagnostics.NewFatal(diagnostics.AnnotatorInputError, fmt.Errorf("pipeline: annotating claim: %w", err))
	}
	if err := claimSentence.Validate(); err != nil {
		return nil, diagnostics.NewFatal(diagnostics.AnnotatorInputError, err)
	}

	builder := graph.NewBuilder(p.Options.GraphBuilder)
	g := builder.Build(annotatedContext, claimSentence)

	// Stage B (entity linking) and stage C (semantic edges) both mutate
	// the same graph and run one after the other, matching spec.md §5's
	// single-threaded, no-concurrent-calls-into-one-graph model. Each only
	// reads sentence/word nodes stage A already produced and appends its
	// own disjoint edge kind, so the ordering between them does not affect
	// the result.
	var semanticStats semantic.Stats

	if p.Extractor != nil {
		linker := entity.NewLinker(p.Extractor, p.Logger)
		linker.Link(ctx, g, contextText, annotatedContext.Sentences, diag)
	}

	if p.Embedder != nil && p.Options.Semantic.TopK > 0 {
		semBuilder := semantic.NewBuilder(p.Embedder, p.cache, p.Options.Semantic, p.Logger)
		semanticStats = semBuilder.Build(ctx, g, diag)
	}

	claimID, ok := g.ClaimID()
	if !ok {
		return nil, diagnostics.NewFatal(diagnostics.AnnotatorInputError, fmt.Errorf("pipeline: graph has no claim node"))
	}

	paths := beam.Search(g, claimID, claimSentence.Text, p.Options.Beam)
	ranks := rank.Rank(g, paths, p.Options.RankMethod)

	return &Result{
		Graph:         g,
		Paths:         paths,
		Ranks:         ranks,
		Diagnostics:   diag,
		SemanticStats: semanticStats,
	}, nil
}
