// Package entity implements the Entity Linker (stage B, spec.md §4.B): it
// calls an external entity extractor once per context, adds Entity nodes,
// and links them to sentences by substring match.
package entity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/josephgoksu/factwing/internal/annotate"
	"github.com/josephgoksu/factwing/internal/diagnostics"
	"github.com/josephgoksu/factwing/internal/graph"
	"github.com/josephgoksu/factwing/internal/utils"
	"golang.org/x/text/cases"
)

// Entity is one entity extracted from the context (spec.md §6).
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Extractor is the external collaborator contract of spec.md §6:
// extract(context_text) -> list<{name, type}>, strict JSON.
type Extractor interface {
	Extract(ctx context.Context, contextText string) ([]Entity, error)
}

// Linker runs stage B over a built graph.
type Linker struct {
	extractor Extractor
	logger    *slog.Logger
	foldCase  cases.Caser
}

// NewLinker returns a Linker that calls extractor to discover entities. A
// nil logger falls back to slog.Default().
func NewLinker(extractor Extractor, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		extractor: extractor,
		logger:    logger,
		// golang.org/x/text/cases.Fold gives locale-independent,
		// Unicode-correct case folding, which plain strings.ToLower does
		// not guarantee for Vietnamese's combining diacritics.
		foldCase: cases.Fold(),
	}
}

// Link calls the extractor once with contextText, then for every returned
// entity adds an Entity node (deduped by exact name) and an `entity` edge
// to every sentence whose surface text contains the entity name
// (case-insensitive). Extractor failures - transport errors, malformed
// JSON, or an empty result - are logged at WARN, recorded in diag as
// ExternalUnavailable, and the linker proceeds with zero Entity nodes
// (spec.md §4.B, §7).
func (l *Linker) Link(ctx context.Context, g *graph.Graph, contextText string, sentences []annotate.Sentence, diag *diagnostics.Diagnostics) {
	entities, err := l.extractor.Extract(ctx, contextText)
	if err != nil {
		l.logger.Warn("entity extractor call failed; proceeding with zero entities", "error", err)
		diag.Record(diagnostics.ExternalUnavailable, err)
		return
	}
	if len(entities) == 0 {
		l.logger.Warn("entity extractor returned zero entities")
		diag.Record(diagnostics.ExternalUnavailable, nil)
		return
	}

	// sentenceID -> NodeID, aligned by input order with `sentences`. The
	// caller guarantees g was built from exactly this sentence list in
	// this order (stage A's contract).
	sentenceNodes := g.Nodes()
	sentenceIDToNode := make(map[int]graph.NodeID)
	for _, n := range sentenceNodes {
		if n.Kind == graph.KindSentence {
			sentenceIDToNode[n.SentenceID] = n.ID
		}
	}

	for _, e := range entities {
		if e.Name == "" {
			continue
		}
		entityID := g.AddEntity(e.Name, e.Type)
		needle := l.foldCase.String(e.Name)
		for i, s := range sentences {
			haystack := l.foldCase.String(s.Text)
			if strings.Contains(haystack, needle) {
				sentenceID := i + 1 // stable ordinal, 1-based, matches AddSentence
				if nodeID, ok := sentenceIDToNode[sentenceID]; ok {
					g.ConnectEntity(entityID, nodeID)
				}
			}
		}
	}
}

// ParseEntities parses a (possibly malformed) JSON array of {name, type}
// objects from an LLM response (spec.md §6).
func ParseEntities(response string) ([]Entity, error) {
	return utils.ExtractJSONArray[[]Entity](response)
}
