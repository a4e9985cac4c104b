package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/josephgoksu/factwing/internal/annotate"
	"github.com/josephgoksu/factwing/internal/diagnostics"
	"github.com/josephgoksu/factwing/internal/graph"
)

type stubExtractor struct {
	entities []Entity
	err      error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) ([]Entity, error) {
	return s.entities, s.err
}

func buildTestGraph(sentences []string) (*graph.Graph, []annotate.Sentence) {
	g := graph.New()
	anns := make([]annotate.Sentence, 0, len(sentences))
	for _, text := range sentences {
		g.AddSentence(text)
		anns = append(anns, annotate.Sentence{Text: text})
	}
	return g, anns
}

func TestLinkConnectsEntityToMatchingSentences(t *testing.T) {
	g, sentences := buildTestGraph([]string{
		"SAWACO thong bao tam ngung cap nuoc.",
		"Nguoi dan can du tru nuoc sach.",
	})
	extractor := &stubExtractor{entities: []Entity{{Name: "SAWACO", Type: "ORG"}}}
	linker := NewLinker(extractor, nil)
	diag := diagnostics.New()

	linker.Link(context.Background(), g, "context text", sentences, diag)

	if g.NodeCount(graph.KindEntity) != 1 {
		t.Fatalf("expected 1 entity node, got %d", g.NodeCount(graph.KindEntity))
	}
	if g.EdgeCount(graph.EdgeEntity) != 1 {
		t.Fatalf("expected 1 entity edge (sentence 1 only), got %d", g.EdgeCount(graph.EdgeEntity))
	}
}

func TestLinkCaseInsensitiveMatch(t *testing.T) {
	g, sentences := buildTestGraph([]string{"sawaco thong bao"})
	extractor := &stubExtractor{entities: []Entity{{Name: "SAWACO", Type: "ORG"}}}
	linker := NewLinker(extractor, nil)
	diag := diagnostics.New()

	linker.Link(context.Background(), g, "", sentences, diag)

	if g.EdgeCount(graph.EdgeEntity) != 1 {
		t.Fatalf("expected case-insensitive match to produce 1 entity edge, got %d", g.EdgeCount(graph.EdgeEntity))
	}
}

func TestLinkExtractorErrorRecordsExternalUnavailable(t *testing.T) {
	g, sentences := buildTestGraph([]string{"text"})
	extractor := &stubExtractor{err: errors.New("boom")}
	linker := NewLinker(extractor, nil)
	diag := diagnostics.New()

	linker.Link(context.Background(), g, "", sentences, diag)

	if g.NodeCount(graph.KindEntity) != 0 {
		t.Fatalf("expected zero entity nodes on extractor failure, got %d", g.NodeCount(graph.KindEntity))
	}
	if diag.Count(diagnostics.ExternalUnavailable) != 1 {
		t.Fatalf("expected 1 ExternalUnavailable diagnostic, got %d", diag.Count(diagnostics.ExternalUnavailable))
	}
}

func TestLinkEmptyResultRecordsExternalUnavailable(t *testing.T) {
	g, sentences := buildTestGraph([]string{"text"})
	extractor := &stubExtractor{entities: nil}
	linker := NewLinker(extractor, nil)
	diag := diagnostics.New()

	linker.Link(context.Background(), g, "", sentences, diag)

	if diag.Count(diagnostics.ExternalUnavailable) != 1 {
		t.Fatalf("expected 1 ExternalUnavailable diagnostic for empty extractor result, got %d", diag.Count(diagnostics.ExternalUnavailable))
	}
}

func TestParseEntitiesRepairsMalformedJSON(t *testing.T) {
	malformed := "[{name: 'SAWACO', type: 'ORG'}]"
	entities, err := ParseEntities(malformed)
	if err != nil {
		t.Fatalf("expected malformed-but-repairable JSON to parse, got error: %v", err)
	}
	if len(entities) != 1 || entities[0].Name != "SAWACO" {
		t.Fatalf("unexpected parse result: %+v", entities)
	}
}
