package beam

import (
	"testing"

	"github.com/josephgoksu/factwing/internal/graph"
)

// buildSimpleGraph wires Claim -> Word("nuoc") -> Sentence, a minimal path
// with a word-overlap hit and a sentence arrival.
func buildSimpleGraph() (*graph.Graph, graph.NodeID) {
	g := graph.New()
	claimID := g.SetClaim("SAWACO ngung cap nuoc")
	wordID := g.AddWord("nuoc", "N", "nuoc")
	sentID := g.AddSentence("SAWACO thong bao tam ngung cap nuoc")
	g.Connect(wordID, claimID)
	g.Connect(wordID, sentID)
	return g, claimID
}

func TestSearchFindsSentenceViaWordOverlap(t *testing.T) {
	g, claimID := buildSimpleGraph()
	paths := Search(g, claimID, "SAWACO ngung cap nuoc", DefaultParams())

	if len(paths) == 0 {
		t.Fatal("expected at least one path")
	}
	found := false
	for _, p := range paths {
		if p.ReachedSentence {
			found = true
			if p.Pattern != "C->W->S" {
				t.Fatalf("expected pattern C->W->S, got %s", p.Pattern)
			}
		}
	}
	if !found {
		t.Fatal("expected at least one path to reach a sentence")
	}
}

func TestSearchMaxDepthZeroReturnsNoCompletedPaths(t *testing.T) {
	g, claimID := buildSimpleGraph()
	params := DefaultParams()
	params.MaxDepth = 0

	paths := Search(g, claimID, "claim", params)

	for _, p := range paths {
		if p.ReachedSentence {
			t.Fatal("expected MaxDepth=0 to prevent any path from reaching a sentence")
		}
	}
}

func TestSearchNoSentenceReachedReturnsPartialPaths(t *testing.T) {
	g := graph.New()
	claimID := g.SetClaim("claim")
	wordID := g.AddWord("isolated", "N", "isolated")
	g.Connect(wordID, claimID)

	paths := Search(g, claimID, "claim", DefaultParams())

	if len(paths) == 0 {
		t.Fatal("expected partial paths even with no sentence reachable")
	}
	for _, p := range paths {
		if p.ReachedSentence {
			t.Fatal("no sentence exists in this graph; none should be marked reached")
		}
	}
}

func TestSearchNeverRevisitsNodeWithinAPath(t *testing.T) {
	g, claimID := buildSimpleGraph()
	paths := Search(g, claimID, "claim", DefaultParams())

	for _, p := range paths {
		seen := make(map[graph.NodeID]bool)
		for _, n := range p.Nodes {
			if seen[n] {
				t.Fatalf("path revisited node %d: %v", n, p.Nodes)
			}
			seen[n] = true
		}
	}
}

func TestSearchClaimWithNoNeighborsReturnsTrivialPath(t *testing.T) {
	g := graph.New()
	claimID := g.SetClaim("claim")

	paths := Search(g, claimID, "claim", DefaultParams())
	if len(paths) != 1 {
		t.Fatalf("expected exactly the trivial single-node path, got %d", len(paths))
	}
	if paths[0].ReachedSentence {
		t.Fatal("expected the lone claim node path to not reach a sentence")
	}
}

func TestSearchTruncatesToMaxPaths(t *testing.T) {
	g := graph.New()
	claimID := g.SetClaim("claim")
	for i := 0; i < 10; i++ {
		w := g.AddWord(string(rune('a'+i)), "N", string(rune('a'+i)))
		g.Connect(w, claimID)
		s := g.AddSentence("sentence")
		g.Connect(w, s)
	}
	params := DefaultParams()
	params.MaxPaths = 3
	params.BeamWidth = 20

	paths := Search(g, claimID, "claim", params)
	if len(paths) > 3 {
		t.Fatalf("expected at most 3 paths, got %d", len(paths))
	}
}
