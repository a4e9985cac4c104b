package graph

import "testing"

func TestGEXFRoundTrip(t *testing.T) {
	g := New()
	claimID := g.SetClaim("claim text")
	sentID := g.AddSentence("sentence text")
	wordID := g.AddWord("nước", "N", "nước")
	g.Connect(wordID, sentID)
	g.Connect(wordID, claimID)
	entID := g.AddEntity("SAWACO", "ORG")
	g.ConnectEntity(entID, sentID)
	word2 := g.AddWord("cấp", "N", "cấp")
	g.ConnectSemantic(wordID, word2, 0.8765)
	g.ConnectDependency(word2, wordID, "nmod")

	data, err := g.ExportGEXF()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	g2, err := ImportGEXF(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if g2.NodeCount(KindWord) != g.NodeCount(KindWord) {
		t.Fatalf("word count mismatch: got %d want %d", g2.NodeCount(KindWord), g.NodeCount(KindWord))
	}
	if g2.NodeCount(KindSentence) != g.NodeCount(KindSentence) {
		t.Fatalf("sentence count mismatch")
	}
	if g2.NodeCount(KindClaim) != 1 {
		t.Fatalf("expected 1 claim node after round trip, got %d", g2.NodeCount(KindClaim))
	}
	if g2.NodeCount(KindEntity) != g.NodeCount(KindEntity) {
		t.Fatalf("entity count mismatch")
	}
	if g2.EdgeCount(EdgeStructural) != g.EdgeCount(EdgeStructural) {
		t.Fatalf("structural edge count mismatch")
	}
	if g2.EdgeCount(EdgeDependency) != g.EdgeCount(EdgeDependency) {
		t.Fatalf("dependency edge count mismatch")
	}
	if g2.EdgeCount(EdgeEntity) != g.EdgeCount(EdgeEntity) {
		t.Fatalf("entity edge count mismatch")
	}
	if g2.EdgeCount(EdgeSemantic) != g.EdgeCount(EdgeSemantic) {
		t.Fatalf("semantic edge count mismatch")
	}

	// Check attribute value equality for the semantic edge.
	var found bool
	for _, e := range g2.Edges() {
		if e.Kind == EdgeSemantic {
			found = true
			if e.Similarity != 0.8765 {
				t.Fatalf("expected similarity 0.8765 to round-trip exactly, got %v", e.Similarity)
			}
		}
	}
	if !found {
		t.Fatal("expected a semantic edge after round trip")
	}
}

func TestExportMissingAttributesAreEmptyString(t *testing.T) {
	g := New()
	g.AddSentence("no attributes here")
	data, err := g.ExportGEXF()
	if err != nil {
		t.Fatal(err)
	}
	g2, err := ImportGEXF(data)
	if err != nil {
		t.Fatal(err)
	}
	nodes := g2.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].POS != "" || nodes[0].Lemma != "" {
		t.Fatalf("expected missing attributes to serialize as empty strings, got pos=%q lemma=%q", nodes[0].POS, nodes[0].Lemma)
	}
}
