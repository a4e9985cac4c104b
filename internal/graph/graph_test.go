package graph

import "testing"

func TestAddWordDedup(t *testing.T) {
	g := New()
	id1 := g.AddWord("nước", "N", "nước")
	id2 := g.AddWord("nước", "N", "nước")
	if id1 != id2 {
		t.Fatalf("expected duplicate add_word to be a no-op, got %d and %d", id1, id2)
	}
	if g.NodeCount(KindWord) != 1 {
		t.Fatalf("expected 1 word node, got %d", g.NodeCount(KindWord))
	}
}

func TestAddWordDistinguishesByPOS(t *testing.T) {
	g := New()
	id1 := g.AddWord("cấp", "N", "cấp")
	id2 := g.AddWord("cấp", "V", "cấp")
	if id1 == id2 {
		t.Fatalf("expected distinct (text, pos) pairs to be distinct nodes")
	}
	if g.NodeCount(KindWord) != 2 {
		t.Fatalf("expected 2 word nodes, got %d", g.NodeCount(KindWord))
	}
}

func TestSetClaimTwicePanics(t *testing.T) {
	g := New()
	g.SetClaim("claim one")
	defer func() {
		if recover() == nil {
			t.Fatal("expected second SetClaim to panic")
		}
	}()
	g.SetClaim("claim two")
}

func TestAtMostOneEdgePerKind(t *testing.T) {
	g := New()
	w1 := g.AddWord("a", "N", "a")
	w2 := g.AddWord("b", "N", "b")
	if !g.ConnectSemantic(w1, w2, 0.9) {
		t.Fatal("expected first semantic edge to be added")
	}
	if g.ConnectSemantic(w1, w2, 0.95) {
		t.Fatal("expected second semantic edge between the same pair to be rejected")
	}
	if g.EdgeCount(EdgeSemantic) != 1 {
		t.Fatalf("expected exactly 1 semantic edge, got %d", g.EdgeCount(EdgeSemantic))
	}
}

func TestConnectSemanticRequiresSamePOS(t *testing.T) {
	g := New()
	w1 := g.AddWord("a", "N", "a")
	w2 := g.AddWord("b", "V", "b")
	if g.ConnectSemantic(w1, w2, 0.99) {
		t.Fatal("expected semantic edge between different POS tags to be rejected")
	}
	if g.EdgeCount(EdgeSemantic) != 0 {
		t.Fatalf("expected 0 semantic edges, got %d", g.EdgeCount(EdgeSemantic))
	}
}

func TestConnectSemanticRoundsSimilarity(t *testing.T) {
	g := New()
	w1 := g.AddWord("a", "N", "a")
	w2 := g.AddWord("b", "N", "b")
	g.ConnectSemantic(w1, w2, 0.123456)
	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Similarity != 0.1235 {
		t.Fatalf("expected similarity rounded to 0.1235, got %v", edges[0].Similarity)
	}
}

func TestNeighborsBothDirections(t *testing.T) {
	g := New()
	claimID := g.SetClaim("claim")
	wordID := g.AddWord("a", "N", "a")
	g.Connect(wordID, claimID)

	fromClaim := g.Neighbors(claimID)
	if len(fromClaim) != 1 || fromClaim[0].Node != wordID {
		t.Fatalf("expected claim to have word as neighbor, got %+v", fromClaim)
	}
	fromWord := g.Neighbors(wordID)
	if len(fromWord) != 1 || fromWord[0].Node != claimID {
		t.Fatalf("expected word to have claim as neighbor, got %+v", fromWord)
	}
}

func TestSentencesAreNeverDeduped(t *testing.T) {
	g := New()
	id1 := g.AddSentence("same text")
	id2 := g.AddSentence("same text")
	if id1 == id2 {
		t.Fatal("expected distinct Sentence nodes for repeated AddSentence calls")
	}
	if g.NodeCount(KindSentence) != 2 {
		t.Fatalf("expected 2 sentence nodes, got %d", g.NodeCount(KindSentence))
	}
}
