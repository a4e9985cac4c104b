package graph

import (
	"encoding/xml"
	"fmt"
)

// gexfDocument, gexfGraph, etc. mirror enough of the GEXF 1.3 schema to
// round-trip this package's node/edge attributes losslessly (spec.md §6,
// §8's round-trip law). Attribute values that don't apply to a node/edge
// kind serialize as empty strings, never a null/absent sentinel, per
// spec.md §3 invariant 5.
type gexfDocument struct {
	XMLName xml.Name  `xml:"gexf"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	DefaultEdgeType string `xml:"defaultedgetype,attr"`
	// Attributes holds the node-class and edge-class <attributes> blocks.
	// encoding/xml rejects two struct fields with the same element name, so
	// both blocks share one slice.
	Attributes []gexfAttrDefs `xml:"attributes"`
	Nodes      gexfNodes      `xml:"nodes"`
	Edges      gexfEdges      `xml:"edges"`
}

type gexfAttrDefs struct {
	Class string        `xml:"class,attr"`
	Attrs []gexfAttrDef `xml:"attribute"`
}

type gexfAttrDefsEl struct {
	Class string        `xml:"class,attr"`
	Attrs []gexfAttrDef `xml:"attribute"`
}

type gexfAttrDef struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Node []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID    string          `xml:"id,attr"`
	Label string          `xml:"label,attr"`
	Attrs gexfAttrsValues `xml:"attvalues"`
}

type gexfEdges struct {
	Edge []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID     string          `xml:"id,attr"`
	Source string          `xml:"source,attr"`
	Target string          `xml:"target,attr"`
	Attrs  gexfAttrsValues `xml:"attvalues"`
}

type gexfAttrsValues struct {
	Values []gexfAttrValue `xml:"attvalue"`
}

type gexfAttrValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

var nodeAttrDefs = []gexfAttrDef{
	{ID: "kind", Title: "kind", Type: "string"},
	{ID: "text", Title: "text", Type: "string"},
	{ID: "pos", Title: "pos", Type: "string"},
	{ID: "lemma", Title: "lemma", Type: "string"},
	{ID: "type", Title: "type", Type: "string"},
}

var edgeAttrDefs = []gexfAttrDef{
	{ID: "kind", Title: "kind", Type: "string"},
	{ID: "relation", Title: "relation", Type: "string"},
	{ID: "similarity", Title: "similarity", Type: "string"},
}

// ExportGEXF serializes the graph to GEXF-equivalent XML, suitable for
// import by Gephi and other graph-tooling that consumes GEXF, and for
// ImportGEXF below (spec.md §6, §8 round-trip law).
func (g *Graph) ExportGEXF() ([]byte, error) {
	doc := gexfDocument{
		Version: "1.3",
		Graph: gexfGraph{
			DefaultEdgeType: "undirected",
			Attributes: []gexfAttrDefs{
				{Class: "node", Attrs: nodeAttrDefs},
				{Class: "edge", Attrs: edgeAttrDefs},
			},
		},
	}

	for _, n := range g.nodes {
		doc.Graph.Nodes.Node = append(doc.Graph.Nodes.Node, gexfNode{
			ID:    fmt.Sprintf("%d", n.ID),
			Label: n.DisplayText(),
			Attrs: gexfAttrsValues{Values: []gexfAttrValue{
				{For: "kind", Value: n.Kind.String()},
				{For: "text", Value: n.DisplayText()},
				{For: "pos", Value: n.POS},
				{For: "lemma", Value: n.Lemma},
				{For: "type", Value: n.EntityType},
			}},
		})
	}

	for i, e := range g.edges {
		doc.Graph.Edges.Edge = append(doc.Graph.Edges.Edge, gexfEdge{
			ID:     fmt.Sprintf("%d", i),
			Source: fmt.Sprintf("%d", e.From),
			Target: fmt.Sprintf("%d", e.To),
			Attrs: gexfAttrsValues{Values: []gexfAttrValue{
				{For: "kind", Value: e.Kind.String()},
				{For: "relation", Value: e.Relation},
				{For: "similarity", Value: similarityAttr(e)},
			}},
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("graph: marshal GEXF: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func similarityAttr(e Edge) string {
	if e.Kind != EdgeSemantic {
		return ""
	}
	return fmt.Sprintf("%.4f", e.Similarity)
}

// ImportGEXF parses GEXF-equivalent XML produced by ExportGEXF back into a
// Graph. Round-tripping preserves node/edge attribute values by string
// equality (spec.md §8 round-trip law); it does not attempt to rebuild the
// dedup indices used during construction, since an imported graph is
// treated as a finished, read-only artifact.
func ImportGEXF(data []byte) (*Graph, error) {
	var doc gexfDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graph: unmarshal GEXF: %w", err)
	}

	g := New()
	idMap := make(map[string]NodeID, len(doc.Graph.Nodes.Node))

	for _, gn := range doc.Graph.Nodes.Node {
		attrs := attrMap(gn.Attrs)
		n := Node{
			Text:  attrs["text"],
			POS:   attrs["pos"],
			Lemma: attrs["lemma"],
		}
		switch attrs["kind"] {
		case KindWord.String():
			n.Kind = KindWord
		case KindSentence.String():
			n.Kind = KindSentence
			n.SentenceText = attrs["text"]
		case KindClaim.String():
			n.Kind = KindClaim
			n.SentenceText = attrs["text"]
		case KindEntity.String():
			n.Kind = KindEntity
			n.EntityName = attrs["text"]
			n.EntityType = attrs["type"]
		}
		newID := g.addNode(n)
		idMap[gn.ID] = newID
		if n.Kind == KindClaim {
			g.claimID = newID
			g.haveClaim = true
		}
	}

	for _, ge := range doc.Graph.Edges.Edge {
		attrs := attrMap(ge.Attrs)
		from, ok1 := idMap[ge.Source]
		to, ok2 := idMap[ge.Target]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("graph: edge references unknown node %q->%q", ge.Source, ge.Target)
		}
		var kind EdgeKind
		switch attrs["kind"] {
		case EdgeStructural.String():
			kind = EdgeStructural
		case EdgeDependency.String():
			kind = EdgeDependency
		case EdgeEntity.String():
			kind = EdgeEntity
		case EdgeSemantic.String():
			kind = EdgeSemantic
		}
		e := Edge{From: from, To: to, Kind: kind, Relation: attrs["relation"]}
		if sim, ok := attrs["similarity"]; ok && sim != "" {
			fmt.Sscanf(sim, "%f", &e.Similarity)
		}
		g.addEdge(e)
	}

	return g, nil
}

func attrMap(values gexfAttrsValues) map[string]string {
	m := make(map[string]string, len(values.Values))
	for _, v := range values.Values {
		m[v.For] = v.Value
	}
	return m
}
