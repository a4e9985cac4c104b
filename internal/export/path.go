// Package export builds the path-export JSON document described in
// spec.md §6, renders human-readable path and sentence summaries as
// strings, and provides WriteAtomic, the atomic, file-locked write the
// teacher uses for its task store. The summaries are returned for printing;
// this package does not write them to disk.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/josephgoksu/factwing/internal/beam"
	"github.com/josephgoksu/factwing/internal/graph"
	"github.com/josephgoksu/factwing/internal/utils"
)

// PathEdge is one edge entry in the exported path document.
type PathEdge struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Kind string `json:"kind"`
}

// PathRecord is one path entry, matching spec.md §6's path export schema.
type PathRecord struct {
	Nodes           []int      `json:"nodes"`
	Edges           []PathEdge `json:"edges"`
	Score           float64    `json:"score"`
	ReachedSentence bool       `json:"reached_sentence"`
	VisitedEntity   bool       `json:"visited_entity"`
	Pattern         string     `json:"pattern"`
}

// Parameters mirrors the beam search knobs recorded alongside the paths.
type Parameters struct {
	BeamWidth int `json:"beam_width"`
	MaxDepth  int `json:"max_depth"`
	MaxPaths  int `json:"max_paths"`
}

// PathDocument is the full path-export JSON document of spec.md §6.
type PathDocument struct {
	Claim      string       `json:"claim"`
	Parameters Parameters   `json:"parameters"`
	Paths      []PathRecord `json:"paths"`
}

// BuildPathDocument converts a beam search result into the exported
// document shape.
func BuildPathDocument(claimText string, params beam.Params, paths []beam.Path) PathDocument {
	records := make([]PathRecord, len(paths))
	for i, p := range paths {
		nodes := make([]int, len(p.Nodes))
		for j, n := range p.Nodes {
			nodes[j] = int(n)
		}
		edges := make([]PathEdge, len(p.Edges))
		for j, e := range p.Edges {
			edges[j] = PathEdge{From: int(e.From), To: int(e.To), Kind: e.Kind.String()}
		}
		records[i] = PathRecord{
			Nodes:           nodes,
			Edges:           edges,
			Score:           p.Score,
			ReachedSentence: p.ReachedSentence,
			VisitedEntity:   p.VisitedEntity,
			Pattern:         p.Pattern,
		}
	}
	return PathDocument{
		Claim: claimText,
		Parameters: Parameters{
			BeamWidth: params.BeamWidth,
			MaxDepth:  params.MaxDepth,
			MaxPaths:  params.MaxPaths,
		},
		Paths: records,
	}
}

// MarshalPathDocument renders doc as indented JSON, the serialization
// format spec.md §6 names for the path export.
func MarshalPathDocument(doc PathDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshaling path document: %w", err)
	}
	return data, nil
}

// nodeLabel gives a short human label for one node, used by the summary
// renderer (graph.go's DisplayText, truncated to stay single-line).
func nodeLabel(g *graph.Graph, id graph.NodeID) string {
	n := g.Node(id)
	text := utils.Truncate(n.DisplayText(), 40)
	return fmt.Sprintf("%s(%s)", n.Kind.Letter(), text)
}
