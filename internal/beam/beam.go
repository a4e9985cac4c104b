// Package beam implements the Beam Search Engine (stage D, spec.md §4.D):
// a width-capped frontier search from the Claim node that scores paths by
// lexical overlap, entity hits, and semantic/dependency edge strength, and
// preferentially surfaces paths that terminate at Sentence nodes.
package beam

import (
	"sort"
	"strings"

	"github.com/josephgoksu/factwing/internal/graph"
)

// Scoring constants, named rather than inlined so a caller can see and
// override the calibration via Params without hunting through the search
// loop (spec.md §4.D, §9).
const (
	StepCost           = -0.1
	WordOverlapBonus   = 1.0
	EntityHitBonus     = 2.0
	SentenceBonus      = 5.0
	SemanticEdgeWeight = 2.0
	DependencyBonus    = 0.5
	TerminalBonus      = 3.0
)

// Params configures one search run.
type Params struct {
	BeamWidth int
	MaxDepth  int
	MaxPaths  int

	StepCost           float64
	WordOverlapBonus   float64
	EntityHitBonus     float64
	SentenceBonus      float64
	SemanticEdgeWeight float64
	DependencyBonus    float64
	TerminalBonus      float64
}

// DefaultParams mirrors spec.md §4.D's defaults and calibration.
func DefaultParams() Params {
	return Params{
		BeamWidth:          10,
		MaxDepth:           6,
		MaxPaths:           20,
		StepCost:           StepCost,
		WordOverlapBonus:   WordOverlapBonus,
		EntityHitBonus:     EntityHitBonus,
		SentenceBonus:      SentenceBonus,
		SemanticEdgeWeight: SemanticEdgeWeight,
		DependencyBonus:    DependencyBonus,
		TerminalBonus:      TerminalBonus,
	}
}

// Path is one traversal from the Claim node, per spec.md §4.D.
type Path struct {
	Nodes           []graph.NodeID
	Edges           []graph.Edge
	Score           float64
	ReachedSentence bool
	VisitedEntity   bool
	Pattern         string

	visited map[graph.NodeID]bool
	seq     int // insertion order, for the tie-break rule
}

func (p *Path) last() graph.NodeID {
	return p.Nodes[len(p.Nodes)-1]
}

func (p *Path) clone() *Path {
	nodes := make([]graph.NodeID, len(p.Nodes))
	copy(nodes, p.Nodes)
	edges := make([]graph.Edge, len(p.Edges))
	copy(edges, p.Edges)
	visited := make(map[graph.NodeID]bool, len(p.visited))
	for k, v := range p.visited {
		visited[k] = v
	}
	return &Path{
		Nodes:           nodes,
		Edges:           edges,
		Score:           p.Score,
		ReachedSentence: p.ReachedSentence,
		VisitedEntity:   p.VisitedEntity,
		Pattern:         p.Pattern,
		visited:         visited,
	}
}

// finalScore returns the path's score including the terminal bonus, which
// only applies once the path is closed off (spec.md §4.D).
func (p *Path) finalScore(params Params) float64 {
	if p.ReachedSentence {
		return p.Score + params.TerminalBonus
	}
	return p.Score
}

// Search runs the frontier expansion described in spec.md §4.D, starting
// from claimID, and returns up to params.MaxPaths completed paths sorted
// by descending final score. Completed paths are those whose last node is
// a Sentence; if none are ever reached, the best partial paths are
// returned instead (never an error - an empty result is valid).
func Search(g *graph.Graph, claimID graph.NodeID, claimText string, params Params) []Path {
	claimWords := tokenizeClaim(claimText)

	root := &Path{
		Nodes:   []graph.NodeID{claimID},
		visited: map[graph.NodeID]bool{claimID: true},
		Pattern: g.Node(claimID).Kind.Letter(),
	}
	frontier := []*Path{root}
	var completed []*Path
	seq := 0

	for depth := 1; depth <= params.MaxDepth && len(frontier) > 0; depth++ {
		var candidates []*Path

		for _, p := range frontier {
			for _, nb := range g.Neighbors(p.last()) {
				if p.visited[nb.Node] {
					continue
				}
				child := p.clone()
				extendPath(g, child, nb, claimWords, params)
				seq++
				child.seq = seq
				candidates = append(candidates, child)

				if g.Node(child.last()).Kind == graph.KindSentence {
					completed = append(completed, child)
				}
			}
		}

		if len(candidates) == 0 {
			break
		}

		sortPaths(candidates, params)
		if len(candidates) > params.BeamWidth {
			candidates = candidates[:params.BeamWidth]
		}
		frontier = candidates

		if admissibilityReached(completed, frontier, params) {
			break
		}
	}

	// If no path ever reached a Sentence, fall back to the best partial
	// paths from whatever frontier/candidates remain (spec.md §4.D
	// failure semantics).
	pool := completed
	if len(pool) == 0 {
		pool = frontier
	}

	sortPaths(pool, params)
	if len(pool) > params.MaxPaths {
		pool = pool[:params.MaxPaths]
	}

	out := make([]Path, len(pool))
	for i, p := range pool {
		p.Score = p.finalScore(params)
		out[i] = *p
	}
	return out
}

func extendPath(g *graph.Graph, p *Path, nb graph.Neighbor, claimWords map[string]bool, params Params) {
	p.Nodes = append(p.Nodes, nb.Node)
	p.Edges = append(p.Edges, nb.Edge)
	p.visited[nb.Node] = true
	p.Pattern += "->" + g.Node(nb.Node).Kind.Letter()

	p.Score += params.StepCost

	node := g.Node(nb.Node)
	switch node.Kind {
	case graph.KindWord:
		if claimWords[strings.ToLower(node.Text)] {
			p.Score += params.WordOverlapBonus
		}
	case graph.KindEntity:
		p.Score += params.EntityHitBonus
		p.VisitedEntity = true
	case graph.KindSentence:
		p.Score += params.SentenceBonus
		p.ReachedSentence = true
	}

	switch nb.Edge.Kind {
	case graph.EdgeSemantic:
		p.Score += nb.Edge.Similarity * params.SemanticEdgeWeight
	case graph.EdgeDependency:
		p.Score += params.DependencyBonus
	}
}

// sortPaths sorts by descending final score, tie-breaking by shorter
// length then earlier insertion order (spec.md §4.D step 3).
func sortPaths(paths []*Path, params Params) {
	sort.Slice(paths, func(i, j int) bool {
		si, sj := paths[i].finalScore(params), paths[j].finalScore(params)
		if si != sj {
			return si > sj
		}
		if len(paths[i].Nodes) != len(paths[j].Nodes) {
			return len(paths[i].Nodes) < len(paths[j].Nodes)
		}
		return paths[i].seq < paths[j].seq
	})
}

// admissibilityReached reports whether MaxPaths completed paths exist and
// every live frontier path, granted a fixed margin of one sentence-arrival
// bonus plus the terminal bonus, still scores no higher than the weakest
// completed one (spec.md §4.D: "a generous admissibility margin"). The
// margin does not grow with the number of remaining depth steps.
func admissibilityReached(completed, frontier []*Path, params Params) bool {
	if len(completed) < params.MaxPaths {
		return false
	}
	lowest := completed[0].finalScore(params)
	for _, p := range completed {
		if s := p.finalScore(params); s < lowest {
			lowest = s
		}
	}
	margin := params.SentenceBonus + params.TerminalBonus
	for _, p := range frontier {
		if p.finalScore(params)+margin > lowest {
			return false
		}
	}
	return true
}

func tokenizeClaim(text string) map[string]bool {
	words := make(map[string]bool)
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words[strings.ToLower(string(cur))] = true
			cur = cur[:0]
		}
	}
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '.' || r == ',' || r == '!' || r == '?' {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
