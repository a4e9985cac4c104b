// Package rank implements the Sentence Ranker (stage E, spec.md §4.E): it
// aggregates a beam-search path set into per-sentence evidence scores and
// sorts them by any of five ranking methods.
package rank

import (
	"sort"

	"github.com/josephgoksu/factwing/internal/beam"
	"github.com/josephgoksu/factwing/internal/graph"
)

// Method selects which aggregate to sort by.
type Method string

const (
	Frequency Method = "frequency"
	AvgScore  Method = "avg_score"
	MaxScore  Method = "max_score"
	TotalScore Method = "total_score"
	Combined  Method = "combined"
)

// SentenceRank is one ranked sentence, per spec.md §4.E.
type SentenceRank struct {
	SentenceID   int
	Text         string
	Frequency    int
	AvgScore     float64
	MaxScore     float64
	TotalScore   float64
	CombinedScore float64
}

// Rank aggregates paths by the Sentence node each one reaches (paths that
// never reach a sentence contribute nothing) and returns one SentenceRank
// per distinct sentence, sorted by method descending, ties broken by
// ascending sentence_id (spec.md §4.E). The result is invariant to the
// input path order.
func Rank(g *graph.Graph, paths []beam.Path, method Method) []SentenceRank {
	type accumulator struct {
		text   string
		scores []float64
	}
	bySentence := make(map[int]*accumulator)

	for _, p := range paths {
		if !p.ReachedSentence || len(p.Nodes) == 0 {
			continue
		}
		last := p.Nodes[len(p.Nodes)-1]
		node := g.Node(last)
		if node.Kind != graph.KindSentence {
			continue
		}
		acc, ok := bySentence[node.SentenceID]
		if !ok {
			acc = &accumulator{text: node.SentenceText}
			bySentence[node.SentenceID] = acc
		}
		acc.scores = append(acc.scores, p.Score)
	}

	ranks := make([]SentenceRank, 0, len(bySentence))
	for sentenceID, acc := range bySentence {
		var total, max float64
		max = acc.scores[0]
		for _, s := range acc.scores {
			total += s
			if s > max {
				max = s
			}
		}
		freq := len(acc.scores)
		avg := total / float64(freq)
		ranks = append(ranks, SentenceRank{
			SentenceID:    sentenceID,
			Text:          acc.text,
			Frequency:     freq,
			AvgScore:      avg,
			MaxScore:      max,
			TotalScore:    total,
			CombinedScore: float64(freq) * avg,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		vi, vj := keyFor(ranks[i], method), keyFor(ranks[j], method)
		if vi != vj {
			return vi > vj
		}
		return ranks[i].SentenceID < ranks[j].SentenceID
	})

	return ranks
}

func keyFor(r SentenceRank, method Method) float64 {
	switch method {
	case Frequency:
		return float64(r.Frequency)
	case AvgScore:
		return r.AvgScore
	case MaxScore:
		return r.MaxScore
	case TotalScore:
		return r.TotalScore
	case Combined:
		return r.CombinedScore
	default:
		return r.CombinedScore
	}
}
