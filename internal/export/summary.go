package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/factwing/internal/graph"
	"github.com/josephgoksu/factwing/internal/rank"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	summaryScoreStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	summaryPathStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
)

// RenderSentenceSummary produces the human-readable top-sentences summary
// named in spec.md §6. Its layout is not part of the export contract, but
// is kept stable across runs for diffability.
func RenderSentenceSummary(ranks []rank.SentenceRank, limit int) string {
	var b strings.Builder

	b.WriteString(summaryHeaderStyle.Render(fmt.Sprintf("Top %d evidence sentences", min(limit, len(ranks)))))
	b.WriteString("\n\n")

	if len(ranks) == 0 {
		b.WriteString("No evidence sentences found.\n")
		return b.String()
	}

	for i, r := range ranks {
		if i >= limit {
			break
		}
		fmt.Fprintf(&b, "%2d. %s\n", i+1, r.Text)
		fmt.Fprintf(&b, "    %s\n\n", summaryScoreStyle.Render(fmt.Sprintf(
			"frequency=%d avg=%.3f max=%.3f total=%.3f combined=%.3f",
			r.Frequency, r.AvgScore, r.MaxScore, r.TotalScore, r.CombinedScore)))
	}
	return b.String()
}

// RenderPathSummary renders every path's node-by-node trace, for quick
// visual inspection of what the beam search actually found.
func RenderPathSummary(g *graph.Graph, doc PathDocument) string {
	var b strings.Builder
	b.WriteString(summaryHeaderStyle.Render(fmt.Sprintf("%d paths for claim %q", len(doc.Paths), doc.Claim)))
	b.WriteString("\n\n")

	for i, p := range doc.Paths {
		labels := make([]string, len(p.Nodes))
		for j, id := range p.Nodes {
			labels[j] = nodeLabel(g, graph.NodeID(id))
		}
		fmt.Fprintf(&b, "%2d. %s\n", i+1, summaryPathStyle.Render(strings.Join(labels, " -> ")))
		fmt.Fprintf(&b, "    score=%.3f reached_sentence=%v pattern=%s\n\n", p.Score, p.ReachedSentence, p.Pattern)
	}
	return b.String()
}
