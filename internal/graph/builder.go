package graph

import "github.com/josephgoksu/factwing/internal/annotate"

// DefaultContentPOS is the default "content" POS tag set retained by POS
// filtering (spec.md §4.A): nouns, verbs, adjectives, adverbs, pronouns,
// and numerals.
var DefaultContentPOS = []string{"N", "Np", "V", "A", "Nc", "M", "R", "P"}

// BuilderOptions configures the Graph Builder (spec.md §4.A, §6).
type BuilderOptions struct {
	// POSFilterEnabled toggles POS filtering. DefaultBuilderOptions sets it
	// to true; the zero value disables filtering.
	POSFilterEnabled bool
	// POSFilterTags overrides DefaultContentPOS when non-empty.
	POSFilterTags []string
}

// DefaultBuilderOptions returns the spec.md §4.A defaults.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		POSFilterEnabled: true,
		POSFilterTags:    append([]string(nil), DefaultContentPOS...),
	}
}

// Builder materializes Word/Sentence/Claim nodes and structural +
// dependency edges from annotator output (stage A, spec.md §4.A).
type Builder struct {
	opts    BuilderOptions
	allowed map[string]bool
}

// NewBuilder returns a Builder configured by opts. If opts.POSFilterTags is
// empty, DefaultContentPOS is used.
func NewBuilder(opts BuilderOptions) *Builder {
	tags := opts.POSFilterTags
	if len(tags) == 0 {
		tags = DefaultContentPOS
	}
	allowed := make(map[string]bool, len(tags))
	for _, t := range tags {
		allowed[t] = true
	}
	return &Builder{opts: opts, allowed: allowed}
}

func (b *Builder) keep(pos string) bool {
	if !b.opts.POSFilterEnabled {
		return true
	}
	return b.allowed[pos]
}

// Build runs stage A over an annotated context and claim, returning a new
// Graph. Token iteration follows input order and node IDs are assigned
// sequentially on first creation (spec.md §4.A "Determinism").
func (b *Builder) Build(ctx annotate.Context, claim annotate.Sentence) *Graph {
	g := New()

	for _, sentence := range ctx.Sentences {
		sentenceID := g.AddSentence(sentence.Text)
		b.linkSentence(g, sentence, sentenceID)
	}

	claimID := g.SetClaim(claim.Text)
	b.linkSentence(g, claim, claimID)

	return g
}

// linkSentence adds Word nodes for the tokens of one annotated sentence
// (applying POS filtering), connects each surviving word to utteranceID via
// a structural edge, and adds dependency edges between surviving words.
func (b *Builder) linkSentence(g *Graph, sentence annotate.Sentence, utteranceID NodeID) {
	// wordIDByIndex maps a token's 1-based sentence-local index to the Word
	// node it produced; tokens dropped by POS filtering have no entry.
	wordIDByIndex := make(map[int]NodeID, len(sentence.Tokens))
	survived := make(map[int]bool, len(sentence.Tokens))

	for _, tok := range sentence.Tokens {
		if !b.keep(tok.POSTag) {
			continue
		}
		wordID := g.AddWord(tok.WordForm, tok.POSTag, tok.Lemma)
		wordIDByIndex[tok.Index] = wordID
		survived[tok.Index] = true
		g.Connect(wordID, utteranceID)
	}

	for _, tok := range sentence.Tokens {
		if !survived[tok.Index] {
			continue
		}
		if tok.HeadIndex == 0 {
			// ROOT: spec.md §4.A says dependencies are "skipped when
			// head_index == 0".
			continue
		}
		headID, ok := wordIDByIndex[tok.HeadIndex]
		if !ok {
			// The head either didn't survive POS filtering or the
			// annotator produced an inconsistent head index. Both cases
			// are silently dropped per spec.md §4.A's error-handling
			// rule: annotator inconsistencies must not abort the build.
			continue
		}
		depID := wordIDByIndex[tok.Index]
		g.ConnectDependency(depID, headID, tok.DepLabel)
	}
}
