// Package annotate defines the input contract the Vietnamese morphological
// annotator must satisfy (spec.md §4.A, §6). The annotator itself is out of
// scope for this engine; this package only carries the record shape, a
// validator for it, and a deterministic stub useful in tests.
package annotate

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Token is one annotated word occurrence, as produced by the external
// annotator. Index is 1-based within its sentence; HeadIndex is 0 for ROOT.
type Token struct {
	Index     int    `json:"index" validate:"required,min=1"`
	WordForm  string `json:"word_form" validate:"required"`
	POSTag    string `json:"pos_tag" validate:"required"`
	Lemma     string `json:"lemma"`
	HeadIndex int    `json:"head_index" validate:"min=0"`
	DepLabel  string `json:"dep_label"`
}

// Sentence is one annotated context sentence: its surface text plus its
// tokens in order.
type Sentence struct {
	Text   string  `json:"text" validate:"required"`
	Tokens []Token `json:"tokens" validate:"required,dive"`
}

// Validate checks that a sentence record is well-formed enough to build a
// graph from at all: every required field is present (struct tags above)
// and no two tokens in the sentence share an Index. Violations here are
// the AnnotatorInputError case of spec.md §7 - fatal to the build, because
// an annotator that can't number its own tokens consistently cannot be
// trusted for anything downstream.
//
// A HeadIndex that doesn't resolve to any token's Index is not checked
// here: spec.md §4.A treats that as an ordinary annotator inconsistency
// that must not abort the build, so the Graph Builder drops the dangling
// dependency edge silently instead of failing Validate.
func (s Sentence) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("annotate: invalid sentence record: %w", err)
	}
	seen := make(map[int]bool, len(s.Tokens))
	for _, t := range s.Tokens {
		if seen[t.Index] {
			return fmt.Errorf("annotate: duplicate token index %d in sentence %q", t.Index, s.Text)
		}
		seen[t.Index] = true
	}
	return nil
}

// Context is an ordered list of annotated sentences, the input to the
// Graph Builder (spec.md §4.A).
type Context struct {
	Sentences []Sentence
}

// Validate runs Sentence.Validate over every sentence in order, returning
// the first error encountered.
func (c Context) Validate() error {
	for i, s := range c.Sentences {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("annotate: sentence %d: %w", i, err)
		}
	}
	return nil
}

// Annotator is the external collaborator contract of spec.md §6: it turns
// raw claim/context text into the annotated record shape above. The real
// implementation (Vietnamese morphological/POS/dependency analysis) is out
// of scope for this engine.
type Annotator interface {
	AnnotateContext(ctx context.Context, text string) (Context, error)
	AnnotateClaim(ctx context.Context, text string) (Sentence, error)
}

// StubAnnotator is a deterministic, dependency-free Annotator used in
// tests and examples: it splits on simple punctuation and whitespace and
// labels every token with a single configurable POS tag, mirroring the
// "trivial stub annotator labelling every token N" used in spec.md §8's
// concrete end-to-end scenario 1.
type StubAnnotator struct {
	// DefaultPOS is assigned to every token. Defaults to "N" if empty.
	DefaultPOS string
}

// NewStubAnnotator returns a StubAnnotator labelling every token as posTag
// (or "N" if posTag is empty).
func NewStubAnnotator(posTag string) *StubAnnotator {
	if posTag == "" {
		posTag = "N"
	}
	return &StubAnnotator{DefaultPOS: posTag}
}

func (a *StubAnnotator) tokenize(text string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range text {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case r == '.' || r == ',' || r == '!' || r == '?' || r == ';' || r == ':':
			flush()
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

func (a *StubAnnotator) annotateSentence(text string) Sentence {
	words := a.tokenize(text)
	tokens := make([]Token, 0, len(words))
	for i, w := range words {
		tokens = append(tokens, Token{
			Index:     i + 1,
			WordForm:  w,
			POSTag:    a.DefaultPOS,
			Lemma:     w,
			HeadIndex: 0, // the stub never produces dependency structure
			DepLabel:  "",
		})
	}
	return Sentence{Text: text, Tokens: tokens}
}

// AnnotateContext splits text into sentences after every '.', '!' or '?'
// (whether or not a space follows) and annotates each with
// annotateSentence. It never returns an error: the
// stub has no external call to fail.
func (a *StubAnnotator) AnnotateContext(_ context.Context, text string) (Context, error) {
	if text == "" {
		return Context{}, nil
	}
	var sentences []Sentence
	var cur []rune
	flushSentence := func() {
		s := trimSpace(string(cur))
		if s != "" {
			sentences = append(sentences, a.annotateSentence(s))
		}
		cur = cur[:0]
	}
	for _, r := range text {
		cur = append(cur, r)
		if r == '.' || r == '!' || r == '?' {
			flushSentence()
		}
	}
	flushSentence()
	return Context{Sentences: sentences}, nil
}

// AnnotateClaim annotates a single claim string.
func (a *StubAnnotator) AnnotateClaim(_ context.Context, text string) (Sentence, error) {
	return a.annotateSentence(text), nil
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
