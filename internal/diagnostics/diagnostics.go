// Package diagnostics implements the error taxonomy and per-run
// Diagnostics object described in spec.md §7: five error kinds, of which
// only AnnotatorInputError and ResourceExhausted are fatal, and a counter
// of recoverable (ExternalUnavailable, SerializationError) occurrences.
package diagnostics

import "fmt"

// Kind classifies an error by how the pipeline should react to it.
type Kind int

const (
	// AnnotatorInputError means the annotated input itself was invalid
	// (failed validation). Fatal: the run aborts.
	AnnotatorInputError Kind = iota
	// ExternalUnavailable means an external collaborator (embedder or
	// entity extractor) failed, timed out, or returned something
	// unusable. Recoverable: the affected feature degrades to empty and
	// the run continues.
	ExternalUnavailable
	// ResourceExhausted means a hard resource limit was hit (for example
	// a context deadline with no partial result available). Fatal.
	ResourceExhausted
	// EmptyResult is not an error: beam search or ranking legitimately
	// produced zero paths or zero ranked sentences.
	EmptyResult
	// SerializationError means an export write failed. Recoverable: it
	// is reported but does not invalidate the run's in-memory result.
	SerializationError
)

func (k Kind) String() string {
	switch k {
	case AnnotatorInputError:
		return "annotator_input_error"
	case ExternalUnavailable:
		return "external_unavailable"
	case ResourceExhausted:
		return "resource_exhausted"
	case EmptyResult:
		return "empty_result"
	case SerializationError:
		return "serialization_error"
	default:
		return "unknown"
	}
}

// Fatal reports whether an error of this kind must abort the run.
func (k Kind) Fatal() bool {
	return k == AnnotatorInputError || k == ResourceExhausted
}

// Event is one recorded occurrence of a non-fatal error kind.
type Event struct {
	Kind Kind
	Err  error
}

// Diagnostics accumulates recoverable-error events across one pipeline run
// (spec.md §7: "Diagnostics object counts recoverable errors per run").
type Diagnostics struct {
	events []Event
}

// New returns an empty Diagnostics accumulator.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Record appends an event. err may be nil (for example an empty-but-not-
// erroring extractor response still worth noting as ExternalUnavailable).
func (d *Diagnostics) Record(kind Kind, err error) {
	d.events = append(d.events, Event{Kind: kind, Err: err})
}

// Count returns how many events of kind were recorded.
func (d *Diagnostics) Count(kind Kind) int {
	n := 0
	for _, e := range d.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Events returns every recorded event, in recording order.
func (d *Diagnostics) Events() []Event {
	return d.events
}

// FatalError is returned by the pipeline when a fatal-kind error occurs;
// it carries the Kind so callers can branch on it without string matching.
type FatalError struct {
	Kind Kind
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatal wraps err as a FatalError of the given kind. Panics if kind is
// not actually fatal, since that would indicate a programming error at the
// call site rather than a runtime condition.
func NewFatal(kind Kind, err error) *FatalError {
	if !kind.Fatal() {
		panic(fmt.Sprintf("diagnostics: NewFatal called with non-fatal kind %s", kind))
	}
	return &FatalError{Kind: kind, Err: err}
}
