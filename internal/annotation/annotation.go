// Package annotation implements parsing of inline annotation syntax:
// comments (==note::text==) that attach a hoverable note to a span, and
// masks (~=text=~) that blur a span until revealed.
//
// Annotations are derived values. They are recomputed from raw text on
// every relevant change and carry no identity beyond their offsets.
package annotation

import "sort"

// Kind identifies the annotation variant.
type Kind uint8

const (
	// KindComment is an inline note attached to a text span.
	KindComment Kind = iota

	// KindMask is a span that is blurred until revealed.
	KindMask
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindMask:
		return "mask"
	default:
		return "unknown"
	}
}

// Span is a half-open range [From, To) of absolute byte offsets.
type Span struct {
	From int
	To   int
}

// IsEmpty returns true if the span covers no text.
func (s Span) IsEmpty() bool {
	return s.From >= s.To
}

// Contains returns true if offset is within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.From && offset < s.To
}

// Annotation is a single parsed annotation occurrence.
//
// SyntaxFrom/SyntaxTo bound the entire matched syntax including delimiters.
// From/To bound the payload only. Invariant:
// SyntaxFrom <= From <= To <= SyntaxTo, all spans half-open.
type Annotation struct {
	// Kind is the annotation variant.
	Kind Kind

	// SyntaxFrom is the offset of the first delimiter byte.
	SyntaxFrom int

	// SyntaxTo is the offset just past the closing delimiter.
	SyntaxTo int

	// From is the offset of the first payload byte.
	From int

	// To is the offset just past the last payload byte.
	To int

	// Comment is the note text. Only set for KindComment.
	Comment string
}

// Syntax returns the full delimited span.
func (a Annotation) Syntax() Span {
	return Span{From: a.SyntaxFrom, To: a.SyntaxTo}
}

// Payload returns the payload span.
func (a Annotation) Payload() Span {
	return Span{From: a.From, To: a.To}
}

// Valid reports whether the annotation's offsets satisfy the span invariant.
func (a Annotation) Valid() bool {
	return a.SyntaxFrom <= a.From && a.From <= a.To && a.To <= a.SyntaxTo &&
		a.SyntaxFrom < a.SyntaxTo
}

// Overlaps returns true if the syntax spans of two annotations intersect.
func (a Annotation) Overlaps(other Annotation) bool {
	return a.SyntaxFrom < other.SyntaxTo && other.SyntaxFrom < a.SyntaxTo
}

// CursorInside reports whether any selection range is fully contained
// within the annotation's syntax span, inclusive at both ends. A cursor
// sitting on either delimiter edge counts as inside.
func (a Annotation) CursorInside(selections []Span) bool {
	for _, sel := range selections {
		if sel.From >= a.SyntaxFrom && sel.To <= a.SyntaxTo {
			return true
		}
	}
	return false
}

// Sort orders annotations by SyntaxFrom ascending, in place.
func Sort(anns []Annotation) {
	sort.SliceStable(anns, func(i, j int) bool {
		return anns[i].SyntaxFrom < anns[j].SyntaxFrom
	})
}
