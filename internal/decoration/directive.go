// Package decoration turns a sorted annotation list plus the current
// selection and display mode into an ordered, non-overlapping sequence
// of rendering directives for the host's decoration layer.
package decoration

import (
	"github.com/dshills/sidenote/internal/richtext"
)

// Op is the directive operation.
type Op uint8

const (
	// OpReveal leaves the range rendered as-is.
	OpReveal Op = iota

	// OpHide collapses the range to zero width.
	OpHide

	// OpMark styles the range in place via a class name.
	OpMark

	// OpWidget replaces the entire range with a rendered widget.
	OpWidget
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpReveal:
		return "reveal"
	case OpHide:
		return "hide"
	case OpMark:
		return "mark"
	case OpWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// MaskWidget describes a whole-span mask replacement. The widget
// renders the payload inside a blur-styled container; math segments are
// typeset by the host's rich-content renderer after attach.
type MaskWidget struct {
	// Payload is the mask's payload text.
	Payload string

	// Segments is the payload split into text and math runs.
	Segments []richtext.Segment
}

// Directive is one rendered-region instruction covering [From, To).
type Directive struct {
	Op   Op
	From int
	To   int

	// Class is the style class for OpMark.
	Class string

	// Attrs carries retrievable attributes for OpMark, such as the
	// original comment text.
	Attrs map[string]string

	// Widget is the replacement content for OpWidget.
	Widget *MaskWidget
}

// Sink receives the directive set produced by a rebuild. Implemented by
// the host's decoration layer.
type Sink interface {
	ApplyDecorations(ds []Directive)
}
