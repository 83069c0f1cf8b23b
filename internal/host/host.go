// Package host declares the interfaces the annotation engine consumes
// from its editor host. The engine never mutates host state directly:
// it reads text, selection, and mode, and submits decoration sets and
// edit requests back through these interfaces.
package host

import (
	"errors"

	"github.com/dshills/sidenote/internal/annotation"
)

// ErrNotAttached is returned by position resolution when a widget is
// detached or otherwise unresolvable. Callers skip the widget.
var ErrNotAttached = errors.New("host: widget not attached")

// Viewport yields the currently visible document windows and read
// access to text within them.
type Viewport interface {
	// Windows returns the visible [from, to) ranges, disjoint.
	Windows() []annotation.Span

	// TextRange returns the text within [from, to).
	TextRange(from, to int) string

	// Revision changes whenever the document text changes.
	Revision() uint64
}

// SelectionProvider yields the current selection ranges. A bare cursor
// is a zero-length range.
type SelectionProvider interface {
	Selections() []annotation.Span
}

// ModeProvider reports whether the view renders markup (rich preview)
// or shows raw source. Hosts that cannot report a mode should leave the
// provider nil; the engine then assumes plain source mode.
type ModeProvider interface {
	RichPreview() bool
}

// EditApplier applies a text replacement to the document.
type EditApplier interface {
	ApplyEdit(from, to int, replacement string) error
}

// WidgetRole classifies rendered rich-content widgets by structural
// signature, mirroring how a DOM host would recognize math containers
// and embeds.
type WidgetRole uint8

const (
	// RoleMathInline is an inline math container.
	RoleMathInline WidgetRole = iota

	// RoleMathDisplay is a display math block container.
	RoleMathDisplay

	// RoleEmbed is an embedded content container.
	RoleEmbed

	// RoleInlineAtom is any other non-editable inline replacement.
	RoleInlineAtom
)

// String returns the role name.
func (r WidgetRole) String() string {
	switch r {
	case RoleMathInline:
		return "math-inline"
	case RoleMathDisplay:
		return "math-display"
	case RoleEmbed:
		return "embed"
	case RoleInlineAtom:
		return "inline-atom"
	default:
		return "unknown"
	}
}

// Widget is a rendered rich-content element the host has placed in the
// view, typically by an asynchronous typesetting pass outside the
// engine's control.
type Widget interface {
	// ID returns the widget's unique identifier.
	ID() string

	// Role returns the widget's structural signature.
	Role() WidgetRole

	// Position resolves the widget to its document offset. Returns
	// ErrNotAttached (or any error) for detached/transient widgets.
	Position() (int, error)

	// SetBlurred applies or clears the blur tag on the widget.
	SetBlurred(blurred bool)
}

// WidgetRegistry enumerates the rendered widgets currently in the view.
type WidgetRegistry interface {
	Widgets() []Widget
}

// MutationNotifier reports render mutations inside the view's content
// region, such as late math typesetting completions. OnMutation returns
// a cancel function that must be called on view teardown.
type MutationNotifier interface {
	OnMutation(fn func()) (cancel func())
}
