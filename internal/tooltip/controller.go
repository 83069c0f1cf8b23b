// Package tooltip implements the floating comment tooltip state
// machine: at most one tooltip at a time, with an edit sub-mode that
// suppresses hiding while the user types.
package tooltip

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State is the controller state.
type State uint8

const (
	// StateIdle means no tooltip is shown.
	StateIdle State = iota

	// StateShowing means one tooltip is visible. The editing flag may
	// additionally be set.
	StateShowing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowing:
		return "showing"
	default:
		return "unknown"
	}
}

// Anchor is the bounding box of the hovered span, in view coordinates.
type Anchor struct {
	X, Y, Width, Height int
}

// ViewSize is the visible viewport extent, used to keep the tooltip
// on screen.
type ViewSize struct {
	Width, Height int
}

// Tooltip is the currently shown tooltip instance.
type Tooltip struct {
	// ID uniquely identifies this instance.
	ID string

	// Comment is the displayed note text.
	Comment string

	// X, Y is the placed top-left position.
	X, Y int

	// Width, Height is the measured tooltip extent.
	Width, Height int
}

// EditFunc applies a committed comment edit. Supplied only when the
// hover originated from a live, editable view; nil for static output.
type EditFunc func(newText string) error

// Measurer estimates the rendered tooltip extent for placement.
type Measurer func(comment string) (width, height int)

// Controller owns the single tooltip slot. It is an injectable object,
// created once per host session and passed by reference to hover
// handlers; "one tooltip at a time" is enforced inside it.
type Controller struct {
	mu sync.Mutex

	active  *Tooltip
	editing bool
	editFn  EditFunc

	// draft is the comment text at edit start, for cancel.
	draft string

	measure Measurer
}

// NewController creates a tooltip controller.
func NewController() *Controller {
	return &Controller{measure: defaultMeasure}
}

// SetMeasurer overrides tooltip size estimation. A nil measurer
// restores the default.
func (c *Controller) SetMeasurer(m Measurer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m == nil {
		m = defaultMeasure
	}
	c.measure = m
}

// Show displays a tooltip for the hovered comment span, closing any
// previously shown tooltip first. editFn may be nil for read-only
// views. Returns the shown instance.
func (c *Controller) Show(comment string, anchor Anchor, view ViewSize, editFn EditFunc) *Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()

	// At most one tooltip system-wide; an in-progress edit on the old
	// tooltip is abandoned.
	c.editing = false
	c.editFn = editFn

	w, h := c.measure(comment)
	x, y := place(anchor, view, w, h)

	c.active = &Tooltip{
		ID:      uuid.NewString(),
		Comment: comment,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
	}
	return c.active
}

// HideFromHover hides the tooltip on hover-leave. relatedIsTooltip is
// true when the pointer moved onto the tooltip itself, which keeps it
// open. Hiding is suppressed entirely while editing.
func (c *Controller) HideFromHover(relatedIsTooltip bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing || relatedIsTooltip {
		return
	}
	c.active = nil
	c.editFn = nil
}

// Hide unconditionally dismisses the tooltip, abandoning any edit.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = nil
	c.editing = false
	c.editFn = nil
}

// BeginEdit enters the edit sub-mode. Returns the current comment as
// the edit draft and true on success; editing is unavailable when no
// tooltip is shown or no edit callback was supplied.
func (c *Controller) BeginEdit() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.editFn == nil || c.editing {
		return "", false
	}
	c.editing = true
	c.draft = c.active.Comment
	return c.draft, true
}

// CommitEdit confirms an edit. The new text is trimmed; the callback
// runs only when the result is non-empty and actually changed,
// otherwise the prior content is restored. The tooltip stays shown.
func (c *Controller) CommitEdit(newText string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editing || c.active == nil {
		return nil
	}
	c.editing = false

	trimmed := strings.TrimSpace(newText)
	if trimmed == "" || trimmed == c.draft {
		c.active.Comment = c.draft
		return nil
	}

	if err := c.editFn(trimmed); err != nil {
		c.active.Comment = c.draft
		return err
	}
	c.active.Comment = trimmed
	return nil
}

// CancelEdit leaves the edit sub-mode without invoking the callback.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editing {
		return
	}
	c.editing = false
	if c.active != nil {
		c.active.Comment = c.draft
	}
}

// State returns the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return StateIdle
	}
	return StateShowing
}

// Editing reports whether the edit sub-mode is active.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Active returns the shown tooltip, or nil.
func (c *Controller) Active() *Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Editable reports whether the shown tooltip can enter edit mode.
func (c *Controller) Editable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && c.editFn != nil
}

// place positions the tooltip below the anchor, nudging it left when it
// would overflow the right edge and above the anchor when it would
// overflow the bottom.
func place(anchor Anchor, view ViewSize, w, h int) (int, int) {
	x := anchor.X
	y := anchor.Y + anchor.Height

	if view.Width > 0 && x+w > view.Width {
		x = view.Width - w
		if x < 0 {
			x = 0
		}
	}
	if view.Height > 0 && y+h > view.Height {
		y = anchor.Y - h
		if y < 0 {
			y = 0
		}
	}
	return x, y
}

// defaultMeasure estimates tooltip extent from the comment text: one
// cell per rune plus padding, wrapped at 40 cells.
func defaultMeasure(comment string) (int, int) {
	const maxWidth = 40
	runes := len([]rune(comment))
	if runes == 0 {
		runes = 1
	}
	if runes <= maxWidth {
		return runes + 2, 1
	}
	return maxWidth + 2, (runes + maxWidth - 1) / maxWidth
}
