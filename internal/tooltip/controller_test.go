package tooltip

import (
	"errors"
	"testing"
)

var testView = ViewSize{Width: 100, Height: 40}

func testAnchor() Anchor {
	return Anchor{X: 10, Y: 5, Width: 8, Height: 1}
}

func TestShowTransitionsToShowing(t *testing.T) {
	c := NewController()

	if c.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", c.State())
	}

	tip := c.Show("a note", testAnchor(), testView, nil)

	if c.State() != StateShowing {
		t.Errorf("State() = %v, want showing", c.State())
	}
	if tip.Comment != "a note" {
		t.Errorf("Comment = %q, want a note", tip.Comment)
	}
	if tip.ID == "" {
		t.Error("tooltip should carry an ID")
	}
}

func TestShowReplacesPreviousTooltip(t *testing.T) {
	c := NewController()

	first := c.Show("first", testAnchor(), testView, nil)
	second := c.Show("second", testAnchor(), testView, nil)

	active := c.Active()
	if active == nil || active.ID != second.ID {
		t.Error("second Show should replace the first tooltip")
	}
	if first.ID == second.ID {
		t.Error("replacement should be a distinct instance")
	}
}

func TestPlacementBelowAnchor(t *testing.T) {
	c := NewController()
	tip := c.Show("hi", testAnchor(), testView, nil)

	if tip.X != 10 || tip.Y != 6 {
		t.Errorf("position = (%d,%d), want (10,6) below anchor", tip.X, tip.Y)
	}
}

func TestPlacementNudgesLeftAtRightEdge(t *testing.T) {
	c := NewController()
	anchor := Anchor{X: 95, Y: 5, Width: 4, Height: 1}

	tip := c.Show("a fairly long comment", anchor, testView, nil)

	if tip.X+tip.Width > testView.Width {
		t.Errorf("tooltip overflows right edge: x=%d w=%d view=%d", tip.X, tip.Width, testView.Width)
	}
}

func TestPlacementFlipsUpAtBottomEdge(t *testing.T) {
	c := NewController()
	anchor := Anchor{X: 0, Y: 39, Width: 4, Height: 1}

	tip := c.Show("note", anchor, testView, nil)

	if tip.Y >= 40 {
		t.Errorf("tooltip below viewport: y=%d", tip.Y)
	}
	if tip.Y > anchor.Y {
		t.Errorf("tooltip should flip above the anchor, y=%d", tip.Y)
	}
}

func TestHideFromHover(t *testing.T) {
	c := NewController()
	c.Show("note", testAnchor(), testView, nil)

	// Pointer moved onto the tooltip itself: stays open.
	c.HideFromHover(true)
	if c.State() != StateShowing {
		t.Error("hover onto tooltip should not hide it")
	}

	c.HideFromHover(false)
	if c.State() != StateIdle {
		t.Error("hover-leave should hide the tooltip")
	}
}

func TestBeginEditRequiresCallback(t *testing.T) {
	c := NewController()
	c.Show("note", testAnchor(), testView, nil)

	if _, ok := c.BeginEdit(); ok {
		t.Error("BeginEdit should fail without an edit callback")
	}
	if c.Editable() {
		t.Error("tooltip without callback is not editable")
	}
}

func TestBeginEditIdle(t *testing.T) {
	c := NewController()
	if _, ok := c.BeginEdit(); ok {
		t.Error("BeginEdit should fail with no tooltip shown")
	}
}

func TestEditingSuppressesHide(t *testing.T) {
	c := NewController()
	c.Show("note", testAnchor(), testView, func(string) error { return nil })

	draft, ok := c.BeginEdit()
	if !ok || draft != "note" {
		t.Fatalf("BeginEdit = %q, %v; want note, true", draft, ok)
	}

	// Must not disappear out from under active typing.
	c.HideFromHover(false)
	if c.State() != StateShowing {
		t.Error("hide must be suppressed while editing")
	}
}

func TestCommitEditInvokesCallback(t *testing.T) {
	var got string
	c := NewController()
	c.Show("old", testAnchor(), testView, func(s string) error {
		got = s
		return nil
	})

	c.BeginEdit()
	if err := c.CommitEdit("  new text  "); err != nil {
		t.Fatalf("CommitEdit error: %v", err)
	}

	if got != "new text" {
		t.Errorf("callback got %q, want trimmed new text", got)
	}
	if c.Active().Comment != "new text" {
		t.Errorf("Comment = %q, want new text", c.Active().Comment)
	}
	if c.Editing() {
		t.Error("commit should leave edit mode")
	}
}

func TestCommitEditUnchangedReverts(t *testing.T) {
	calls := 0
	c := NewController()
	c.Show("same", testAnchor(), testView, func(string) error {
		calls++
		return nil
	})

	c.BeginEdit()
	c.CommitEdit("same")

	if calls != 0 {
		t.Error("unchanged text must not invoke the callback")
	}
	if c.Active().Comment != "same" {
		t.Errorf("Comment = %q, want same", c.Active().Comment)
	}
}

func TestCommitEditEmptyReverts(t *testing.T) {
	calls := 0
	c := NewController()
	c.Show("keep", testAnchor(), testView, func(string) error {
		calls++
		return nil
	})

	c.BeginEdit()
	c.CommitEdit("   ")

	if calls != 0 {
		t.Error("empty text must not invoke the callback")
	}
	if c.Active().Comment != "keep" {
		t.Errorf("Comment = %q, want keep", c.Active().Comment)
	}
}

func TestCommitEditCallbackError(t *testing.T) {
	wantErr := errors.New("edit failed")
	c := NewController()
	c.Show("old", testAnchor(), testView, func(string) error { return wantErr })

	c.BeginEdit()
	if err := c.CommitEdit("new"); !errors.Is(err, wantErr) {
		t.Errorf("CommitEdit error = %v, want %v", err, wantErr)
	}
	if c.Active().Comment != "old" {
		t.Error("failed edit should restore prior content")
	}
}

func TestCancelEditReverts(t *testing.T) {
	calls := 0
	c := NewController()
	c.Show("orig", testAnchor(), testView, func(string) error {
		calls++
		return nil
	})

	c.BeginEdit()
	c.CancelEdit()

	if calls != 0 {
		t.Error("cancel must not invoke the callback")
	}
	if c.Editing() {
		t.Error("cancel should leave edit mode")
	}
	if c.Active().Comment != "orig" {
		t.Errorf("Comment = %q, want orig", c.Active().Comment)
	}
	if c.State() != StateShowing {
		t.Error("cancel keeps the tooltip shown")
	}
}

func TestHideAbandonsEdit(t *testing.T) {
	c := NewController()
	c.Show("note", testAnchor(), testView, func(string) error { return nil })
	c.BeginEdit()

	c.Hide()

	if c.State() != StateIdle || c.Editing() {
		t.Error("Hide should reset both tooltip and edit state")
	}
}
