package app

import (
	"testing"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/decoration"
	"github.com/dshills/sidenote/internal/style"
)

var testSheet = style.NewSheet(style.RGB(255, 216, 102), style.RGB(45, 42, 46), style.RGB(252, 252, 250), 4)

func cellString(cells []Cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.Rune
	}
	return string(rs)
}

func TestDecorateLinePlain(t *testing.T) {
	cells := DecorateLine("plain text", 0, nil, testSheet)

	if cellString(cells) != "plain text" {
		t.Errorf("cells = %q", cellString(cells))
	}
	for i, c := range cells {
		if c.Offset != i {
			t.Fatalf("cell %d offset = %d", i, c.Offset)
		}
		if c.Style != style.DefaultStyle() {
			t.Fatalf("cell %d should use the default style", i)
		}
	}
}

func TestDecorateLineCommentPreview(t *testing.T) {
	// ==a::hi== with markers hidden and payload marked.
	line := "==a::hi=="
	ds := decoration.Build(
		annotation.ParseLine(line, 0),
		nil, true,
		func(from, to int) string { return line[from:to] },
	)

	cells := DecorateLine(line, 0, ds, testSheet)

	if cellString(cells) != "hi" {
		t.Fatalf("cells = %q, want hi", cellString(cells))
	}
	for _, c := range cells {
		if c.Style != testSheet.Highlight {
			t.Error("payload cells should use the highlight style")
		}
	}
	if cells[0].Offset != 5 {
		t.Errorf("payload offset = %d, want 5", cells[0].Offset)
	}
}

func TestDecorateLineMaskWidget(t *testing.T) {
	line := "a ~=pw=~ b"
	ds := decoration.Build(
		annotation.ParseLine(line, 0),
		nil, true,
		func(from, to int) string { return line[from:to] },
	)

	cells := DecorateLine(line, 0, ds, testSheet)

	if cellString(cells) != "a pw b" {
		t.Fatalf("cells = %q, want %q", cellString(cells), "a pw b")
	}
	// The widget replaces the whole span; its cells all hit-test to the
	// span start.
	if cells[2].Offset != 2 || cells[3].Offset != 2 {
		t.Errorf("widget offsets = %d,%d, want 2,2", cells[2].Offset, cells[3].Offset)
	}
	if cells[2].Style != testSheet.Mask {
		t.Error("widget cells should use the mask style")
	}
}

func TestDecorateLineSourceMode(t *testing.T) {
	line := "==a::hi=="
	ds := decoration.Build(
		annotation.ParseLine(line, 0),
		nil, false,
		func(from, to int) string { return line[from:to] },
	)

	cells := DecorateLine(line, 0, ds, testSheet)

	if cellString(cells) != line {
		t.Fatalf("cells = %q, want full syntax visible", cellString(cells))
	}
}

func TestDecorateLineRespectsBaseOffset(t *testing.T) {
	// Directive offsets are document-global; the line starts at 100.
	line := "~=x=~"
	ds := decoration.Build(
		annotation.ParseLine(line, 100),
		nil, true,
		func(from, to int) string { return line[from-100 : to-100] },
	)

	cells := DecorateLine(line, 100, ds, testSheet)

	if cellString(cells) != "x" {
		t.Errorf("cells = %q, want x", cellString(cells))
	}
}

func TestFitRunesMultibyte(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"héllo", 7, "héllo  "},
		{"héllo", 3, "hél"},
		{"日本語 note", 5, "日本語 n"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := string(fitRunes(tt.text, tt.width)); got != tt.want {
			t.Errorf("fitRunes(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestCursorColumn(t *testing.T) {
	cells := []Cell{{Offset: 5}, {Offset: 6}, {Offset: 7}}

	if got := cursorColumn(cells, 6); got != 1 {
		t.Errorf("column = %d, want 1", got)
	}
	if got := cursorColumn(cells, 99); got != 3 {
		t.Errorf("past-end column = %d, want 3", got)
	}
}
