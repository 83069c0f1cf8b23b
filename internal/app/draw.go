package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sidenote/internal/style"
)

// draw repaints the whole screen: decorated text, status line, and the
// tooltip overlay when one is showing.
func (a *App) draw() {
	if a.screen == nil {
		return
	}
	a.screen.Clear()

	width, height := a.screen.Size()
	visible := height - 1
	lines := a.doc.Lines()
	a.grid = make([][]Cell, visible)

	cursorX, cursorY := -1, -1
	for row := 0; row < visible; row++ {
		idx := a.top + row
		if idx >= len(lines) {
			break
		}
		line := lines[idx]
		cells := DecorateLine(line.Text, line.Offset, a.directives, a.sheet)
		a.grid[row] = cells

		for col, c := range cells {
			if col >= width {
				break
			}
			a.screen.SetContent(col, row, c.Rune, nil, toTcell(c.Style))
		}

		if idx == a.doc.LineAt(a.cursor) {
			cursorX, cursorY = cursorColumn(cells, a.cursor), row
		}
	}

	a.drawStatus(width, height-1)
	a.drawTooltip()

	if cursorX >= 0 {
		a.screen.ShowCursor(cursorX, cursorY)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

// cursorColumn finds the screen column of a document offset within a
// drawn line. Offsets swallowed by hides or widgets land after the
// replacement cells.
func cursorColumn(cells []Cell, offset int) int {
	for col, c := range cells {
		if c.Offset >= offset {
			return col
		}
	}
	return len(cells)
}

func (a *App) drawStatus(width, y int) {
	mode := "source"
	if a.rich {
		mode = "preview"
	}
	name := a.doc.Path()
	if name == "" {
		name = "[no file]"
	}
	text := fmt.Sprintf(" %s  %s  rev %d", name, mode, a.doc.Revision())
	if a.status != "" {
		text += "  " + a.status
	}

	st := tcell.StyleDefault.Reverse(true)
	for x, r := range fitRunes(text, width) {
		a.screen.SetContent(x, y, r, nil, st)
	}
}

// fitRunes pads or truncates text to width cells, rune-wise.
func fitRunes(text string, width int) []rune {
	out := make([]rune, 0, width)
	for _, r := range text {
		if len(out) == width {
			return out
		}
		out = append(out, r)
	}
	for len(out) < width {
		out = append(out, ' ')
	}
	return out
}

// drawTooltip paints the active tooltip box over the text. While an
// edit is in progress the edit buffer is shown instead of the comment.
func (a *App) drawTooltip() {
	tips := a.ext.Tooltips()
	t := tips.Active()
	if t == nil {
		return
	}

	text := t.Comment
	if tips.Editing() {
		text = string(a.editBuf) + "_"
	}

	st := tcell.StyleDefault.
		Background(toTcellColor(a.sheet.TooltipBackground)).
		Foreground(toTcellColor(a.sheet.TooltipText))

	cells := fitRunes(text, t.Width*t.Height)
	for dy := 0; dy < t.Height; dy++ {
		for dx := 0; dx < t.Width; dx++ {
			a.screen.SetContent(t.X+dx, t.Y+dy, cells[dy*t.Width+dx], nil, st)
		}
	}
}

// toTcell converts an engine style to a tcell style.
func toTcell(s style.Style) tcell.Style {
	st := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		st = st.Foreground(toTcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(toTcellColor(s.Background))
	}
	if s.Attributes.Has(style.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(style.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(style.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(style.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(style.AttrReverse) {
		st = st.Reverse(true)
	}
	return st
}

func toTcellColor(c style.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
