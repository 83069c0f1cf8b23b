package app

import (
	"unicode/utf8"

	"github.com/dshills/sidenote/internal/decoration"
	"github.com/dshills/sidenote/internal/style"
)

// Cell is one rendered terminal cell with the document offset it maps
// back to, used for mouse hit-testing.
type Cell struct {
	Rune   rune
	Style  style.Style
	Offset int
}

// DecorateLine converts one line of document text into styled cells by
// applying the active decoration set. base is the line's starting byte
// offset; directives are document-global and sorted by From.
//
// Hide ranges produce no cells. Widget ranges replace the whole span
// with the widget payload styled as a mask. Mark ranges restyle the
// covered text in place.
func DecorateLine(text string, base int, ds []decoration.Directive, sheet style.Sheet) []Cell {
	var cells []Cell
	i := 0

	for i < len(text) {
		abs := base + i

		if d, ok := covering(ds, abs); ok {
			switch d.Op {
			case decoration.OpHide:
				i = skipTo(d.To, base, i, len(text))
				continue
			case decoration.OpWidget:
				if abs == d.From && d.Widget != nil {
					for _, r := range d.Widget.Payload {
						cells = append(cells, Cell{Rune: r, Style: sheet.Mask, Offset: d.From})
					}
				}
				i = skipTo(d.To, base, i, len(text))
				continue
			case decoration.OpMark:
				r, size := utf8.DecodeRuneInString(text[i:])
				cells = append(cells, Cell{Rune: r, Style: sheet.ForClass(d.Class), Offset: abs})
				i += size
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		cells = append(cells, Cell{Rune: r, Style: style.DefaultStyle(), Offset: abs})
		i += size
	}

	return cells
}

// covering returns the directive whose range contains abs, if any.
// Reveal directives are transparent at the cell level.
func covering(ds []decoration.Directive, abs int) (decoration.Directive, bool) {
	for _, d := range ds {
		if d.Op == decoration.OpReveal {
			continue
		}
		if abs >= d.From && abs < d.To {
			return d, true
		}
		if d.From > abs {
			break
		}
	}
	return decoration.Directive{}, false
}

// skipTo advances the line-relative index to the directive end, clamped
// to the end of the line for ranges that continue past it.
func skipTo(to, base, i, lineLen int) int {
	rel := to - base
	if rel > lineLen {
		return lineLen
	}
	if rel <= i {
		return i + 1
	}
	return rel
}
