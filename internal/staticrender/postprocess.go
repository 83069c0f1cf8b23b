package staticrender

import (
	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/style"
	"github.com/dshills/sidenote/internal/tooltip"
)

// Process walks the rendered tree once and replaces annotation syntax
// in text leaves with styled spans. Matches of both kinds in the same
// leaf are handled in left-to-right document order (the parser returns
// them merged and sorted).
//
// tips may be nil; comment spans then render without hover behavior.
func Process(root *Element, tips *tooltip.Controller) {
	if root == nil {
		return
	}
	processChildren(root, tips)
}

// processChildren rewrites matching text leaves among a node's children.
func processChildren(el *Element, tips *tooltip.Controller) {
	var out []Node

	for _, child := range el.Children {
		switch t := child.(type) {
		case *Element:
			processChildren(t, tips)
			out = append(out, t)
		case *Text:
			out = append(out, splitLeaf(t, tips)...)
		default:
			out = append(out, child)
		}
	}

	el.Children = out
}

// splitLeaf converts one text leaf into a plain-text / styled-span
// sequence. A leaf without matches is returned unchanged.
func splitLeaf(leaf *Text, tips *tooltip.Controller) []Node {
	anns := annotation.ParseLine(leaf.Value, 0)
	if len(anns) == 0 {
		return []Node{leaf}
	}

	var out []Node
	pos := 0

	for _, a := range anns {
		// Cross-kind regex overlap is unspecified in the syntax;
		// first match wins, later overlapping matches are dropped.
		if a.SyntaxFrom < pos {
			continue
		}
		if a.SyntaxFrom > pos {
			out = append(out, &Text{Value: leaf.Value[pos:a.SyntaxFrom]})
		}
		out = append(out, buildSpan(leaf.Value, a, tips))
		pos = a.SyntaxTo
	}

	if pos < len(leaf.Value) {
		out = append(out, &Text{Value: leaf.Value[pos:]})
	}
	return out
}

// buildSpan creates the inert styled replacement for one annotation.
func buildSpan(text string, a annotation.Annotation, tips *tooltip.Controller) *Element {
	payload := text[a.From:a.To]

	switch a.Kind {
	case annotation.KindComment:
		span := &Element{
			Tag:      "span",
			Class:    style.ClassComment,
			Children: []Node{&Text{Value: payload}},
		}
		span.SetAttr(style.AttrComment, a.Comment)
		if tips != nil {
			comment := a.Comment
			// Read-only: no edit callback, anchor placement is left to
			// the host's measured geometry.
			span.HoverEnter = func() {
				tips.Show(comment, tooltip.Anchor{}, tooltip.ViewSize{}, nil)
			}
			span.HoverLeave = func() {
				tips.HideFromHover(false)
			}
		}
		return span

	default:
		return &Element{
			Tag:      "span",
			Class:    style.ClassMask,
			Children: []Node{&Text{Value: payload}},
		}
	}
}
