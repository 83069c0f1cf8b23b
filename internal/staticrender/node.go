// Package staticrender post-processes already-rendered static content
// (the reading view): a one-shot tree walk that replaces annotation
// syntax in text leaves with styled, inert spans. No incremental
// updates, no widgets; comment spans get hover-driven tooltips in
// read-only mode and mask spans are statically blurred.
package staticrender

import (
	"html"
	"strings"
)

// Node is one node of the rendered content tree.
type Node interface {
	isNode()
}

// Text is a text leaf.
type Text struct {
	Value string
}

func (*Text) isNode() {}

// Element is a container node.
type Element struct {
	// Tag is the element name ("div", "span", "p", ...).
	Tag string

	// Class is the element's class attribute.
	Class string

	// Attrs holds additional attributes.
	Attrs map[string]string

	// Children are the contained nodes, in document order.
	Children []Node

	// HoverEnter and HoverLeave are hover handlers wired by the
	// post-processor on comment spans. Nil elsewhere.
	HoverEnter func()
	HoverLeave func()
}

func (*Element) isNode() {}

// SetAttr sets an attribute, allocating the map on first use.
func (e *Element) SetAttr(key, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
}

// HTML serializes the subtree. Hover handlers do not serialize; the
// reading view's script layer re-binds them from the class names.
func HTML(n Node) string {
	var sb strings.Builder
	writeHTML(&sb, n)
	return sb.String()
}

func writeHTML(sb *strings.Builder, n Node) {
	switch t := n.(type) {
	case *Text:
		sb.WriteString(html.EscapeString(t.Value))
	case *Element:
		sb.WriteByte('<')
		sb.WriteString(t.Tag)
		if t.Class != "" {
			sb.WriteString(` class="`)
			sb.WriteString(html.EscapeString(t.Class))
			sb.WriteByte('"')
		}
		for _, key := range sortedKeys(t.Attrs) {
			sb.WriteByte(' ')
			sb.WriteString(key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(t.Attrs[key]))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		for _, child := range t.Children {
			writeHTML(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(t.Tag)
		sb.WriteByte('>')
	}
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
