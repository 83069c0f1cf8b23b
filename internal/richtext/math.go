// Package richtext handles the rich-content boundary: splitting mask
// payloads into text and math segments, and invoking the host's
// asynchronous math renderer with per-segment failure fallback.
package richtext

import "strings"

// SegmentKind identifies a payload segment.
type SegmentKind uint8

const (
	// SegText is plain text rendered as-is.
	SegText SegmentKind = iota

	// SegInlineMath is a $...$ expression.
	SegInlineMath

	// SegDisplayMath is a $$...$$ expression.
	SegDisplayMath
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegText:
		return "text"
	case SegInlineMath:
		return "inline-math"
	case SegDisplayMath:
		return "display-math"
	default:
		return "unknown"
	}
}

// Segment is one run of a mask payload. For math kinds, Source is the
// expression without its dollar delimiters; Raw is the full delimited
// run as it appears in the document.
type Segment struct {
	Kind   SegmentKind
	Source string
	Raw    string
}

// SplitMath segments a payload into text and math runs. Display math
// ($$...$$) is checked before inline math ($...$) so that a $$ pair is
// never misread as an empty inline expression. Unclosed delimiters are
// treated as plain text.
func SplitMath(payload string) []Segment {
	var segs []Segment
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{Kind: SegText, Source: text.String(), Raw: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(payload) {
		if payload[i] != '$' {
			text.WriteByte(payload[i])
			i++
			continue
		}

		// $$ before $.
		if strings.HasPrefix(payload[i:], "$$") {
			if end := strings.Index(payload[i+2:], "$$"); end >= 0 {
				flush()
				raw := payload[i : i+2+end+2]
				segs = append(segs, Segment{
					Kind:   SegDisplayMath,
					Source: payload[i+2 : i+2+end],
					Raw:    raw,
				})
				i += 2 + end + 2
				continue
			}
			// Unclosed $$: literal text.
			text.WriteString("$$")
			i += 2
			continue
		}

		if end := strings.IndexByte(payload[i+1:], '$'); end >= 0 {
			flush()
			raw := payload[i : i+1+end+1]
			segs = append(segs, Segment{
				Kind:   SegInlineMath,
				Source: payload[i+1 : i+1+end],
				Raw:    raw,
			})
			i += 1 + end + 1
			continue
		}

		// Unclosed $: literal text.
		text.WriteByte('$')
		i++
	}

	flush()
	return segs
}
