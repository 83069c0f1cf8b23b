package richtext

// Element is an opaque rendered rich-content element owned by the host.
type Element interface {
	// ID returns the element's unique identifier.
	ID() string
}

// Renderer is the host's rich-content rendering capability.
//
// Render must return synchronously; the element it returns may not be
// fully typeset yet. Typeset must be invoked once the element is
// attached to the visible tree and may complete on its own schedule.
type Renderer interface {
	Render(source string, display bool) (Element, error)

	// Typeset finishes rendering an attached element. Fire and forget;
	// failures must be swallowed by the implementation.
	Typeset(el Element)
}

// Rendered is one rendered run of a payload: either a successfully
// rendered math element, or fallback text (plain runs and failed math).
type Rendered struct {
	Segment Segment

	// Element is set when the segment rendered successfully.
	Element Element

	// Fallback is the text to display when Element is nil.
	Fallback string
}

// RenderPayload renders every segment of a mask payload. A render
// failure falls back to the raw source text for that segment only and
// never aborts the rest of the payload.
func RenderPayload(r Renderer, payload string) []Rendered {
	segs := SplitMath(payload)
	out := make([]Rendered, 0, len(segs))

	for _, seg := range segs {
		if seg.Kind == SegText || r == nil {
			out = append(out, Rendered{Segment: seg, Fallback: seg.Raw})
			continue
		}

		el, err := r.Render(seg.Source, seg.Kind == SegDisplayMath)
		if err != nil || el == nil {
			out = append(out, Rendered{Segment: seg, Fallback: seg.Raw})
			continue
		}
		out = append(out, Rendered{Segment: seg, Element: el})
	}

	return out
}
