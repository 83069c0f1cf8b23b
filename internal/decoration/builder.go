package decoration

import (
	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/richtext"
	"github.com/dshills/sidenote/internal/style"
)

// TextFunc slices document text within [from, to). Mask widgets use it
// to capture their payload content. A nil TextFunc yields empty widget
// payloads.
type TextFunc func(from, to int) string

// Build converts annotations into decoration directives.
//
// anns must be sorted by SyntaxFrom; directives come out in strictly
// increasing From order, which the host's decoration collection
// requires. Build is pure: identical inputs yield identical output.
//
// The cursor-inside rule: when any selection range is fully contained
// in an annotation's syntax span, the user is editing that annotation,
// so its markers stay visible and masks stay un-widgeted.
func Build(anns []annotation.Annotation, selections []annotation.Span, richPreview bool, text TextFunc) []Directive {
	var ds []Directive
	prevEnd := 0

	for _, a := range anns {
		// Cross-kind regex overlap, such as comment syntax inside a
		// mask payload: first match wins, later overlapping matches
		// are dropped.
		if a.SyntaxFrom < prevEnd {
			continue
		}
		prevEnd = a.SyntaxTo

		inside := a.CursorInside(selections)

		switch a.Kind {
		case annotation.KindComment:
			ds = appendComment(ds, a, inside, richPreview)
		case annotation.KindMask:
			ds = appendMask(ds, a, inside, richPreview, text)
		}
	}

	return ds
}

// appendComment emits directives for one comment annotation, markers
// first, payload second, in left-to-right order.
func appendComment(ds []Directive, a annotation.Annotation, inside, richPreview bool) []Directive {
	hideMarkers := richPreview && !inside

	if hideMarkers {
		ds = append(ds, Directive{Op: OpHide, From: a.SyntaxFrom, To: a.From})
	}

	// Zero-length payloads get no mark; an empty mark would break the
	// strictly-increasing directive order.
	if a.From < a.To {
		ds = append(ds, Directive{
			Op:    OpMark,
			From:  a.From,
			To:    a.To,
			Class: style.ClassComment,
			Attrs: map[string]string{style.AttrComment: a.Comment},
		})
	}

	if hideMarkers {
		ds = append(ds, Directive{Op: OpHide, From: a.To, To: a.SyntaxTo})
	}

	return ds
}

// appendMask emits directives for one mask annotation. Active masks in
// rich preview replace the whole syntax span with a single widget; the
// raw markers disappear as a side effect of the replacement, so no
// separate hide directives exist for masks.
func appendMask(ds []Directive, a annotation.Annotation, inside, richPreview bool, text TextFunc) []Directive {
	if richPreview && !inside {
		payload := ""
		if text != nil && a.From < a.To {
			payload = text(a.From, a.To)
		}
		ds = append(ds, Directive{
			Op:   OpWidget,
			From: a.SyntaxFrom,
			To:   a.SyntaxTo,
			Widget: &MaskWidget{
				Payload:  payload,
				Segments: richtext.SplitMath(payload),
			},
		})
		return ds
	}

	if a.From < a.To {
		ds = append(ds, Directive{
			Op:    OpMark,
			From:  a.From,
			To:    a.To,
			Class: style.ClassMask,
		})
	}

	return ds
}
