package extension

import (
	"errors"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/host"
	"github.com/dshills/sidenote/internal/tooltip"
)

// ErrNoEditApplier is returned by commands on views without edit access.
var ErrNoEditApplier = errors.New("extension: edit applier required")

// DefaultCommentLabel is the placeholder label WrapComment inserts.
const DefaultCommentLabel = "comment"

// CommentEdit builds the tooltip edit callback for one comment
// annotation: committing new text replaces the comment-label portion
// [SyntaxFrom, From) with a freshly formatted ==<newtext>:: prefix,
// leaving the payload untouched.
func CommentEdit(applier host.EditApplier, a annotation.Annotation) tooltip.EditFunc {
	return func(newText string) error {
		return applier.ApplyEdit(a.SyntaxFrom, a.From, "=="+newText+"::")
	}
}

// WrapMask wraps the selected text in mask syntax: ~=<selection>=~.
func WrapMask(v host.Viewport, applier host.EditApplier, sel annotation.Span) error {
	if applier == nil {
		return ErrNoEditApplier
	}
	text := v.TextRange(sel.From, sel.To)
	return applier.ApplyEdit(sel.From, sel.To, "~="+text+"=~")
}

// WrapComment wraps the selected text in comment syntax with a
// placeholder label, and returns the label's span in the edited
// document so the host can select it for immediate renaming.
func WrapComment(v host.Viewport, applier host.EditApplier, sel annotation.Span) (annotation.Span, error) {
	if applier == nil {
		return annotation.Span{}, ErrNoEditApplier
	}
	text := v.TextRange(sel.From, sel.To)
	if err := applier.ApplyEdit(sel.From, sel.To, "=="+DefaultCommentLabel+"::"+text+"=="); err != nil {
		return annotation.Span{}, err
	}

	labelFrom := sel.From + 2
	return annotation.Span{From: labelFrom, To: labelFrom + len(DefaultCommentLabel)}, nil
}
