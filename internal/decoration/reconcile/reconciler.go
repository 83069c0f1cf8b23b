// Package reconcile re-tags rendered rich-content widgets that fall
// inside active mask spans. Typesetting runs outside the engine's
// synchronous pass and may finish late or replace elements the
// decoration layer cannot wrap, so a best-effort post-pass walks the
// host's widget registry and applies the blur tag after the fact.
package reconcile

import (
	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/host"
)

// Reconciler tags rendered widgets inside active mask spans.
type Reconciler struct {
	registry host.WidgetRegistry
}

// NewReconciler creates a reconciler over the host's widget registry.
func NewReconciler(registry host.WidgetRegistry) *Reconciler {
	return &Reconciler{registry: registry}
}

// Reconcile clears every prior blur tag, then re-tags widgets whose
// resolved document position falls within an active mask's full syntax
// span. masks must contain only masks that are not cursor-inside.
//
// Position resolution can fail for detached or transient widgets; such
// widgets are skipped, never treated as an error. Returns the number of
// widgets tagged.
func (r *Reconciler) Reconcile(masks []annotation.Annotation) int {
	if r.registry == nil {
		return 0
	}

	widgets := r.registry.Widgets()

	for _, w := range widgets {
		w.SetBlurred(false)
	}

	if len(masks) == 0 {
		return 0
	}

	tagged := 0
	for _, w := range widgets {
		if !isRichContent(w.Role()) {
			continue
		}
		pos, err := w.Position()
		if err != nil {
			continue
		}
		for _, m := range masks {
			if m.Kind != annotation.KindMask {
				continue
			}
			if m.Syntax().Contains(pos) {
				w.SetBlurred(true)
				tagged++
				break
			}
		}
	}

	return tagged
}

// isRichContent reports whether the role is one of the structural
// signatures the reconciler recognizes.
func isRichContent(role host.WidgetRole) bool {
	switch role {
	case host.RoleMathInline, host.RoleMathDisplay, host.RoleEmbed, host.RoleInlineAtom:
		return true
	default:
		return false
	}
}
