// Package extension assembles the annotation engine into an
// installable unit: it reacts to document, viewport, and selection
// changes, rebuilds decorations synchronously, submits them to the
// host, and keeps the mask reconciler scheduled.
package extension

import (
	"errors"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/annotation/collect"
	"github.com/dshills/sidenote/internal/decoration"
	"github.com/dshills/sidenote/internal/decoration/reconcile"
	"github.com/dshills/sidenote/internal/event"
	"github.com/dshills/sidenote/internal/host"
	"github.com/dshills/sidenote/internal/tooltip"
)

// Required-collaborator errors.
var (
	ErrNoViewport = errors.New("extension: viewport required")
	ErrNoSink     = errors.New("extension: decoration sink required")
)

// Host bundles the collaborator interfaces one editor view provides.
// Viewport and Sink are required; the rest degrade gracefully when nil.
type Host struct {
	Viewport   host.Viewport
	Selections host.SelectionProvider
	Mode       host.ModeProvider
	Edits      host.EditApplier
	Widgets    host.WidgetRegistry
	Mutations  host.MutationNotifier
	Sink       decoration.Sink
}

// Extension is one installed engine instance per editor view.
type Extension struct {
	h         Host
	bus       *event.Bus
	collector *collect.Collector
	scheduler *reconcile.Scheduler
	tips      *tooltip.Controller
	subs      []*event.Subscription

	// anns is the annotation list from the latest rebuild, kept for
	// hover hit-testing. Single-threaded: only touched from the host's
	// update cycle.
	anns []annotation.Annotation
}

// New creates an extension for a view. The tooltip controller is
// injected so one controller can serve live and static views alike.
func New(h Host, bus *event.Bus, tips *tooltip.Controller) (*Extension, error) {
	if h.Viewport == nil {
		return nil, ErrNoViewport
	}
	if h.Sink == nil {
		return nil, ErrNoSink
	}
	if tips == nil {
		tips = tooltip.NewController()
	}

	ext := &Extension{
		h:         h,
		bus:       bus,
		collector: collect.NewCollector(h.Viewport),
		scheduler: reconcile.NewScheduler(reconcile.NewReconciler(h.Widgets)),
		tips:      tips,
	}
	ext.scheduler.Watch(h.Mutations)
	return ext, nil
}

// Install subscribes to the engine topics and performs the initial
// rebuild.
func (e *Extension) Install() error {
	if e.bus != nil {
		for _, topic := range []event.Topic{
			event.TopicDocumentChanged,
			event.TopicViewportChanged,
			event.TopicSelectionChanged,
			event.TopicConfigChanged,
		} {
			sub, err := e.bus.Subscribe(topic, func(event.Topic, any) {
				e.Rebuild()
			})
			if err != nil {
				return err
			}
			e.subs = append(e.subs, sub)
		}
	}

	e.Rebuild()
	return nil
}

// Close tears the extension down: unsubscribes from the bus and stops
// the reconcile scheduler so nothing acts on a dead view.
func (e *Extension) Close() {
	for _, sub := range e.subs {
		sub.Unsubscribe()
	}
	e.subs = nil
	e.scheduler.Stop()
	e.tips.Hide()
}

// Rebuild re-collects annotations and re-derives the decoration set
// from the current text, selection, and mode. Synchronous and total: a
// rebuild triggered by a superseded event is simply overwritten by the
// next one.
func (e *Extension) Rebuild() {
	windows := e.h.Viewport.Windows()
	e.anns = e.collector.Collect(windows)

	ds := decoration.Build(e.anns, e.selections(), e.richPreview(), e.h.Viewport.TextRange)
	e.h.Sink.ApplyDecorations(ds)

	e.scheduler.Update(e.activeMasks())
}

// Tooltips returns the injected tooltip controller.
func (e *Extension) Tooltips() *tooltip.Controller {
	return e.tips
}

// Annotations returns the annotation list from the latest rebuild.
func (e *Extension) Annotations() []annotation.Annotation {
	return e.anns
}

// Hover handles hover-enter at a document offset. When the offset lies
// inside a comment's syntax span, the tooltip is shown with an edit
// callback bound to that annotation; otherwise hover is ignored.
// Returns true if a tooltip was shown.
func (e *Extension) Hover(offset int, anchor tooltip.Anchor, view tooltip.ViewSize) bool {
	for _, a := range e.anns {
		if a.Kind != annotation.KindComment {
			continue
		}
		if offset < a.SyntaxFrom || offset >= a.SyntaxTo {
			continue
		}
		var editFn tooltip.EditFunc
		if e.h.Edits != nil {
			editFn = CommentEdit(e.h.Edits, a)
		}
		e.tips.Show(a.Comment, anchor, view, editFn)
		return true
	}
	return false
}

// HoverEnd handles hover-leave.
func (e *Extension) HoverEnd(relatedIsTooltip bool) {
	e.tips.HideFromHover(relatedIsTooltip)
}

// selections returns the current selection ranges, or none.
func (e *Extension) selections() []annotation.Span {
	if e.h.Selections == nil {
		return nil
	}
	return e.h.Selections.Selections()
}

// richPreview reports the display mode. An absent provider means plain
// source mode; this must never be an error path.
func (e *Extension) richPreview() bool {
	if e.h.Mode == nil {
		return false
	}
	return e.h.Mode.RichPreview()
}

// activeMasks returns the masks eligible for widget blur tagging:
// KindMask and not cursor-inside.
func (e *Extension) activeMasks() []annotation.Annotation {
	sels := e.selections()
	var masks []annotation.Annotation
	for _, a := range e.anns {
		if a.Kind == annotation.KindMask && !a.CursorInside(sels) {
			masks = append(masks, a)
		}
	}
	return masks
}
