package reconcile

import (
	"sync"
	"testing"
	"time"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/host"
)

// fakeWidget implements host.Widget for testing.
type fakeWidget struct {
	mu      sync.Mutex
	id      string
	role    host.WidgetRole
	pos     int
	posErr  error
	blurred bool
}

func (f *fakeWidget) ID() string            { return f.id }
func (f *fakeWidget) Role() host.WidgetRole { return f.role }

func (f *fakeWidget) Position() (int, error) {
	return f.pos, f.posErr
}

func (f *fakeWidget) SetBlurred(b bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blurred = b
}

func (f *fakeWidget) isBlurred() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blurred
}

// fakeRegistry implements host.WidgetRegistry. Guarded because the
// scheduler's retry timers read it from another goroutine.
type fakeRegistry struct {
	mu      sync.Mutex
	widgets []host.Widget
}

func (f *fakeRegistry) Widgets() []host.Widget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.widgets
}

func (f *fakeRegistry) setWidgets(ws []host.Widget) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.widgets = ws
}

func mask(syntaxFrom, syntaxTo int) annotation.Annotation {
	return annotation.Annotation{
		Kind:       annotation.KindMask,
		SyntaxFrom: syntaxFrom,
		SyntaxTo:   syntaxTo,
		From:       syntaxFrom + 2,
		To:         syntaxTo - 2,
	}
}

func TestReconcileTagsWidgetsInsideMasks(t *testing.T) {
	inside := &fakeWidget{id: "in", role: host.RoleMathInline, pos: 15}
	outside := &fakeWidget{id: "out", role: host.RoleMathInline, pos: 50}
	reg := &fakeRegistry{widgets: []host.Widget{inside, outside}}

	r := NewReconciler(reg)
	tagged := r.Reconcile([]annotation.Annotation{mask(10, 30)})

	if tagged != 1 {
		t.Errorf("tagged = %d, want 1", tagged)
	}
	if !inside.isBlurred() {
		t.Error("widget inside mask span should be blurred")
	}
	if outside.isBlurred() {
		t.Error("widget outside mask span should not be blurred")
	}
}

func TestReconcileClearsPriorTags(t *testing.T) {
	w := &fakeWidget{id: "w", role: host.RoleMathDisplay, pos: 15, blurred: true}
	reg := &fakeRegistry{widgets: []host.Widget{w}}

	r := NewReconciler(reg)
	r.Reconcile(nil)

	if w.isBlurred() {
		t.Error("reconcile with no masks should clear prior blur tags")
	}
}

func TestReconcileSkipsUnresolvableWidgets(t *testing.T) {
	detached := &fakeWidget{id: "gone", role: host.RoleMathInline, posErr: host.ErrNotAttached}
	ok := &fakeWidget{id: "ok", role: host.RoleEmbed, pos: 15}
	reg := &fakeRegistry{widgets: []host.Widget{detached, ok}}

	r := NewReconciler(reg)
	tagged := r.Reconcile([]annotation.Annotation{mask(10, 30)})

	if tagged != 1 {
		t.Errorf("tagged = %d, want 1; resolution failure must not abort the pass", tagged)
	}
	if detached.isBlurred() {
		t.Error("unresolvable widget should be skipped")
	}
	if !ok.isBlurred() {
		t.Error("later widgets should still be processed")
	}
}

func TestReconcileIgnoresNonMaskAnnotations(t *testing.T) {
	w := &fakeWidget{id: "w", role: host.RoleMathInline, pos: 15}
	reg := &fakeRegistry{widgets: []host.Widget{w}}

	comment := annotation.Annotation{
		Kind: annotation.KindComment, SyntaxFrom: 10, SyntaxTo: 30, From: 14, To: 26,
	}

	r := NewReconciler(reg)
	if tagged := r.Reconcile([]annotation.Annotation{comment}); tagged != 0 {
		t.Errorf("tagged = %d, want 0 for comment annotations", tagged)
	}
}

func TestReconcileNilRegistry(t *testing.T) {
	r := NewReconciler(nil)
	if tagged := r.Reconcile([]annotation.Annotation{mask(0, 10)}); tagged != 0 {
		t.Errorf("tagged = %d, want 0", tagged)
	}
}

// fakeNotifier implements host.MutationNotifier.
type fakeNotifier struct {
	mu        sync.Mutex
	fn        func()
	cancelled bool
}

func (f *fakeNotifier) OnMutation(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancelled = true
		f.fn = nil
	}
}

func (f *fakeNotifier) fire() {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func TestSchedulerUpdateReconcilesImmediately(t *testing.T) {
	w := &fakeWidget{id: "w", role: host.RoleMathInline, pos: 15}
	reg := &fakeRegistry{widgets: []host.Widget{w}}
	s := NewScheduler(NewReconciler(reg))
	defer s.Stop()

	s.Update([]annotation.Annotation{mask(10, 30)})

	if !w.isBlurred() {
		t.Error("Update should reconcile immediately")
	}
}

func TestSchedulerRetriesCatchLateWidgets(t *testing.T) {
	reg := &fakeRegistry{}
	s := NewScheduler(NewReconciler(reg))
	s.retryDelays = []time.Duration{10 * time.Millisecond}
	defer s.Stop()

	s.Update([]annotation.Annotation{mask(10, 30)})

	// Widget appears after the immediate pass, as late typesetting does.
	late := &fakeWidget{id: "late", role: host.RoleMathInline, pos: 15}
	reg.setWidgets([]host.Widget{late})

	deadline := time.Now().Add(500 * time.Millisecond)
	for !late.isBlurred() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !late.isBlurred() {
		t.Error("retry pass should tag late-rendered widget")
	}
}

func TestSchedulerMutationTriggersReconcile(t *testing.T) {
	reg := &fakeRegistry{}
	s := NewScheduler(NewReconciler(reg))
	s.retryDelays = nil
	defer s.Stop()

	n := &fakeNotifier{}
	s.Watch(n)
	s.Update([]annotation.Annotation{mask(10, 30)})

	late := &fakeWidget{id: "late", role: host.RoleEmbed, pos: 12}
	reg.setWidgets([]host.Widget{late})
	n.fire()

	if !late.isBlurred() {
		t.Error("mutation burst should trigger a reconcile pass")
	}
}

func TestSchedulerStopDisconnects(t *testing.T) {
	reg := &fakeRegistry{}
	s := NewScheduler(NewReconciler(reg))

	n := &fakeNotifier{}
	s.Watch(n)
	s.Stop()

	if !n.cancelled {
		t.Error("Stop should cancel the mutation watch")
	}

	// Post-stop updates and mutations are no-ops.
	w := &fakeWidget{id: "w", role: host.RoleMathInline, pos: 15}
	reg.setWidgets([]host.Widget{w})
	s.Update([]annotation.Annotation{mask(10, 30)})
	n.fire()

	if w.isBlurred() {
		t.Error("stopped scheduler must not reconcile")
	}
}
