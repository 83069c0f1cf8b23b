package reconcile

import (
	"sync"
	"time"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/host"
)

// Default retry delays after an immediate pass. Bounded: typesetting
// that lands later than the last retry is caught by the mutation
// notifier instead.
var defaultRetryDelays = []time.Duration{50 * time.Millisecond, 200 * time.Millisecond}

// Scheduler drives repeated reconciliation: once immediately on each
// update, again after bounded delays, and on every mutation burst the
// host reports. Stop must be called on view teardown.
type Scheduler struct {
	mu sync.Mutex

	rec *Reconciler

	// masks is the active-mask snapshot from the latest rebuild.
	// Delayed retries may run against a stale snapshot; the next
	// rebuild cycle self-corrects.
	masks []annotation.Annotation

	timers         []*time.Timer
	cancelMutation func()
	retryDelays    []time.Duration
	stopped        bool
}

// NewScheduler creates a scheduler for the given reconciler.
func NewScheduler(rec *Reconciler) *Scheduler {
	return &Scheduler{
		rec:         rec,
		retryDelays: defaultRetryDelays,
	}
}

// Watch re-runs reconciliation on each mutation burst from the host.
// Replaces any previous watch.
func (s *Scheduler) Watch(n host.MutationNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelMutation != nil {
		s.cancelMutation()
		s.cancelMutation = nil
	}
	if n == nil || s.stopped {
		return
	}
	s.cancelMutation = n.OnMutation(func() {
		s.runOnce()
	})
}

// Update records the active-mask snapshot, reconciles immediately, and
// schedules the bounded retries.
func (s *Scheduler) Update(masks []annotation.Annotation) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.masks = masks
	s.clearTimersLocked()
	for _, d := range s.retryDelays {
		d := d
		s.timers = append(s.timers, time.AfterFunc(d, s.runOnce))
	}
	s.mu.Unlock()

	s.runOnce()
}

// Stop cancels pending retries and disconnects the mutation watch.
// Required on view teardown so late timers never act on a dead view.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.clearTimersLocked()
	if s.cancelMutation != nil {
		s.cancelMutation()
		s.cancelMutation = nil
	}
}

// runOnce performs a single reconciliation pass with the current snapshot.
func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	masks := s.masks
	s.mu.Unlock()

	s.rec.Reconcile(masks)
}

// clearTimersLocked stops pending retry timers. Caller holds the lock.
func (s *Scheduler) clearTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
