package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sidenote/internal/config"
	"github.com/dshills/sidenote/internal/event"
	"github.com/dshills/sidenote/internal/style"
)

// waitForInstall blocks until the run loop has installed the extension,
// which happens after screen init.
func waitForInstall(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for a.bus.SubscriberCount(event.TopicDocumentChanged) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("run loop did not start")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestConfigReloadMarshalsOntoEventLoop(t *testing.T) {
	a, err := New(Options{})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(a.Shutdown)

	screen := tcell.NewSimulationScreen("UTF-8")
	done := make(chan error, 1)
	go func() { done <- a.run(screen) }()
	waitForInstall(t, a)

	// Reload fires on the watcher's goroutine; the observer must only
	// post, never rebuild. Concurrent applies exercise the handoff.
	cfg := config.DefaultConfig()
	cfg.HighlightColor = "#FF0000"
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.notifier.Apply(cfg, "reload")
		}()
	}
	wg.Wait()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := <-done; !errors.Is(err, ErrQuit) {
		t.Fatalf("run returned %v, want quit", err)
	}

	want := style.DefaultStyle().WithBackground(style.RGB(255, 0, 0))
	if a.sheet.Highlight != want {
		t.Errorf("highlight = %+v, want restyle applied by the event loop", a.sheet.Highlight)
	}
}

func TestConfigChangeBeforeRunIsParked(t *testing.T) {
	a, err := New(Options{})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(a.Shutdown)

	cfg := config.DefaultConfig()
	cfg.MaskBlurRadius = 9
	if err := a.notifier.Apply(cfg, "reload"); err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if a.sheet.BlurRadius == 9 {
		t.Fatal("change applied before the event loop started")
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	done := make(chan error, 1)
	go func() { done <- a.run(screen) }()
	waitForInstall(t, a)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := <-done; !errors.Is(err, ErrQuit) {
		t.Fatalf("run returned %v, want quit", err)
	}

	if a.sheet.BlurRadius != 9 {
		t.Errorf("BlurRadius = %d, want parked change applied on start", a.sheet.BlurRadius)
	}
}
