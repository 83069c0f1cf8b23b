// Package app is the reference terminal host for the annotation
// engine: a small tcell viewer that loads a file, installs the
// extension, and maps decorations, tooltips, and wrap commands onto a
// terminal screen.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sidenote/internal/annotation"
	"github.com/dshills/sidenote/internal/config"
	"github.com/dshills/sidenote/internal/decoration"
	"github.com/dshills/sidenote/internal/event"
	"github.com/dshills/sidenote/internal/extension"
	"github.com/dshills/sidenote/internal/host"
	"github.com/dshills/sidenote/internal/style"
	"github.com/dshills/sidenote/internal/tooltip"
)

// ErrQuit signals a normal user-requested exit.
var ErrQuit = errors.New("app: quit")

// Options configures the viewer.
type Options struct {
	ConfigPath string
	File       string
	ReadOnly   bool
}

// App owns the document, the screen, and the installed extension. It
// implements the host interfaces the extension consumes.
//
// All engine work runs on the Run event loop. The config watcher fires
// on its own goroutine; its observer only posts a configEvent, and the
// loop applies the change between draws.
type App struct {
	opts   Options
	doc    *Document
	screen tcell.Screen
	bus    *event.Bus
	ext    *extension.Extension

	// mu guards screen and pendingCfg, the only state touched from the
	// watcher goroutine.
	mu         sync.Mutex
	pendingCfg *config.Change

	notifier *config.Notifier
	watcher  *config.Watcher
	sheet    style.Sheet

	cursor int
	anchor int // selection anchor offset, -1 when no selection
	rich   bool
	top    int // first visible line

	directives []decoration.Directive
	grid       [][]Cell // last drawn rows, for mouse hit-testing
	hoverAt    int      // last hovered offset, -1 when none
	editBuf    []rune
	status     string
}

// New assembles the viewer: document, configuration with live reload,
// event bus, and the extension itself.
func New(opts Options) (*App, error) {
	a := &App{
		opts:    opts,
		doc:     NewDocument(),
		bus:     event.NewBus(),
		anchor:  -1,
		hoverAt: -1,
		rich:    true,
	}

	if opts.File != "" {
		doc, err := LoadDocument(opts.File)
		if err != nil {
			return nil, err
		}
		a.doc = doc
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		// Invalid config is not fatal; Load already fell back to
		// defaults.
		a.status = fmt.Sprintf("config: %v", err)
	}
	a.sheet = cfg.Sheet()
	a.notifier = config.NewNotifier(cfg)
	a.notifier.Subscribe(a.onConfigChange)
	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, a.notifier)
		if err != nil {
			return nil, err
		}
		a.watcher = w
	}

	eh := extension.Host{
		Viewport:   a,
		Selections: a,
		Mode:       a,
		Sink:       a,
	}
	if !opts.ReadOnly {
		eh.Edits = a
	}
	ext, err := extension.New(eh, a.bus, nil)
	if err != nil {
		return nil, err
	}
	a.ext = ext
	return a, nil
}

// Windows returns the annotation scan window, the whole document.
func (a *App) Windows() []annotation.Span {
	return []annotation.Span{a.doc.Window()}
}

// TextRange returns document text in [from, to).
func (a *App) TextRange(from, to int) string { return a.doc.TextRange(from, to) }

// Revision returns the document edit counter.
func (a *App) Revision() uint64 { return a.doc.Revision() }

// Selections returns the active selection, or the caret as an empty
// span.
func (a *App) Selections() []annotation.Span {
	if a.anchor >= 0 {
		from, to := a.anchor, a.cursor
		if from > to {
			from, to = to, from
		}
		return []annotation.Span{{From: from, To: to}}
	}
	return []annotation.Span{{From: a.cursor, To: a.cursor}}
}

// RichPreview reports the current display mode.
func (a *App) RichPreview() bool { return a.rich }

// ApplyEdit edits the document and announces the change.
func (a *App) ApplyEdit(from, to int, replacement string) error {
	if err := a.doc.ApplyEdit(from, to, replacement); err != nil {
		return err
	}
	a.cursor = a.doc.ClampOffset(a.cursor)
	a.bus.Publish(event.TopicDocumentChanged, nil)
	return nil
}

// ApplyDecorations stores the directive set for the next draw.
func (a *App) ApplyDecorations(ds []decoration.Directive) {
	a.directives = ds
}

// configEvent carries a reloaded configuration onto the event loop.
type configEvent struct {
	tcell.EventTime
	change config.Change
}

// onConfigChange runs on the watcher goroutine. It never touches engine
// state: the change is posted to the event loop, or parked until Run
// starts.
func (a *App) onConfigChange(change config.Change) {
	a.mu.Lock()
	screen := a.screen
	if screen == nil {
		a.pendingCfg = &change
	}
	a.mu.Unlock()

	if screen != nil {
		ev := &configEvent{change: change}
		ev.SetEventNow()
		screen.PostEvent(ev)
	}
}

// applyConfig restyles and rebuilds. Event-loop goroutine only.
func (a *App) applyConfig(change config.Change) {
	a.sheet = change.New.Sheet()
	a.bus.Publish(event.TopicConfigChanged, change)
}

// Run installs the extension and drives the event loop until quit.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	return a.run(screen)
}

func (a *App) run(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()

	a.mu.Lock()
	a.screen = screen
	pending := a.pendingCfg
	a.pendingCfg = nil
	a.mu.Unlock()

	if pending != nil {
		a.applyConfig(*pending)
	}

	if err := a.ext.Install(); err != nil {
		return err
	}

	for {
		a.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if err := a.handleKey(ev); err != nil {
				return err
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *configEvent:
			a.applyConfig(ev.change)
		case nil:
			return nil
		}
	}
}

// Shutdown releases the screen and every background collaborator. Safe
// to call on all exit paths.
func (a *App) Shutdown() {
	a.mu.Lock()
	screen := a.screen
	a.screen = nil
	a.mu.Unlock()
	if screen != nil {
		screen.Fini()
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	a.ext.Close()
}

func (a *App) handleKey(ev *tcell.EventKey) error {
	tips := a.ext.Tooltips()
	if tips.Editing() {
		return a.handleEditKey(ev, tips)
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyEscape:
		a.anchor = -1
		tips.Hide()
		a.publishSelection()
	case tcell.KeyTab:
		a.rich = !a.rich
		a.ext.Rebuild()
	case tcell.KeyLeft:
		a.moveCursor(a.cursor - 1)
	case tcell.KeyRight:
		a.moveCursor(a.cursor + 1)
	case tcell.KeyUp:
		a.moveCursorLine(-1)
	case tcell.KeyDown:
		a.moveCursorLine(1)
	case tcell.KeyCtrlS:
		if err := a.doc.Save(); err != nil {
			a.status = err.Error()
		} else {
			a.status = "saved"
		}
	case tcell.KeyRune:
		return a.handleRune(ev.Rune(), tips)
	}
	return nil
}

func (a *App) handleRune(r rune, tips *tooltip.Controller) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'v':
		if a.anchor >= 0 {
			a.anchor = -1
		} else {
			a.anchor = a.cursor
		}
		a.publishSelection()
	case 'm':
		a.wrapSelection(false)
	case 'c':
		a.wrapSelection(true)
	case 'e':
		if tips.State() == tooltip.StateShowing && tips.Editable() {
			if current, ok := tips.BeginEdit(); ok {
				a.editBuf = []rune(current)
			}
		}
	}
	return nil
}

// handleEditKey routes keys into the tooltip edit buffer.
func (a *App) handleEditKey(ev *tcell.EventKey, tips *tooltip.Controller) error {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyEscape:
		tips.CancelEdit()
		a.editBuf = nil
	case tcell.KeyEnter:
		if err := tips.CommitEdit(string(a.editBuf)); err != nil {
			a.status = err.Error()
		}
		a.editBuf = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.editBuf) > 0 {
			a.editBuf = a.editBuf[:len(a.editBuf)-1]
		}
	case tcell.KeyRune:
		a.editBuf = append(a.editBuf, ev.Rune())
	}
	return nil
}

// wrapSelection wraps the current selection in mask or comment syntax.
func (a *App) wrapSelection(comment bool) {
	sels := a.Selections()
	sel := sels[0]
	if sel.IsEmpty() {
		a.status = "select text first (v)"
		return
	}

	var err error
	if comment {
		var label annotation.Span
		label, err = extension.WrapComment(a, a.editApplier(), sel)
		if err == nil {
			// Leave the placeholder label selected for renaming.
			a.anchor, a.cursor = label.From, label.To
		}
	} else {
		err = extension.WrapMask(a, a.editApplier(), sel)
		if err == nil {
			a.anchor = -1
		}
	}
	if err != nil {
		a.status = err.Error()
		return
	}
	a.publishSelection()
}

// editApplier returns the edit surface, nil in read-only mode.
func (a *App) editApplier() host.EditApplier {
	if a.opts.ReadOnly {
		return nil
	}
	return a
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	offset := a.offsetAt(x, y)

	if ev.Buttons()&tcell.Button1 != 0 && offset >= 0 {
		a.moveCursor(offset)
		return
	}

	if offset == a.hoverAt {
		return
	}
	a.hoverAt = offset

	if offset < 0 || !a.ext.Hover(offset, tooltip.Anchor{X: x, Y: y, Width: 1, Height: 1}, a.viewSize()) {
		a.ext.HoverEnd(a.overTooltip(x, y))
	}
}

// overTooltip reports whether a screen position is inside the active
// tooltip box.
func (a *App) overTooltip(x, y int) bool {
	t := a.ext.Tooltips().Active()
	if t == nil {
		return false
	}
	return x >= t.X && x < t.X+t.Width && y >= t.Y && y < t.Y+t.Height
}

func (a *App) moveCursor(offset int) {
	a.cursor = a.doc.ClampOffset(offset)
	a.scrollToCursor()
	a.publishSelection()
}

func (a *App) moveCursorLine(delta int) {
	lines := a.doc.Lines()
	cur := a.doc.LineAt(a.cursor)
	col := a.cursor - lines[cur].Offset

	next := cur + delta
	if next < 0 || next >= len(lines) {
		return
	}
	if col > len(lines[next].Text) {
		col = len(lines[next].Text)
	}
	a.moveCursor(lines[next].Offset + col)
}

func (a *App) scrollToCursor() {
	line := a.doc.LineAt(a.cursor)
	_, height := a.screenSize()
	visible := height - 1 // status line
	if line < a.top {
		a.top = line
	}
	if line >= a.top+visible {
		a.top = line - visible + 1
	}
}

func (a *App) publishSelection() {
	a.bus.Publish(event.TopicSelectionChanged, nil)
}

func (a *App) screenSize() (int, int) {
	if a.screen == nil {
		return 80, 24
	}
	return a.screen.Size()
}

func (a *App) viewSize() tooltip.ViewSize {
	w, h := a.screenSize()
	return tooltip.ViewSize{Width: w, Height: h}
}

// offsetAt maps a screen position back to a document offset using the
// last drawn grid, or -1 for positions outside the text.
func (a *App) offsetAt(x, y int) int {
	if y < 0 || y >= len(a.grid) {
		return -1
	}
	row := a.grid[y]
	if x < 0 || x >= len(row) {
		return -1
	}
	return row[x].Offset
}
