// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/config"
	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/input"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/statusbar"
	"github.com/bethropolis/veil/internal/strategy"
	"github.com/bethropolis/veil/internal/theme"
	"github.com/bethropolis/veil/internal/tui"
	"github.com/bethropolis/veil/internal/view"
	"github.com/gdamore/tcell/v2"
)

// Options replaces parts NewApp would otherwise set up itself.
type Options struct {
	Screen    tcell.Screen       // nil: the terminal
	ThemesDir string             // "" : next to the default config file
	Clipboard func(string) error // nil: the system clipboard
}

// App encapsulates the core components and main loop of the viewer.
type App struct {
	cfg            *config.Config
	tuiManager     *tui.TUI
	themeManager   *theme.Manager
	activeTheme    *theme.Theme
	statusBar      *statusbar.StatusBar
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager

	doc       *buffer.Document
	views     []*view.View // views[0] owns the installed manager
	active    int
	hidings   *hiding.Manager
	uninstall func()

	strategy        strategy.Strategy
	strategyApplied bool // Re-run the strategy after edits
	refresher       *HidingRefresher
	generation      uint64 // Bumped on every document edit
	watcher         *FileWatcher

	writeClipboard func(string) error
	register       string // Last yank when the system clipboard is off

	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
	refreshed     chan refreshResult
	fileChanged   chan struct{}
}

// NewApp opens filePath and builds the viewer around it.
func NewApp(cfg *config.Config, filePath string, opts Options) (*App, error) {
	themesDir := opts.ThemesDir
	if themesDir == "" {
		if p := config.DefaultPath(); p != "" {
			themesDir = filepath.Join(filepath.Dir(p), config.ThemesDirName)
		}
	}
	themeManager := theme.NewManager(themesDir)
	if err := themeManager.SetTheme(cfg.Viewer.Theme); err != nil {
		logger.Warnf("App: %v, using '%s'", err, themeManager.Current().Name)
	}
	activeTheme := themeManager.Current()

	var (
		tuiManager *tui.TUI
		err        error
	)
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen, activeTheme)
	} else {
		tuiManager, err = tui.New(activeTheme)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	doc := buffer.New("")
	doc.SetEventManager(eventManager)
	if filePath != "" {
		if err := doc.Load(filePath); err != nil {
			tuiManager.Close()
			return nil, fmt.Errorf("loading '%s': %w", filePath, err)
		}
	}

	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		themeManager:   themeManager,
		activeTheme:    activeTheme,
		statusBar:      statusbar.New(statusBarConfig(activeTheme)),
		inputProcessor: input.NewInputProcessor(),
		eventManager:   eventManager,
		doc:            doc,
		writeClipboard: opts.Clipboard,
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
		refreshed:      make(chan refreshResult),
		fileChanged:    make(chan struct{}, 1),
	}
	if a.writeClipboard == nil {
		a.writeClipboard = clipboard.WriteAll
	}

	primary := a.newView()
	a.views = []*view.View{primary}
	a.hidings, a.uninstall, err = hiding.Install(primary, eventManager)
	if err != nil {
		tuiManager.Close()
		return nil, fmt.Errorf("installing hiding: %w", err)
	}

	a.refresher = NewHidingRefresher(config.RefreshDelay, a.deliverRefresh)
	a.subscribe()

	a.strategy = a.buildStrategy()
	if cfg.Viewer.SplitViews {
		a.toggleSplit()
	}
	if cfg.Hiding.HideByDefault {
		a.applyStrategy()
	}
	if cfg.Viewer.WatchFile && filePath != "" {
		a.watcher, err = NewFileWatcher(filePath, config.WatchDelay, a.notifyFileChanged)
		if err != nil {
			logger.Warnf("App: not watching '%s': %v", filePath, err)
		}
	}
	return a, nil
}

// statusBarConfig takes the status bar styles from th.
func statusBarConfig(th *theme.Theme) statusbar.Config {
	cfg := statusbar.DefaultConfig()
	cfg.StyleDefault = th.GetStyle("StatusBar")
	cfg.StyleModified = th.GetStyle("StatusBarModified")
	cfg.StyleMessage = th.GetStyle("StatusBarMessage")
	cfg.StyleStrategy = th.GetStyle("StatusBarStrategy")
	cfg.MessageTimeout = config.MessageTimeout
	return cfg
}

// newView creates a view of the document that repaints through the app.
func (a *App) newView() *view.View {
	v := view.New(a.doc, a.cfg.Viewer.LineHeight)
	v.SetRedrawFunc(func(start, end int) {
		a.requestRedraw()
	})
	return v
}

func (a *App) strategyOptions() strategy.Options {
	return strategy.Options{
		Line:       a.cfg.Hiding.Line,
		FirstLines: a.cfg.Hiding.FirstLines,
		FilePath:   a.doc.FilePath(),
	}
}

// buildStrategy creates the configured strategy, falling back to the
// default one when the file has no grammar.
func (a *App) buildStrategy() strategy.Strategy {
	s, err := strategy.New(a.cfg.Hiding.Strategy, a.strategyOptions())
	if err == nil {
		return s
	}
	logger.Warnf("App: %v, falling back to '%s'", err, config.DefaultStrategy)
	a.statusBar.SetTemporaryMessage("%v", err)
	a.cfg.Hiding.Strategy = config.DefaultStrategy
	s, _ = strategy.New(config.DefaultStrategy, a.strategyOptions())
	return s
}

// applyStrategy runs the strategy synchronously and keeps it refreshing after edits.
func (a *App) applyStrategy() {
	if err := strategy.Apply(context.Background(), a.hidings, a.doc, a.strategy); err != nil {
		logger.Warnf("App: applying %s: %v", a.strategy.Name(), err)
		a.statusBar.SetTemporaryMessage("Hiding failed: %v", err)
		return
	}
	if a.cfg.Hiding.DefinitionsOnly {
		a.hidings.ShowDefinitionsOnly()
	}
	a.strategyApplied = true
	name, opts := a.cfg.Hiding.Strategy, a.strategyOptions()
	a.refresher.SetStrategy(func() (strategy.Strategy, error) {
		return strategy.New(name, opts)
	})
}

// clearHidings drops every section and stops refreshing.
func (a *App) clearHidings() {
	a.hidings.Clear()
	a.strategyApplied = false
	a.refresher.SetStrategy(nil)
}

// deliverRefresh hands a background result to the main loop.
func (a *App) deliverRefresh(r refreshResult) {
	select {
	case a.refreshed <- r:
	case <-a.quit:
	}
}

// applyRefresh merges background candidates unless the document moved on.
func (a *App) applyRefresh(r refreshResult) {
	if r.generation != a.generation || !a.strategyApplied {
		logger.DebugTagf("refresh", "Dropping stale refresh (generation %d, current %d)", r.generation, a.generation)
		return
	}
	if r.err != nil {
		logger.Warnf("App: refreshing hidings: %v", r.err)
		return
	}
	if err := a.hidings.UpdateHidings(r.candidates, r.firstError); err != nil {
		logger.Warnf("App: updating hidings: %v", err)
	}
}

// notifyFileChanged is called by the watcher; the reload happens on the main loop.
func (a *App) notifyFileChanged() {
	select {
	case a.fileChanged <- struct{}{}:
	default:
	}
}

// reloadFile pulls changes made on disk into the document unless it has
// unsaved edits of its own.
func (a *App) reloadFile() {
	if a.doc.IsModified() {
		a.statusBar.SetTemporaryMessage("File changed on disk, keeping unsaved changes")
		return
	}
	changed, err := a.doc.Reload()
	if err != nil {
		logger.Warnf("App: reloading: %v", err)
		a.statusBar.SetTemporaryMessage("Reload failed: %v", err)
		return
	}
	if changed {
		a.statusBar.SetTemporaryMessage("Reloaded %s", a.doc.FilePath())
	}
}

// Run starts the application's main loop. All state changes happen on the
// calling goroutine.
func (a *App) Run() error {
	defer a.shutdown()

	events := make(chan tcell.Event)
	go a.eventLoop(events)

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("veil - h hide | c clear | t toggle | d definitions | s split | q quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.doc.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		case ev := <-events:
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case r := <-a.refreshed:
			a.applyRefresh(r)
			a.requestRedraw()
		case <-a.fileChanged:
			a.reloadFile()
			a.requestRedraw()
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// eventLoop forwards terminal events to the main loop.
func (a *App) eventLoop(out chan<- tcell.Event) {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventKey:
		return a.handleAction(a.inputProcessor.ProcessEvent(e))
	}
	return false
}

// Quit asks the main loop to stop.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

func (a *App) shutdown() {
	a.Quit()
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.refresher.Shutdown()
	for len(a.views) > 1 {
		a.views[len(a.views)-1].Close()
		a.views = a.views[:len(a.views)-1]
	}
	a.uninstall()
	a.views[0].Close()
	a.tuiManager.Close()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
