package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/ra1phdd/systray-on-wails"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

//go:embed build/appicon.png
var appIconPNG []byte

// engineReadyTimeout bounds the startup probe for the engine's API port.
const engineReadyTimeout = 30 * time.Second

// DesktopApp is the Wails application binding struct.
// Methods on this struct are exposed to the frontend via window.go.main.DesktopApp.
type DesktopApp struct {
	ctx      context.Context
	cfg      *AppConfig
	history  *RunHistory
	noEngine bool // -no-engine flag: never spawn the backend

	mu     sync.Mutex
	engine *Engine
	runID  int64 // open history row for the current run, 0 when closed
}

// NewDesktopApp creates a new DesktopApp instance.
func NewDesktopApp(cfg *AppConfig, noEngine bool) *DesktopApp {
	return &DesktopApp{cfg: cfg, noEngine: noEngine}
}

// startup is called when the Wails app starts. It owns the engine handle for
// the application's lifetime; shutdown is the only other place that acts on it.
func (a *DesktopApp) startup(ctx context.Context) {
	a.ctx = ctx
	beeep.AppName = "CK3Gen Studio"

	hist, err := OpenRunHistory(DataPath("engine_runs.db"))
	if err != nil {
		Log.Error("failed to open engine run history", "error", err)
	} else {
		a.history = hist
	}

	if a.noEngine || !a.cfg.IsLaunchEngine() {
		// Development mode: the backend is started by hand.
		Log.Info("engine launch disabled", "flag", a.noEngine, "config", a.cfg.IsLaunchEngine())
	} else if err := a.launchEngine(); err != nil {
		// The window still opens so the user gets a diagnostic instead of
		// a silently missing app.
		Log.Error("failed to start engine", "error", err)
		wailsRuntime.EventsEmit(ctx, EventEngineError, err.Error())
		beeep.Notify("CK3Gen Studio", "The generation engine could not be started. Check the logs.", "")
	}

	a.initSystray()
}

// onDomReady is called when the WebView DOM is fully loaded.
func (a *DesktopApp) onDomReady(ctx context.Context) {
	Log.Debug("Wails OnDomReady fired, UI is interactive")
}

// shutdown is called when the Wails app is closing. The engine must not
// outlive the window, so this terminates it before anything else.
func (a *DesktopApp) shutdown(ctx context.Context) {
	a.stopEngine("window closed")

	// Save window size
	w, h := wailsRuntime.WindowGetSize(ctx)
	if w > 0 && h > 0 {
		a.cfg.WindowWidth = w
		a.cfg.WindowHeight = h
	}
	if err := SaveConfig(a.cfg); err != nil {
		Log.Error("failed to save config", "error", err)
	}

	if a.history != nil {
		a.history.Close()
	}
	systray.Quit()
}

// launchEngine resolves, spawns and registers the sidecar backend.
func (a *DesktopApp) launchEngine() error {
	path, err := resolveEnginePath(engineBinaryName, a.cfg.EnginePath)
	if err != nil {
		return err
	}

	eng := NewEngine(path)
	eng.ExtraEnv = []string{fmt.Sprintf("CK3GEN_PORT=%d", a.cfg.EnginePort)}
	eng.OnLine = func(stream, line string) {
		// Same fixed prefix the log watchers grep for
		Log.Info("engine: "+line, "stream", stream)
		wailsRuntime.EventsEmit(a.ctx, EventEngineLine, engineLinePayload{Stream: stream, Line: line})
	}
	eng.OnExit = func(exitErr error) {
		a.handleEngineExit(eng, exitErr)
	}

	if err := eng.Start(); err != nil {
		return err
	}

	a.mu.Lock()
	a.engine = eng
	a.mu.Unlock()
	Log.Info("engine started", "pid", eng.PID(), "binary", path, "port", a.cfg.EnginePort)

	if a.history != nil {
		if id, err := a.history.RecordStart(eng.PID(), path); err != nil {
			Log.Error("failed to record engine start", "error", err)
		} else {
			a.mu.Lock()
			a.runID = id
			a.mu.Unlock()
		}
	}

	go func() {
		if err := waitForEngineReady(a.cfg.EnginePort, engineReadyTimeout, eng.Done()); err != nil {
			Log.Error("engine readiness probe failed", "error", err)
			return
		}
		Log.Info("engine ready", "port", a.cfg.EnginePort)
		wailsRuntime.EventsEmit(a.ctx, EventEngineReady, a.cfg.EnginePort)
	}()

	return nil
}

// handleEngineExit reacts to the engine dying on its own: record it, tell the
// frontend, raise a notification. No automatic restart.
func (a *DesktopApp) handleEngineExit(eng *Engine, exitErr error) {
	code := 0
	var exitError *exec.ExitError
	if errors.As(exitErr, &exitError) {
		code = exitError.ExitCode()
	}
	Log.Error("engine exited unexpectedly", "pid", eng.PID(), "exitCode", code, "error", exitErr)

	a.recordExit(&code, "crashed")

	payload := engineExitPayload{PID: eng.PID(), ExitCode: code}
	if exitErr != nil {
		payload.Error = exitErr.Error()
	}
	if a.ctx != nil {
		wailsRuntime.EventsEmit(a.ctx, EventEngineExit, payload)
	}
	beeep.Notify("CK3Gen Studio", "The generation engine stopped unexpectedly.", "")
}

// stopEngine terminates the current engine, if any, and closes out its
// history row. A termination failure is logged but never blocks app close.
func (a *DesktopApp) stopEngine(reason string) {
	a.mu.Lock()
	eng := a.engine
	a.mu.Unlock()
	if eng == nil {
		return
	}

	if err := eng.Terminate(); err != nil {
		Log.Error("failed to terminate engine", "pid", eng.PID(), "error", err)
	} else {
		Log.Info("engine terminated", "pid", eng.PID(), "reason", reason)
	}
	a.recordExit(nil, reason)

	a.mu.Lock()
	if a.engine == eng {
		a.engine = nil
	}
	a.mu.Unlock()
}

// recordExit closes the open history row at most once per run.
func (a *DesktopApp) recordExit(code *int, reason string) {
	a.mu.Lock()
	id := a.runID
	a.runID = 0
	a.mu.Unlock()
	if a.history == nil || id == 0 {
		return
	}
	if err := a.history.RecordExit(id, code, reason); err != nil {
		Log.Error("failed to record engine exit", "error", err)
	}
}

// EngineState returns the lifecycle state of the engine for the frontend.
func (a *DesktopApp) EngineState() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return EngineNotStarted
	}
	return a.engine.State()
}

// EnginePID returns the engine process id, or 0 when not running.
func (a *DesktopApp) EnginePID() int {
	a.mu.Lock()
	eng := a.engine
	a.mu.Unlock()
	if eng == nil {
		return 0
	}
	return eng.PID()
}

// RestartEngine stops the current engine (if any) and spawns a fresh one.
// Exposed to the frontend's diagnostics panel.
func (a *DesktopApp) RestartEngine() error {
	if a.noEngine {
		return fmt.Errorf("engine disabled by -no-engine")
	}
	a.stopEngine("restart requested")
	if err := a.launchEngine(); err != nil {
		Log.Error("engine restart failed", "error", err)
		wailsRuntime.EventsEmit(a.ctx, EventEngineError, err.Error())
		return err
	}
	return nil
}

// GetRunHistory returns the most recent engine runs, newest first.
func (a *DesktopApp) GetRunHistory(limit int) ([]EngineRun, error) {
	if a.history == nil {
		return nil, fmt.Errorf("run history unavailable")
	}
	return a.history.Recent(limit)
}

// SetLogLevelPref changes the log level at runtime and persists it.
func (a *DesktopApp) SetLogLevelPref(level string) {
	SetLogLevel(level)
	a.cfg.LogLevel = GetLogLevel()
}

// GetLogLevelPref returns the current log level.
func (a *DesktopApp) GetLogLevelPref() string {
	return GetLogLevel()
}

// showWindow brings the application window to the foreground.
func (a *DesktopApp) showWindow() {
	wailsRuntime.Show(a.ctx)
	wailsRuntime.WindowUnminimise(a.ctx)
}

// toggleWindow shows the window if hidden/minimized, hides it if visible.
func (a *DesktopApp) toggleWindow() {
	visible, minimized := isAppWindowVisible()
	if visible && !minimized {
		wailsRuntime.Hide(a.ctx)
	} else {
		a.showWindow()
	}
}

// initSystray sets up the system tray icon and menu.
func (a *DesktopApp) initSystray() {
	systray.Register(func() {
		systray.SetIcon(trayIcon())
		systray.SetTooltip(fmt.Sprintf("CK3Gen Studio v%s", AppVersion))

		mShow := systray.AddMenuItem("Open CK3Gen Studio", "Show the main window")
		mQuit := systray.AddMenuItem("Quit", "Quit CK3Gen Studio and stop the engine")

		subclassSystray(a.toggleWindow)

		go func() {
			for {
				select {
				case <-mShow.ClickedCh:
					a.showWindow()
				case <-mQuit.ClickedCh:
					wailsRuntime.Quit(a.ctx)
					return
				}
			}
		}()
	}, nil)
}

// OpenLogDir opens the log directory in the system file explorer.
func (a *DesktopApp) OpenLogDir() error {
	logDir := LogDir()
	os.MkdirAll(logDir, 0755)
	switch goruntime.GOOS {
	case "windows":
		return exec.Command("explorer", logDir).Start()
	case "darwin":
		return exec.Command("open", logDir).Start()
	case "linux":
		return exec.Command("xdg-open", logDir).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", goruntime.GOOS)
	}
}
