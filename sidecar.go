package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// engineBinaryName is the logical name of the bundled backend executable.
// Packaging places the concrete binary next to the shell exe, see resolve.go.
const engineBinaryName = "ck3-engine"

// killGracePeriod is how long Terminate waits for a clean exit after the
// graceful signal before escalating to a hard kill, and again after the
// hard kill before giving up.
const killGracePeriod = 2 * time.Second

// ErrEngineNotFound means no bundled engine binary exists for this platform.
var ErrEngineNotFound = errors.New("engine binary not found")

// SpawnError means the OS refused to create the engine process.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Path, e.Err) }
func (e *SpawnError) Unwrap() error { return e.Err }

// TerminateError means the OS refused the kill request, or the engine
// survived both the graceful signal and the hard kill.
type TerminateError struct {
	PID int
	Err error
}

func (e *TerminateError) Error() string { return fmt.Sprintf("terminate pid %d: %v", e.PID, e.Err) }
func (e *TerminateError) Unwrap() error { return e.Err }

// Engine run states as reported by State().
const (
	EngineNotStarted = "not-started"
	EngineRunning    = "running"
	EngineExited     = "exited"
	EngineTerminated = "terminated"
)

// Engine is the handle to the sidecar backend process. One Engine is created
// per application instance; the DesktopApp owns it from startup to shutdown.
//
// Callbacks must be assigned before Start and are not changed afterwards.
type Engine struct {
	// Path is the resolved executable path.
	Path string

	// Args are passed to the engine verbatim.
	Args []string

	// ExtraEnv entries ("KEY=value") are appended to the inherited environment.
	ExtraEnv []string

	// OnLine receives every line the engine writes to stdout or stderr,
	// exactly once and in the order produced. stream is "stdout" or "stderr".
	// Called synchronously from the relay goroutine; keep it cheap.
	OnLine func(stream, line string)

	// OnExit fires when the engine exits on its own (crash or self-shutdown).
	// It does not fire for exits caused by Terminate.
	OnExit func(err error)

	cmd  *exec.Cmd
	done chan struct{} // closed once the process is reaped

	killOnce sync.Once
	killErr  error

	mu      sync.Mutex
	state   string
	killing bool
}

// NewEngine creates a handle for the executable at path. The process is not
// started until Start is called.
func NewEngine(path string, args ...string) *Engine {
	return &Engine{
		Path:  path,
		Args:  args,
		state: EngineNotStarted,
		done:  make(chan struct{}),
	}
}

// Start launches the engine process without waiting for it to finish.
// The child gets no interactive console and runs in its own process group
// so Terminate can take down any workers it forks.
func (e *Engine) Start() error {
	cmd := exec.Command(e.Path, e.Args...)
	cmd.Env = append(os.Environ(), e.ExtraEnv...)
	setEngineSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Path: e.Path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &SpawnError{Path: e.Path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &SpawnError{Path: e.Path, Err: err}
	}

	e.mu.Lock()
	e.cmd = cmd
	e.state = EngineRunning
	e.mu.Unlock()

	var relays sync.WaitGroup
	relays.Add(2)
	go func() {
		defer relays.Done()
		e.relay("stdout", stdout)
	}()
	go func() {
		defer relays.Done()
		e.relay("stderr", stderr)
	}()

	go func() {
		// Wait must not run before the pipe readers are done with the fds.
		relays.Wait()
		err := cmd.Wait()

		e.mu.Lock()
		killed := e.killing
		if killed {
			e.state = EngineTerminated
		} else {
			e.state = EngineExited
		}
		e.mu.Unlock()

		close(e.done)

		if !killed && e.OnExit != nil {
			go e.OnExit(err)
		}
	}()

	return nil
}

// relay drains one output stream line by line. Each line is handed to OnLine
// and then dropped, so a chatty engine never grows the shell's memory.
// The loop ends when the pipe closes (engine exit or kill).
func (e *Engine) relay(stream string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		if e.OnLine != nil {
			e.OnLine(stream, scanner.Text())
		}
	}
}

// PID returns the engine process id, or 0 if it was never started.
func (e *Engine) PID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return 0
	}
	return e.cmd.Process.Pid
}

// State returns the current lifecycle state.
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Running reports whether the engine process is still alive.
func (e *Engine) Running() bool {
	return e.State() == EngineRunning
}

// Done returns a channel closed once the engine process has been reaped.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Terminate shuts the engine down: graceful signal first, hard kill of the
// process group if it does not exit within killGracePeriod. Safe to call more
// than once; repeat calls return the first result. An engine that already
// exited on its own counts as success.
func (e *Engine) Terminate() error {
	e.killOnce.Do(func() { e.killErr = e.terminate() })
	return e.killErr
}

func (e *Engine) terminate() error {
	e.mu.Lock()
	if e.state != EngineRunning {
		// Never started, or already exited. Nothing to kill.
		e.mu.Unlock()
		return nil
	}
	e.killing = true
	cmd := e.cmd
	e.mu.Unlock()

	pid := cmd.Process.Pid

	// The graceful signal can race a self-exit; that is not a failure,
	// the wait below settles it.
	_ = signalEngineStop(cmd)

	select {
	case <-e.done:
		return nil
	case <-time.After(killGracePeriod):
	}

	if err := killEngine(cmd); err != nil {
		select {
		case <-e.done:
			// Lost the race: the engine exited on its own. Still a success.
			return nil
		default:
		}
		return &TerminateError{PID: pid, Err: err}
	}

	select {
	case <-e.done:
		return nil
	case <-time.After(killGracePeriod):
		return &TerminateError{PID: pid, Err: errors.New("process did not exit after kill")}
	}
}
