//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

const exeSuffix = ""

// setEngineSysProcAttr puts the engine in its own process group so a group
// kill also reaches any workers the engine forks.
func setEngineSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalEngineStop asks the engine group to shut down cleanly.
func signalEngineStop(cmd *exec.Cmd) error {
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM); err == nil {
		return nil
	}
	// Group kill can fail if Setpgid was refused (restricted sandboxes);
	// fall back to signalling the process directly.
	return cmd.Process.Signal(syscall.SIGTERM)
}

// killEngine force-kills the engine group.
func killEngine(cmd *exec.Cmd) error {
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return cmd.Process.Kill()
}
