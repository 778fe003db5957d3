//go:build windows

package main

import (
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

const exeSuffix = ".exe"

// setEngineSysProcAttr keeps the engine from opening a console window and
// detaches it into its own Ctrl+C group.
func setEngineSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW | windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// signalEngineStop has no graceful option on Windows: the engine has no
// console to receive Ctrl+Break, so this is already a TerminateProcess.
func signalEngineStop(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

// killEngine terminates the engine and, via taskkill /T, any child processes
// it spawned (Python backends fork worker processes on Windows too).
func killEngine(cmd *exec.Cmd) error {
	kill := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(cmd.Process.Pid))
	kill.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := kill.Run(); err == nil {
		return nil
	}
	return cmd.Process.Kill()
}
