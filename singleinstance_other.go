//go:build !windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ensureSingleInstance checks that no other CK3Gen Studio instance is running —
// two shells would fight over the engine port. Returns a cleanup function to
// call on exit, or exits the process if another instance is found.
// waitSeconds is only meaningful on Windows and is ignored here.
func ensureSingleInstance(waitSeconds int) func() {
	lockPath := filepath.Join(AppDataDir(), "ck3studio.lock")

	// Check if lock file exists and the recorded process is still alive
	if data, err := os.ReadFile(lockPath); err == nil {
		pidStr := strings.TrimSpace(string(data))
		if pid, err := strconv.Atoi(pidStr); err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				// On Unix, FindProcess always succeeds; probe with signal 0
				if err := process.Signal(syscall.Signal(0)); err == nil {
					fmt.Println("CK3Gen Studio is already running")
					os.Exit(0)
				}
			}
		}
	}

	// Write our PID
	lockFile, _ := os.Create(lockPath)
	if lockFile != nil {
		fmt.Fprintf(lockFile, "%d", os.Getpid())
		lockFile.Close()
	}

	return func() {
		os.Remove(lockPath)
	}
}
