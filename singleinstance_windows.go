//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW = user32.NewProc("FindWindowW")
	procSetFGWindow = user32.NewProc("SetForegroundWindow")
	procShowWindow  = user32.NewProc("ShowWindow")
)

// ensureSingleInstance checks that no other CK3Gen Studio instance is running —
// two shells would fight over the engine port. Returns a cleanup function to
// call on exit, or exits the process if another instance is found.
// waitSeconds is unused here; it exists for signature parity with the Unix build.
func ensureSingleInstance(waitSeconds int) func() {
	mutexName, _ := windows.UTF16PtrFromString("Global\\CK3GenStudio_SingleInstance")

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if handle == 0 {
		fmt.Println("failed to create instance mutex")
		os.Exit(1)
	}

	if err == windows.ERROR_ALREADY_EXISTS {
		// Another instance is running; bring its window to front and bail.
		fmt.Println("CK3Gen Studio is already running")
		bringExistingWindowToFront()
		os.Exit(0)
	}

	// Also create a lock file as a secondary indicator
	lockPath := filepath.Join(AppDataDir(), "ck3studio.lock")
	lockFile, _ := os.Create(lockPath)
	if lockFile != nil {
		fmt.Fprintf(lockFile, "%d", os.Getpid())
	}

	return func() {
		windows.CloseHandle(handle)
		if lockFile != nil {
			lockFile.Close()
		}
		os.Remove(lockPath)
	}
}

func bringExistingWindowToFront() {
	title, _ := windows.UTF16PtrFromString("CK3Gen Studio")
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd != 0 {
		const swRestore = 9
		procShowWindow.Call(hwnd, swRestore)
		procSetFGWindow.Call(hwnd)
	}
}
