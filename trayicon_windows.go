//go:build windows

package main

import (
	_ "embed"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

//go:embed build/windows/icon.ico
var trayIconICO []byte

// trayIcon returns the ICO-format icon bytes for Windows systray.
func trayIcon() []byte {
	return trayIconICO
}

var (
	user32dll          = windows.NewLazySystemDLL("User32.dll")
	pFindWindowW       = user32dll.NewProc("FindWindowW")
	pIsWindowVisible   = user32dll.NewProc("IsWindowVisible")
	pIsIconic          = user32dll.NewProc("IsIconic")
	pCallWindowProcW   = user32dll.NewProc("CallWindowProcW")
	pSetWindowLongPtrW = user32dll.NewProc("SetWindowLongPtrW") // 64-bit
	pSetWindowLongW    = user32dll.NewProc("SetWindowLongW")    // 32-bit fallback
)

const (
	wmUser          = 0x0400
	wmSystrayMsg    = wmUser + 1 // must match systray-on-wails initInstance (WM_USER+1)
	wmLButtonUp     = 0x0202
	wmLButtonDblClk = 0x0203
)

var (
	origWndProc  uintptr
	onTrayToggle func()
)

// traySubclassProc replaces the wndProc of the systray hidden window so a
// left click (single or double) toggles the main window. Right-click falls
// through to the original handler, which shows the context menu.
func traySubclassProc(hWnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	if msg == wmSystrayMsg {
		switch lParam {
		case wmLButtonUp, wmLButtonDblClk:
			if onTrayToggle != nil {
				go onTrayToggle()
			}
			return 0
		}
	}
	ret, _, _ := pCallWindowProcW.Call(origWndProc, hWnd, uintptr(msg), wParam, lParam)
	return ret
}

// subclassSystray finds the hidden window the systray-on-wails library
// creates (class "SystrayClass") and swaps its wndProc for traySubclassProc.
// Must run inside the systray onReady callback, after that window exists.
func subclassSystray(toggleFn func()) {
	onTrayToggle = toggleFn

	className, _ := windows.UTF16PtrFromString("SystrayClass")
	hwnd, _, _ := pFindWindowW.Call(uintptr(unsafe.Pointer(className)), 0)
	if hwnd == 0 {
		return
	}

	cb := syscall.NewCallback(traySubclassProc)
	// GWLP_WNDPROC = -4, written as ^uintptr(3) for the unsigned conversion
	origWndProc = callSetWindowLongPtr(hwnd, ^uintptr(3), cb)
}

// callSetWindowLongPtr calls SetWindowLongPtrW where it exists (64-bit);
// 32-bit user32.dll only has SetWindowLongW.
func callSetWindowLongPtr(hwnd, index, newLong uintptr) uintptr {
	if pSetWindowLongPtrW.Find() == nil {
		ret, _, _ := pSetWindowLongPtrW.Call(hwnd, index, newLong)
		return ret
	}
	ret, _, _ := pSetWindowLongW.Call(hwnd, index, newLong)
	return ret
}

// isAppWindowVisible reports whether the main window is visible and whether
// it is minimized, straight from the window manager.
func isAppWindowVisible() (visible bool, minimized bool) {
	title, _ := windows.UTF16PtrFromString("CK3Gen Studio")
	hwnd, _, _ := pFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd == 0 {
		return false, false
	}
	v, _, _ := pIsWindowVisible.Call(hwnd)
	m, _, _ := pIsIconic.Call(hwnd)
	return v != 0, m != 0
}
