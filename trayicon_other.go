//go:build !windows

package main

// trayIcon returns the PNG icon bytes for non-Windows systray.
func trayIcon() []byte {
	return appIconPNG
}

// subclassSystray is Windows-only; elsewhere the systray library's default
// click handling is good enough.
func subclassSystray(dblClickFn func()) {}

// isAppWindowVisible cannot be queried off-Windows; report hidden so the
// tray toggle always shows the window.
func isAppWindowVisible() (visible bool, minimized bool) {
	return false, false
}
