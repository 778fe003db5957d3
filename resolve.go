package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// resolveEnginePath locates the bundled engine executable for the current
// platform. override (from config or the -engine flag) wins when set; it is
// meant for development where the backend is built out of tree.
//
// Packaging drops the binary next to the shell exe, either under bin/ with
// the platform suffix (mirrors how the bundler names sidecars per target) or
// as a plain sibling.
func resolveEnginePath(name, override string) (string, error) {
	if override != "" {
		if isExecutableFile(override) {
			return override, nil
		}
		return "", fmt.Errorf("engine path %q: %w", override, ErrEngineNotFound)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate shell executable: %w", err)
	}
	return resolveEngineIn(filepath.Dir(exe), name)
}

// resolveEngineIn searches dir for the engine binary by its logical name.
func resolveEngineIn(dir, name string) (string, error) {
	candidates := []string{
		filepath.Join(dir, "bin", name+"-"+runtime.GOOS+"-"+runtime.GOARCH+exeSuffix),
		filepath.Join(dir, name+exeSuffix),
	}
	for _, c := range candidates {
		if isExecutableFile(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s (%s/%s): %w", name, runtime.GOOS, runtime.GOARCH, ErrEngineNotFound)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
