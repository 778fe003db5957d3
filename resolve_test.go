package main

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFakeBinary(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestResolveEngineInPrefersPlatformBinary(t *testing.T) {
	dir := t.TempDir()
	platform := filepath.Join(dir, "bin", engineBinaryName+"-"+runtime.GOOS+"-"+runtime.GOARCH+exeSuffix)
	sibling := filepath.Join(dir, engineBinaryName+exeSuffix)
	writeFakeBinary(t, platform)
	writeFakeBinary(t, sibling)

	got, err := resolveEngineIn(dir, engineBinaryName)
	if err != nil {
		t.Fatalf("resolveEngineIn: %v", err)
	}
	if got != platform {
		t.Errorf("resolved %q, want platform binary %q", got, platform)
	}
}

func TestResolveEngineInFallsBackToSibling(t *testing.T) {
	dir := t.TempDir()
	sibling := filepath.Join(dir, engineBinaryName+exeSuffix)
	writeFakeBinary(t, sibling)

	got, err := resolveEngineIn(dir, engineBinaryName)
	if err != nil {
		t.Fatalf("resolveEngineIn: %v", err)
	}
	if got != sibling {
		t.Errorf("resolved %q, want %q", got, sibling)
	}
}

func TestResolveEngineInNotFound(t *testing.T) {
	_, err := resolveEngineIn(t.TempDir(), engineBinaryName)
	if !errors.Is(err, ErrEngineNotFound) {
		t.Fatalf("err = %v, want ErrEngineNotFound", err)
	}
}

func TestResolveEnginePathOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "dev-engine"+exeSuffix)
	writeFakeBinary(t, override)

	got, err := resolveEnginePath(engineBinaryName, override)
	if err != nil {
		t.Fatalf("resolveEnginePath: %v", err)
	}
	if got != override {
		t.Errorf("resolved %q, want override %q", got, override)
	}
}

func TestResolveEnginePathOverrideMissing(t *testing.T) {
	_, err := resolveEnginePath(engineBinaryName, filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, ErrEngineNotFound) {
		t.Fatalf("err = %v, want ErrEngineNotFound", err)
	}
}

func TestResolveEngineInIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	// A directory with the binary's name must not resolve
	if err := os.MkdirAll(filepath.Join(dir, engineBinaryName+exeSuffix), 0755); err != nil {
		t.Fatal(err)
	}
	_, err := resolveEngineIn(dir, engineBinaryName)
	if !errors.Is(err, ErrEngineNotFound) {
		t.Fatalf("err = %v, want ErrEngineNotFound", err)
	}
}
