package main

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestWaitForEngineReadySucceeds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	if err := waitForEngineReady(port, 5*time.Second, nil); err != nil {
		t.Fatalf("waitForEngineReady: %v", err)
	}
}

func TestWaitForEngineReadyTimesOut(t *testing.T) {
	// Grab a port and close it so nothing listens there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	err = waitForEngineReady(port, time.Second, nil)
	if err == nil {
		t.Fatal("expected timeout error for closed port")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("err = %v, want a not-reachable message", err)
	}
}

func TestWaitForEngineReadyStopsWhenEngineDies(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	done := make(chan struct{})
	close(done)

	start := time.Now()
	err = waitForEngineReady(port, 30*time.Second, done)
	if err == nil {
		t.Fatal("expected error when engine is already gone")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("probe kept polling for %v after engine death", elapsed)
	}
}
