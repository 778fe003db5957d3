package main

import (
	"fmt"
	"net"
	"time"
)

// waitForEngineReady polls the engine's API port until it accepts a TCP
// connection. The engine is an HTTP server; accepting the dial is enough,
// the shell never speaks its protocol. Returns early when done closes
// (engine exited before it ever bound the port).
func waitForEngineReady(port int, timeout time.Duration, done <-chan struct{}) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}

		select {
		case <-done:
			return fmt.Errorf("engine exited before listening on %s", addr)
		case <-time.After(200 * time.Millisecond):
		}
	}

	return fmt.Errorf("engine not reachable on %s within %v", addr, timeout)
}
