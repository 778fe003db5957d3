package main

// Event name constants for Wails runtime events
const (
	EventEngineReady = "engine-ready" // API port accepting connections
	EventEngineLine  = "engine-line"  // one diagnostic line from the engine
	EventEngineExit  = "engine-exit"  // engine stopped on its own
	EventEngineError = "engine-error" // engine could not be started
)

// engineLinePayload is what EventEngineLine carries to the frontend.
type engineLinePayload struct {
	Stream string `json:"stream"` // "stdout" or "stderr"
	Line   string `json:"line"`
}

// engineExitPayload is what EventEngineExit carries to the frontend.
type engineExitPayload struct {
	PID      int    `json:"pid"`
	ExitCode int    `json:"exitCode"`
	Error    string `json:"error,omitempty"`
}
