package main

import (
	"path/filepath"
	"testing"
)

func openTestHistory(t *testing.T) *RunHistory {
	t.Helper()
	h, err := OpenRunHistory(filepath.Join(t.TempDir(), "engine_runs.db"))
	if err != nil {
		t.Fatalf("OpenRunHistory: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestRunHistoryRecordAndQuery(t *testing.T) {
	h := openTestHistory(t)

	id, err := h.RecordStart(4242, "/opt/ck3studio/bin/ck3-engine")
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}

	runs, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != id || run.PID != 4242 {
		t.Errorf("run = %+v, want id=%d pid=4242", run, id)
	}
	if run.EndedAt != nil || run.ExitCode != nil {
		t.Errorf("open run already has end data: %+v", run)
	}

	code := 3
	if err := h.RecordExit(id, &code, "crashed"); err != nil {
		t.Fatalf("RecordExit: %v", err)
	}

	runs, err = h.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	run = runs[0]
	if run.EndedAt == nil {
		t.Error("EndedAt still nil after RecordExit")
	}
	if run.ExitCode == nil || *run.ExitCode != 3 {
		t.Errorf("ExitCode = %v, want 3", run.ExitCode)
	}
	if run.Reason != "crashed" {
		t.Errorf("Reason = %q, want %q", run.Reason, "crashed")
	}
}

func TestRunHistoryKilledRunHasNoExitCode(t *testing.T) {
	h := openTestHistory(t)

	id, err := h.RecordStart(7, "/tmp/ck3-engine")
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}
	if err := h.RecordExit(id, nil, "window closed"); err != nil {
		t.Fatalf("RecordExit: %v", err)
	}

	runs, err := h.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if runs[0].ExitCode != nil {
		t.Errorf("ExitCode = %v for a killed run, want nil", runs[0].ExitCode)
	}
	if runs[0].Reason != "window closed" {
		t.Errorf("Reason = %q, want %q", runs[0].Reason, "window closed")
	}
}

func TestRunHistoryRecentOrderAndLimit(t *testing.T) {
	h := openTestHistory(t)

	var last int64
	for i := 0; i < 5; i++ {
		id, err := h.RecordStart(100+i, "/tmp/ck3-engine")
		if err != nil {
			t.Fatalf("RecordStart: %v", err)
		}
		last = id
	}

	runs, err := h.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != last {
		t.Errorf("Recent[0].ID = %d, want newest %d", runs[0].ID, last)
	}
}
