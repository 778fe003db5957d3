package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	launch := false
	cfg := &AppConfig{
		LogLevel:     "debug",
		WindowWidth:  1280,
		WindowHeight: 800,
		EnginePort:   8123,
		EnginePath:   "/opt/dev/ck3-engine",
		LaunchEngine: &launch,
	}
	if err := saveConfigFile(path, cfg); err != nil {
		t.Fatalf("saveConfigFile: %v", err)
	}

	got := loadConfigFile(path)
	if got.LogLevel != "debug" || got.WindowWidth != 1280 || got.WindowHeight != 800 {
		t.Errorf("loaded %+v, want saved values back", got)
	}
	if got.EnginePort != 8123 || got.EnginePath != "/opt/dev/ck3-engine" {
		t.Errorf("engine settings lost: %+v", got)
	}
	if got.IsLaunchEngine() {
		t.Error("IsLaunchEngine() = true, want false")
	}
}

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	got := loadConfigFile(filepath.Join(t.TempDir(), "nope.json"))
	want := DefaultConfig()
	if got.WindowWidth != want.WindowWidth || got.EnginePort != want.EnginePort {
		t.Errorf("got %+v, want defaults %+v", got, want)
	}
	if !got.IsLaunchEngine() {
		t.Error("IsLaunchEngine() = false by default, want true")
	}
}

func TestLoadConfigRepairsBrokenValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"logLevel":"info","windowWidth":-5,"windowHeight":0,"enginePort":99999}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got := loadConfigFile(path)
	if got.WindowWidth <= 0 || got.WindowHeight <= 0 {
		t.Errorf("window size not repaired: %dx%d", got.WindowWidth, got.WindowHeight)
	}
	if got.EnginePort != 8000 {
		t.Errorf("EnginePort = %d, want repaired 8000", got.EnginePort)
	}
	if got.LogLevel != "info" {
		t.Errorf("LogLevel = %q, valid value should survive", got.LogLevel)
	}
}

func TestLoadConfigCorruptFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	got := loadConfigFile(path)
	want := DefaultConfig()
	if got.WindowWidth != want.WindowWidth || got.LogLevel != want.LogLevel {
		t.Errorf("got %+v, want defaults %+v", got, want)
	}
}
