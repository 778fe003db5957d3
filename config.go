package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// AppConfig holds all persistent user settings.
type AppConfig struct {
	LogLevel     string `json:"logLevel"`
	WindowWidth  int    `json:"windowWidth"`
	WindowHeight int    `json:"windowHeight"`
	EnginePort   int    `json:"enginePort"`
	EnginePath   string `json:"enginePath"`   // dev override; empty = bundled binary
	LaunchEngine *bool  `json:"launchEngine"` // nil = true (default on)
}

// IsLaunchEngine returns whether the shell should spawn the engine at startup
// (default true). Development runs the backend by hand and sets this to false.
func (c *AppConfig) IsLaunchEngine() bool {
	return c.LaunchEngine == nil || *c.LaunchEngine
}

var (
	appDataDir     string
	appDataDirOnce sync.Once
)

// DefaultConfig returns config with default values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		LogLevel:     "error",
		WindowWidth:  1100,
		WindowHeight: 760,
		EnginePort:   8000,
	}
}

// AppDataDir returns the path to ~/.ck3studio/, creating it if needed.
func AppDataDir() string {
	appDataDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			// Fallback to exe directory
			if exe, err2 := os.Executable(); err2 == nil {
				appDataDir = filepath.Dir(exe)
			} else {
				appDataDir = "."
			}
			return
		}
		appDataDir = filepath.Join(home, ".ck3studio")
		os.MkdirAll(appDataDir, 0755)
	})
	return appDataDir
}

// DataPath returns the full path for a file inside the data directory.
func DataPath(elem ...string) string {
	parts := append([]string{AppDataDir()}, elem...)
	return filepath.Join(parts...)
}

// configPath returns the config file path.
func configPath() string {
	return DataPath("config.json")
}

// LoadConfig reads config from ~/.ck3studio/config.json.
// Returns default config if the file doesn't exist.
func LoadConfig() *AppConfig {
	return loadConfigFile(configPath())
}

func loadConfigFile(path string) *AppConfig {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		Log.Error("config file unreadable, using defaults", "path", path, "error", err)
		return DefaultConfig()
	}

	// Re-validate values a hand-edited file may have broken
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 1100
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 760
	}
	if cfg.EnginePort <= 0 || cfg.EnginePort > 65535 {
		cfg.EnginePort = 8000
	}

	return cfg
}

// SaveConfig writes the config to ~/.ck3studio/config.json.
func SaveConfig(cfg *AppConfig) error {
	os.MkdirAll(AppDataDir(), 0755)
	return saveConfigFile(configPath(), cfg)
}

func saveConfigFile(path string, cfg *AppConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
