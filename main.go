package main

import (
	"embed"
	"flag"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

// AppVersion is the shell version, set at release time.
const AppVersion = "1.2.0"

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	var logLevel string
	var enginePath string
	var noEngine bool
	var showVersion bool

	flag.StringVar(&logLevel, "loglevel", "", "log level: error, info or debug (overrides config)")
	flag.StringVar(&enginePath, "engine", "", "path to a ck3-engine binary (overrides the bundled one)")
	flag.BoolVar(&noEngine, "no-engine", false, "do not spawn the backend engine (development)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("CK3Gen Studio v%s\n", AppVersion)
		return
	}

	cleanup := ensureSingleInstance(0)
	defer cleanup()

	cfg := LoadConfig()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if enginePath != "" {
		cfg.EnginePath = enginePath
	}

	logFile, err := InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
	} else {
		defer logFile.Close()
	}
	Log.Info("CK3Gen Studio starting", "version", AppVersion, "logLevel", cfg.LogLevel)

	app := NewDesktopApp(cfg, noEngine)

	err = wails.Run(&options.App{
		Title:  "CK3Gen Studio",
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  app.startup,
		OnDomReady: app.onDomReady,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		Log.Error("wails run failed", "error", err)
		fmt.Printf("failed to start CK3Gen Studio: %v\n", err)
	}
}
