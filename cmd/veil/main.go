// cmd/veil/main.go
package main

import (
	"fmt"
	"io"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/veil/internal/app"
	"github.com/bethropolis/veil/internal/config"
	"github.com/bethropolis/veil/internal/logger"
)

var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args := flags.ParseFlags()
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	filePath := ""
	if len(args) > 0 {
		filePath = args[0]
	}

	cfg, err := config.LoadConfig(*flags.ConfigFilePath, &flags)
	if err != nil {
		stlog.Printf("Warning: %v (using defaults)", err)
	}

	// --- Logger Initialization ---
	// The terminal belongs to the UI, so stderr logging is discarded
	// unless a file is configured.
	var logOutput io.Writer = io.Discard
	if path := cfg.Logger.LogFilePath; path != "" && path != "-" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", path, err)
		}
		defer logFile.Close()
		logOutput = logFile
	}
	logger.Init(cfg.Logger, logOutput)
	logger.SetDebugFilter(*flags.DebugLog)
	for _, w := range config.Warnings() {
		logger.Warnf("%s", w)
	}

	logger.Infof("Starting %s...", config.AppName)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	// --- Create and Run App ---
	veilApp, err := app.NewApp(cfg, filePath, app.Options{})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if err := veilApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}
