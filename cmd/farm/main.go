package main

import (
	"flag"
	"runtime"

	"farm/internal/logger"
	"farm/pkg/config"
	"farm/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	dataPath := flag.String("data", "", "Path to the scene data file (overrides the configuration)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	log := logger.NewLogger("info")
	log.Info("Starting farm viewer...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warnf("%v", err)
	}
	if *dataPath != "" {
		cfg.Scene.DataFile = *dataPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.SetLevel(cfg.Log.Level)
	if cfg.Log.File != "" {
		fileLog, err := logger.NewFileLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Warnf("logging to terminal only: %v", err)
		} else {
			log = fileLog
			defer log.Close()
		}
	}

	viewer, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}

	log.Info("Viewer initialized, starting main loop...")
	viewer.Run()
}
