package main

import (
	"log"

	"github.com/AnnaCarter465/taxpadi/cmd"
	"github.com/AnnaCarter465/taxpadi/config"
	"github.com/AnnaCarter465/taxpadi/logger"
)

func main() {
	logCfg := logger.DefaultConfig()

	if cfg, err := config.Load(); err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
	} else {
		logCfg = cfg.GetLoggerConfig()
	}

	closeLog, err := logger.Setup(logCfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closeLog()

	cmd.Execute()
}
