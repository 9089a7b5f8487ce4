package main

import (
	"context"
	"fmt"
	"os"

	"github.com/corelink-tools/symsync/internal/adapter"
	"github.com/corelink-tools/symsync/internal/client"
	"github.com/corelink-tools/symsync/internal/config"
	"github.com/corelink-tools/symsync/internal/license"
	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/service"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetSyncConfig()
	if err != nil {
		log := logger.NewLogger("symsync", false)
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("symsync", cfg.Sync.Debug)

	validator := license.New(license.Config{
		StagePrefix: cfg.License.StagePrefix,
		Sandbox:     cfg.License.Sandbox,
		Timeout:     cfg.License.Timeout,
	}, log)

	dispatcher := adapter.NewDispatcher(log)
	orchestrator := service.NewSyncOrchestrator(validator, dispatcher, log)

	app := client.NewApp(orchestrator, cfg, log)
	if err = app.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
