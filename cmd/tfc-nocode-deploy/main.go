package main

import (
	"log/slog"
	"os"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/cli"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, slog.LevelInfo)

	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("deployment failed", "error", err)
		os.Exit(1)
	}
}
