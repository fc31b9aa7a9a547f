package main

import (
	"os"

	"github.com/anonto42/pulse/backend/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
