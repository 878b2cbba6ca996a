package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/cli"
	"github.com/yourusername/leadership-api/internal/logger"
)

func main() {
	logger.Init(os.Getenv("GIN_MODE"))
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
