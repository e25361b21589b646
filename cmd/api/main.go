package main

import (
	"os"

	"github.com/oussamab/maktaba/internal/pkg/logger"
	"github.com/oussamab/maktaba/internal/server"
)

// @title Maktaba API
// @version 1.0
// @description Library management backend: catalog, presence log, and QR-driven borrowing

// @contact.name API Support
// @contact.email support@maktaba.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued by the campus auth service

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
