// main.go
package main

import (
	"log"

	"movie-storefront/cmd"
	"movie-storefront/internal/data/repository"
	"movie-storefront/internal/wire"
	"movie-storefront/pkg/kvstore"
	"movie-storefront/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Backend),
		zap.Bool("debug", config.App.Debug),
	)

	// Open the key-value store chosen by STORE_BACKEND
	store, err := kvstore.New(config)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	logger.Info("Store opened successfully", zap.String("backend", config.Store.Backend))

	// Initialize all repositories
	repos := repository.NewRepository(store, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
