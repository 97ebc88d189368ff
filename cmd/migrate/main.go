// Command migrate creates or updates the database schema for the
// configured database and exits.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/config"
	"github.com/recipeswipers/recipeswipe/internal/database"
	"github.com/recipeswipers/recipeswipe/internal/logging"
)

func main() {
	dsn := flag.String("dsn", "", "connection string, overriding the configured database")
	driver := flag.String("driver", "", "database driver (sqlite or postgres), used with -dsn")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.Must(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "recipeswipe-migrate"})
	defer func() { _ = logger.Sync() }()

	if *driver == "" {
		*driver = cfg.DBDriver
	}
	if *dsn == "" {
		*dsn = cfg.DatabaseDSN()
	}

	// OpenDSN migrates as part of opening.
	db, err := database.OpenDSN(*driver, *dsn, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.String("driver", *driver), zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
	logger.Info("schema is up to date", zap.String("driver", *driver))
}
