package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fairselect/adapters/postgres"
	"fairselect/app"
	"fairselect/internal"
	"fairselect/internal/config"
	"fairselect/ports"
	"fairselect/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	var repo ports.AuditRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		repo = postgres.NewAuditRepository(db)
		logger.Info("audit persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set, audit runs will not be persisted")
	}

	svc := app.NewAuditService(repo, logger, cfg.Audit.MaxParallelCurves)
	server := ui.NewServer(svc, repo, logger)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
