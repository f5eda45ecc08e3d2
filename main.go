package main

import (
	"flag"
	"log"

	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/app"
	"github.com/apichafoko/ExamenCarrera2025-sub000/internal/config"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/configwatcher"
	"github.com/apichafoko/ExamenCarrera2025-sub000/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if cfg.MigrateOnly {
		log.Println("Migrations applied, exiting")
		return
	}

	// Hot-reload config edits. New values apply to handlers that read the
	// shared config; connections opened at startup keep their settings.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		newCfg.MigrateOnly = cfg.MigrateOnly
		*cfg = *newCfg
		logger.Log.Info("Configuration reloaded")
	})

	if err := application.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
