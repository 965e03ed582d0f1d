package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/charitymap/charitymap/internal/config"
	"github.com/charitymap/charitymap/internal/logger"
	"github.com/charitymap/charitymap/internal/router"
	"github.com/charitymap/charitymap/internal/setup"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/public.yaml", "path to public config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	if cfg.IsDevSecret() {
		logger.Log.Warn("running with the insecure development signing key; set JWT_SECRET before deploying")
	}

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	if cfg.Private.DevMode {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := deps.Storage.ApplySchema(ctx); err != nil {
			cancel()
			logger.Log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		cancel()
	}

	if err := setup.SeedAdmin(cfg, deps.Storage); err != nil {
		logger.Log.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Public.Port,
		Handler:      router.New(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logger.Log.Info("server started", "port", cfg.Public.Port)
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
