package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/veytrix/busgo/internal/app"
	"github.com/veytrix/busgo/internal/config"

	_ "github.com/veytrix/busgo/docs"
)

//	@title			Busgo Admin API
//	@version		1.0
//	@description	Bus booking administration backend: seat inventory, booking completion and lookup, fleet management.
//	@BasePath		/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Env == "development" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := app.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}
