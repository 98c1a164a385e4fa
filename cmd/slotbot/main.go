package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/EgorLis/slotbot/internal/catalog"
	"github.com/EgorLis/slotbot/internal/config"
	"github.com/EgorLis/slotbot/internal/logging"
)

var CLI struct {
	Version kong.VersionFlag
	Env     string `help:"Optional .env file; variables already set in the environment win." type:"path" default:".env"`

	Serve   ServeCmd   `cmd:"" help:"Run the Discord bot." default:"1"`
	Render  RenderCmd  `cmd:"" help:"Print the reservation sheet from the configured store."`
	Catalog CatalogCmd `cmd:"" help:"Validate the slot catalog and list its match keys."`
}

// App is what every command receives.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Catalog *catalog.Catalog
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("slotbot"),
		kong.Description("Discord bot for claiming game slots on a shared reservation sheet"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(logging.Config{
		Component: "slotbot",
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: LOG_LEVEL: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("load catalog", zap.String("path", cfg.CatalogFile), zap.Error(err))
	}

	if err := ctx.Run(&App{Config: cfg, Log: logger, Catalog: cat}); err != nil {
		logger.Error("command failed", zap.String("command", ctx.Command()), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
