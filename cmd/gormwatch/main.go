package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gormwatch/internal/config"
	"gormwatch/internal/observability"
	"gormwatch/internal/shared/version"
)

var (
	configPath  = flag.String("config", "./gormwatch.toml", "Path to config file")
	once        = flag.Bool("once", false, "Run single scan and exit; non-zero exit on findings")
	sarifPath   = flag.String("sarif", "", "Override SARIF output path")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("gormwatch v%s\n", version.Version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./gormwatch.toml" {
			cfg, err = config.Load("./gormwatch.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.ScanPaths = []string{flag.Arg(0)}
	}
	if *sarifPath != "" {
		cfg.Output.SARIF = *sarifPath
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	start := time.Now()
	if err := app.InitialScan(); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	violations := app.RunChecks()
	if err := app.GenerateOutputs(violations); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	duration := time.Since(start)
	app.PrintSummary(len(app.units), violations, duration)
	app.SaveSnapshot(violations, duration)

	if *once {
		if len(violations) > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if cfg.Metrics.Enabled {
		server := observability.NewServer(cfg.Metrics.Addr)
		if err := server.Start(context.Background()); err != nil {
			slog.Error("failed to start metrics server", "error", err)
			os.Exit(1)
		}
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	// Block forever
	select {}
}
