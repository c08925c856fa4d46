// # cmd/terradep/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"terradep/internal/app"
	"terradep/internal/config"
	"terradep/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./terradep.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit (default unless --watch or --ui)")
	watch      = flag.Bool("watch", false, "Watch for file changes and re-analyze")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies --watch)")
	impact     = flag.String("impact", "", "Print the impact set of one module and exit")
	jsonOut    = flag.String("json", "", "Write the JSON report to this path (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("terradep v%s\n", VERSION)
		os.Exit(0)
	}

	setupLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		cfg.ScanPaths = flag.Args()
	}
	if *jsonOut != "" {
		cfg.Output.JSON = *jsonOut
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTracing(ctx, cfg.Telemetry.OTLPEndpoint, VERSION)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer shutdown(context.Background())
		}

		srv := observability.NewServer(cfg.Telemetry.MetricsAddr, nil)
		if err := srv.Start(ctx); err != nil {
			slog.Warn("observability server disabled", "error", err)
		} else {
			defer srv.Stop(context.Background())
		}
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	rep, err := application.Run(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if cfg.Output.JSON != "" {
		if err := rep.WriteFile(cfg.Output.JSON); err != nil {
			slog.Error("failed to write report", "error", err)
			os.Exit(1)
		}
		slog.Info("report written", "path", cfg.Output.JSON)
	}

	if *impact != "" {
		application.PrintImpact(rep, *impact)
		os.Exit(0)
	}

	if !*ui {
		application.PrintSummary(rep, 0)
	}

	if *once || (!*watch && !*ui) {
		os.Exit(0)
	}

	if err := application.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := runUI(application); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		return
	}

	<-ctx.Done()
}

// setupLogging routes slog to stdout, or to a state file in UI mode so log
// lines never corrupt the TUI.
func setupLogging() {
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "terradep", "terradep.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "terradep", "terradep.log")
	}

	return "terradep.log"
}
