package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/usherd/usherd/internal/domain/seat"
	"github.com/usherd/usherd/internal/infrastructure/config"
	"github.com/usherd/usherd/internal/infrastructure/logging"
	"github.com/usherd/usherd/internal/infrastructure/monitoring"
	"github.com/usherd/usherd/internal/server"
)

func main() {
	// Parse flags
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	runtimeDir := flag.String("runtime-dir", "", "Runtime state directory (overrides env)")
	noDebug := flag.Bool("no-debug", false, "Disable the debug HTTP server")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if *runtimeDir != "" {
		cfg.Seats.RuntimeDir = *runtimeDir
	}
	if *noDebug {
		cfg.Debug.Enabled = false
	}

	// Initialize logger
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("Invalid log level, using defaults", zap.String("level", cfg.Logging.Level))
	}
	defer logger.Sync()

	logger.Info("Starting usherd",
		zap.String("runtime_dir", cfg.Seats.RuntimeDir),
		zap.String("console_seat", cfg.Seats.ConsoleSeat),
		zap.Int("auto_vts", cfg.Seats.AutoVTs),
	)

	metrics := monitoring.NewMetrics()

	seats := seat.NewManager(cfg.Seats.RuntimeDir, cfg.Seats.ConsoleSeat, cfg.Seats.AutoVTs).
		WithAllocator(seat.NewTTYAllocator(cfg.Console.TTYPathFormat)).
		WithLogger(logger).
		WithMetrics(metrics)

	// The kernel exposes the active VT as a small seekable file. Keep it
	// open for the lifetime of the daemon; each poll rewinds and re-reads.
	consoleState, err := os.Open(cfg.Console.ActivePath)
	if err != nil {
		logger.Warn("Console state unavailable, VT tracking disabled",
			zap.String("path", cfg.Console.ActivePath),
			zap.Error(err),
		)
	} else {
		defer consoleState.Close()
		seats.WithConsoleSource(consoleState)
	}

	console, err := seats.GetOrCreate(cfg.Seats.ConsoleSeat)
	if err != nil {
		logger.Fatal("Failed to create console seat", zap.Error(err))
	}
	if err := console.Start(); err != nil {
		logger.Fatal("Failed to start console seat", zap.Error(err))
	}

	// Start debug server in goroutine
	errChan := make(chan error, 1)
	var srv *server.Server
	if cfg.Debug.Enabled {
		srv = server.NewServer(cfg, seats, logger, metrics)
		go func() {
			if err := srv.Run(); err != nil {
				errChan <- err
			}
		}()
	}

	pollTicker := time.NewTicker(cfg.Console.PollInterval)
	defer pollTicker.Stop()
	gcTicker := time.NewTicker(cfg.Seats.GCInterval)
	defer gcTicker.Stop()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-pollTicker.C:
			// Poll errors are already logged; the notification is dropped.
			_ = console.ReadActiveVT()
		case <-gcTicker.C:
			seats.SweepGC()
		case sig := <-sigChan:
			logger.Info("Shutting down", zap.String("signal", sig.String()))
			if srv != nil {
				if err := srv.Close(); err != nil {
					logger.Error("Error during shutdown", zap.Error(err))
				}
			}
			return
		case err := <-errChan:
			logger.Fatal("Debug server error", zap.Error(err))
		}
	}
}
