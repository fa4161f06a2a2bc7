package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/postalkit/lettersplit/internal/config"
	"github.com/postalkit/lettersplit/internal/letter"
	"github.com/postalkit/lettersplit/internal/logging"
	"github.com/postalkit/lettersplit/internal/server"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runServeMode runs the HTTP service with signal handling
func runServeMode(cfg *config.Config, svc *letter.Service, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	srv := server.New(cfg, svc, logger)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.Info("Received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			logger.Error("Server shutdown with error", zap.Error(err))
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("Server stopped successfully")
}

// runSplitMode splits the source PDF into individual letters
func runSplitMode(cfg *config.Config, svc *letter.Service, logger *zap.Logger) {
	result, err := svc.SplitFile(letter.SplitFileRequest{
		Path:      cfg.Input,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		logger.Fatal("Split failed", zap.String("input", cfg.Input), zap.Error(err))
	}

	logger.Info("Split complete",
		zap.String("input", cfg.Input),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("letters", len(result.Files)),
		zap.Int("mapped_letters", len(result.Letters)))

	for _, name := range result.Files {
		fmt.Println(name)
	}
}

// runPadMode produces the duplex-padded copy of the source PDF
func runPadMode(cfg *config.Config, svc *letter.Service, logger *zap.Logger) {
	result, err := svc.PadFile(letter.PadFileRequest{
		Path:       cfg.Input,
		OutputPath: cfg.Output,
	})
	if err != nil {
		logger.Fatal("Pad failed", zap.String("input", cfg.Input), zap.Error(err))
	}

	logger.Info("Pad complete",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.Int("letters", result.Summary.Letters),
		zap.Int("padded_letters", result.Summary.PaddedLetters),
		zap.Int("pages", result.Summary.Pages))
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsDebug() {
		logger.Debug("Starting with configuration", zap.String("config", cfg.String()))
	}

	svc := letter.NewService(cfg.MaxFileSize)
	if err := svc.ValidateConfiguration(); err != nil {
		logger.Fatal("Invalid service configuration", zap.Error(err))
	}

	switch cfg.Mode {
	case config.ModeServe:
		runServeMode(cfg, svc, logger)
	case config.ModeSplit:
		runSplitMode(cfg, svc, logger)
	case config.ModePad:
		runPadMode(cfg, svc, logger)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("lettersplit\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
