package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/slidecast/internal/anthropic"
	"github.com/nguyentantai21042004/slidecast/internal/api"
	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/generate"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/observability"
	"github.com/nguyentantai21042004/slidecast/internal/processor"
	"github.com/nguyentantai21042004/slidecast/internal/transcribe"
	"github.com/nguyentantai21042004/slidecast/internal/watcher"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Slidecast server")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, %d cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Strategy: %s, transcription: %s, storage: %s",
		cfg.Generation.Strategy, cfg.Transcription.Provider, cfg.Storage.Backend)

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Error(ctx, "Failed to initialise tracing: %v", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	artifacts, err := artifact.New(ctx, cfg.Storage, cfg.Paths.Output)
	if err != nil {
		log.Error(ctx, "Failed to open artifact store: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	backend := newTranscriber(cfg, log)
	transcriber := transcribe.NewAdapter(backend, cfg.Transcription.FallbackText, log)
	generator := newGenerator(cfg, log)

	store := jobs.NewMemoryStore()
	proc := processor.New(cfg, store, transcriber, generator, artifacts, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)

	if cfg.Paths.Inbox != "" {
		w, err := watcher.New(cfg.Paths.Inbox, proc.Ingest, log, cfg.Performance.MaxConcurrent)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
	}

	handler := api.New(cfg, proc, store, artifacts, log)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	log.Info(ctx, "Uploads: %s, output: %s", cfg.Paths.Uploads, cfg.Paths.Output)
	if cfg.Paths.Inbox != "" {
		log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	}
	log.Info(ctx, "Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Server shutdown error: %v", err)
	}

	log.Info(ctx, "Waiting for running jobs to finish...")
	proc.Wait()
	log.Info(ctx, "Slidecast stopped")
}

func newTranscriber(cfg *config.Config, log logger.Logger) transcribe.Backend {
	if cfg.Transcription.Provider == config.TranscriberWhisperCPP {
		return transcribe.NewWhisperCPP(cfg.Transcription.Whisper, executor.New(), log)
	}
	return transcribe.NewOpenAI(cfg.Transcription.OpenAI, cfg.Performance.ProviderTimeout)
}

func newGenerator(cfg *config.Config, log logger.Logger) generate.Generator {
	if cfg.Generation.Strategy == config.StrategySlides {
		model := generate.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, cfg.Performance.ProviderTimeout, log)
		return generate.NewSlides(model, cfg.Generation.SlideCount, log)
	}

	client := anthropic.New(anthropic.Options{
		BaseURL: cfg.Anthropic.BaseURL,
		APIKey:  cfg.Anthropic.APIKey,
		Timeout: cfg.Performance.ProviderTimeout,
	})
	return generate.NewDeck(client, cfg.Anthropic, cfg.Generation, log)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Uploads}
	if cfg.Storage.Backend == config.StorageLocal {
		dirs = append(dirs, cfg.Paths.Output)
	}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
