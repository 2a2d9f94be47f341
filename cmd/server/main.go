package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disaster_response/internal/config"
	"disaster_response/internal/database"
	"disaster_response/internal/events"
	"disaster_response/internal/handlers"
	"disaster_response/internal/loader"
	"disaster_response/internal/logging"
	"disaster_response/internal/metrics"
	"disaster_response/internal/repositories"
	"disaster_response/internal/services"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	var source services.Source
	var mutator services.Mutator
	switch cfg.DataSource {
	case config.SourceNeo4j:
		db, err := database.NewNeo4jDatabase(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return err
		}
		defer db.Close(context.Background())

		if cfg.Neo4jSeedFile != "" {
			if err := db.ExecuteCypherFile(ctx, cfg.Neo4jSeedFile); err != nil {
				logger.Warn("seed_failed", "file", cfg.Neo4jSeedFile, "err", err)
			} else {
				logger.Info("seed_loaded", "file", cfg.Neo4jSeedFile)
			}
		}
		neo := repositories.NewSource(db.Driver)
		source, mutator = neo, neo
	case config.SourceCSV:
		source = loader.DirSource{Dir: cfg.DataDir}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
	}

	publisher, err := events.New(cfg.KafkaBrokers, cfg.KafkaTopic, logger.With("component", "events"))
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()
	svc := services.NewDisasterService(source, services.Options{
		Logger:         logger,
		Metrics:        m,
		Publisher:      publisher,
		Mutator:        mutator,
		CacheTTL:       cfg.CacheTTL,
		ReferenceSpeed: cfg.ReferenceSpeed,
		AvoidAffected:  cfg.AvoidAffected,
		SkipConditions: cfg.SkipConditions,
	})
	if err := svc.Reload(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(svc, m, logger, handlers.RouterConfig{
			RequestTimeout: cfg.RequestTimeout,
			CORSOrigins:    cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "port", cfg.Port, "source", cfg.DataSource)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("could not start server: %w", err)
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server_exiting")
	return nil
}
