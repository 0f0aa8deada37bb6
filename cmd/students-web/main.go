// main is the entry point of the student records web application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env / environment overrides)
//  2. Initialise the logger
//  3. Open the configured Record Store (creates the students table)
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-web --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-web
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

	"github.com/aanand-mishra/students-web/internal/config"
	"github.com/aanand-mishra/students-web/internal/http/router"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/storage/gormstore"
	"github.com/aanand-mishra/students-web/internal/storage/memory"
	"github.com/aanand-mishra/students-web/internal/storage/sqlite"
	"github.com/aanand-mishra/students-web/internal/view"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-web",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	store, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.StorageDriver),
		slog.String("path", cfg.StoragePath))

	renderer, err := view.New()
	if err != nil {
		log.Error("failed to load templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !cfg.DeleteRequiresPost {
		log.Warn("GET /delete/student/{id} deletes records; set http_server.delete_requires_post to require POST")
	}

	handler := router.New(store, renderer, router.Options{
		AllowGetDelete: !cfg.DeleteRequiresPost,
		StrictUpdate:   !cfg.Forms.LenientUpdate,
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ListenAndServe blocks, so it runs in its own goroutine and main waits
	// for a signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the Record Store named by cfg.StorageDriver.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverGORM:
		s, err := gormstore.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
