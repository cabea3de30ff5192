package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/atlasbruce/bramble"
	fileAdapter "github.com/atlasbruce/bramble/internal/adapters/file"
	httpAdapter "github.com/atlasbruce/bramble/internal/adapters/http"
	redisAdapter "github.com/atlasbruce/bramble/internal/adapters/redis"
	"github.com/atlasbruce/bramble/internal/config"
	"github.com/atlasbruce/bramble/internal/logging"
	"github.com/atlasbruce/bramble/internal/metrics"
	"github.com/atlasbruce/bramble/pkg/adapters/memory"
	"github.com/atlasbruce/bramble/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP server",
	Long:  `Starts an editing session and exposes it as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		logger := newLogger(cmd)

		store, cleanup, err := buildStore(cfg.Store)
		if err != nil {
			fmt.Printf("Error initializing store: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		registry := prometheus.NewRegistry()
		m := metrics.New(registry)

		editor := bramble.New(
			bramble.WithStore(store),
			bramble.WithLogger(logger),
			bramble.WithHistoryLimit(cfg.HistoryLimit),
			bramble.WithHooks(m.Hooks()),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/", httpAdapter.NewHandler(editor, logger))

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("server close failed", "err", err)
				}
			}
			logger.Info("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	switch raw, _ := cmd.Flags().GetString("log-level"); raw {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.New(level)
}

func buildStore(cfg config.StoreConfig) (ports.GraphStore, func(), error) {
	switch cfg.Backend {
	case "file":
		return fileAdapter.New(cfg.Path), func() {}, nil
	case "redis":
		var opts []redisAdapter.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisAdapter.WithPrefix(cfg.Redis.Prefix))
		}
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, func() { _ = store.Close() }, nil
	case "memory":
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
