package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/fractal_explorer/config"
	"github.com/marben/fractal_explorer/render"
)

// main is the entry point of the explorer server.
// Every websocket client gets its own view and render loop; frames are
// rendered here and streamed to the browser.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	var (
		configPath string
		addr       string
		staticDir  string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the fractal explorer over http and websocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("static") {
				cfg.StaticDir = staticDir
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "explorer.toml", "TOML config file; a missing file means defaults")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory with index.html and main.wasm (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd.ExecuteContext(ctx)
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cfg.RegisterPalettes(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// one kernel build shared by all sessions
	kernel, err := render.DefaultKernel()
	if err != nil {
		return err
	}
	defer kernel.Release()
	logger.Info("kernel built", "spirv_words", len(kernel.SPIRV))

	srv := newExplorer(cfg, kernel, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "static", cfg.StaticDir)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
