package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheuskafuri/newsanchor/internal/config"
	"github.com/matheuskafuri/newsanchor/internal/conversation"
	"github.com/matheuskafuri/newsanchor/internal/logging"
	"github.com/matheuskafuri/newsanchor/internal/prompt"
	"github.com/matheuskafuri/newsanchor/internal/server"
	"github.com/matheuskafuri/newsanchor/internal/settings"
	"github.com/matheuskafuri/newsanchor/internal/watch"
	"github.com/spf13/cobra"
)

var (
	flagAddr    string
	flagNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control surface",
	Long: `Serve the HTTP control surface. Config changes posted to /api/config, or saved
to the runtime section of the config file, reach live conversations at once.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "do not reload the config file on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := conversation.NewRegistry()
	syncer := conversation.NewSynchronizer(a.settings, prompt.NewSynthesizer(a.engine))

	srv := server.New(server.Options{
		Engine:       a.engine,
		Settings:     a.settings,
		Syncer:       syncer,
		Registry:     registry,
		AllowOrigins: a.cfg.Server.AllowOrigins,
		Logger:       logging.Logger,
	})

	if !flagNoWatch {
		path := flagConfig
		if path == "" {
			path = config.DefaultConfigPath()
		}
		w, err := watch.New(path, a.settings, syncer, registry)
		if err != nil {
			return err
		}
		w.OnChange(func(applied settings.Applied) {
			if applied.CategoryChanged {
				srv.Warm()
			}
		})
		if err := w.Start(ctx); err != nil {
			slog.Warn("config watcher disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	srv.Warm()

	addr := a.cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
