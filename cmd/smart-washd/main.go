package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awaistahir/smart-wash/internal/alarm"
	"github.com/awaistahir/smart-wash/internal/config"
	"github.com/awaistahir/smart-wash/internal/dataset"
	"github.com/awaistahir/smart-wash/internal/systemd"
	"github.com/awaistahir/smart-wash/internal/uiapi"
	"github.com/spf13/cobra"
)

func main() {
	var cfgFile string
	var port int

	rootCmd := &cobra.Command{
		Use:          "smart-washd",
		Short:        "SmartWash HTTP server with the laundry dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			return run(cfg)
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.smartwash/config.yaml)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger := config.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, closeFn, err := dataset.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	// Warm the cache so the first page view is fast
	records, err := loader.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Initial dataset load failed, the dashboard will report it")
	} else {
		logger.Info().Int("records", len(records)).Str("source", cfg.Dataset.Source).Msg("Dataset ready")
	}

	affordance, err := alarm.New(cfg.Alarm.Strategy)
	if err != nil {
		return err
	}

	timeout := config.ParseDuration(cfg.Server.Timeout, 30*time.Second)
	srv := uiapi.NewServer(loader, affordance, uiapi.Options{
		Cycle:   cfg.Laundry.CycleDuration(),
		Timeout: timeout,
	}, logger)

	ln, err := systemd.Listener()
	if err != nil {
		return err
	}
	if ln == nil {
		addr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.Port)
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
	} else {
		logger.Info().Msg("Using systemd socket activation")
	}

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("alarm_strategy", affordance.Name()).
			Int("cycle_minutes", cfg.Laundry.CycleMinutes).
			Msg("SmartWash dashboard starting")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd")
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info().Msg("Server stopped")
	return nil
}
