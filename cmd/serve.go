package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the problem API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := e.tutor(ctx)
		if err != nil {
			return err
		}

		srv := server.New(svc, server.Options{
			Logger:         e.log,
			CORSOrigin:     e.cfg.Server.CORSOrigin,
			RequestTimeout: e.cfg.LLM.Timeout,
			HealthCheck:    e.healthCheck,
		})

		errCh := make(chan error, 1)
		go func() {
			e.log.Info("server starting",
				zap.String("addr", e.cfg.Server.Addr),
				zap.String("provider", e.cfg.LLM.Provider),
				zap.String("store", e.store.Dialect()),
				zap.Bool("cache", e.cache != nil))
			errCh <- srv.Start(e.cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server: %w", err)
		case <-ctx.Done():
		}

		e.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PRIMEMATH_SERVER_ADDR)")
}
