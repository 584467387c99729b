package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agrofel/sales-agent/internal/delivery/httpapi"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := setup(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		watchReload(ctx, a.Catalog)

		addr := a.Config.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(a.Chat, a.Catalog, httpapi.DefaultRequestTimeout),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", addr).Msg("HTTP server listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		logger.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}
