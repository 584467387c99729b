package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrofel/sales-agent/config"
	"github.com/agrofel/sales-agent/internal/app"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "AVI - Agrofel sales assistant",
	Long: `AVI answers customers of Agrofel in Brazilian Portuguese. It prices orders such as
"20 unidades de 09 25 15 C/MICRO", recommends products for a crop and forwards everything
else to Gemini with the right catalog context.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			return os.Setenv("CONFIG_FILE", cfgFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(telegramCmd, serveCmd, chatCmd, quoteCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config, initialises logging and wires the app.
func setup(ctx context.Context, offline bool) (*app.App, error) {
	load := config.Load
	if offline {
		load = config.LoadOffline
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watchReload reloads the catalog on SIGHUP until ctx is done.
func watchReload(ctx context.Context, catalog repository.CatalogRepository) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP)
	go func() {
		defer signal.Stop(sig)
		reloadOnSignal(ctx, catalog, sig)
	}()
}

func reloadOnSignal(ctx context.Context, catalog repository.CatalogRepository, sig <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := catalog.Reload(ctx); err != nil {
				logger.Error().Err(err).Msg("SIGHUP: katalog qayta yuklanmadi")
				continue
			}
			logger.Info().Msg("SIGHUP: katalog qayta yuklandi")
		}
	}
}
