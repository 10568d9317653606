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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/linerelay/internal/bots"
	"github.com/ziadkadry99/linerelay/internal/config"
	"github.com/ziadkadry99/linerelay/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LINE webhook relay",
	Long: `Starts the HTTP server that accepts LINE webhook callbacks on POST /callback.

Requires LINE_CHANNEL_ACCESS_TOKEN, LINE_CHANNEL_SECRET and the API key of
the configured completion provider in the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}

		secrets, err := config.LoadSecrets(cfg.Provider)
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg, secrets.CompletionAPIKey)
		if err != nil {
			return fmt.Errorf("creating completion provider: %w", err)
		}

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: seconds(cfg.RequestTimeoutSeconds),
		}, logger)
		bots.RegisterRoutes(srv.Router(), newLineHandler(cfg, secrets, provider, logger))

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("shutdown failed")
			}
		}()

		logger.WithFields(logrus.Fields{
			"version":  Version,
			"port":     cfg.Port,
			"provider": provider.Name(),
			"model":    cfg.Model,
		}).Info("linerelay starting")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on (overrides config and environment)")
	rootCmd.AddCommand(serveCmd)
}
