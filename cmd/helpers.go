package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/linerelay/internal/bots"
	"github.com/ziadkadry99/linerelay/internal/config"
	"github.com/ziadkadry99/linerelay/internal/llm"
	"github.com/ziadkadry99/linerelay/internal/logging"
)

// createLLMProviderFromConfig creates a completion provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config, apiKey string) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), apiKey, cfg.Model, cfg.BaseURL)
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `linerelay init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level, string(cfg.LogFormat), os.Stderr)
}

// newLineHandler wires the callback pipeline: gateway, reply pipeline and
// LINE sender.
func newLineHandler(cfg *config.Config, secrets *config.Secrets, provider llm.Provider, logger logrus.FieldLogger) *bots.LineHandler {
	sender := bots.NewLineSender(secrets.ChannelAccessToken, cfg.LineAPIEndpoint)
	pipeline := bots.NewPipeline(provider, sender, bots.PipelineConfig{
		Model:              cfg.Model,
		MaxTokens:          cfg.MaxTokens,
		Temperature:        cfg.Temperature,
		UnavailableMessage: cfg.UnavailableMessage,
		ErrorMessage:       cfg.ErrorMessage,
		ReplyTimeout:       seconds(cfg.ReplyTimeoutSeconds),
	}, logger)
	gateway := bots.NewGateway(secrets.ChannelSecret, pipeline, logger)
	return bots.NewLineHandler(gateway, cfg.MaxBodyBytes)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
