package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-gateway/internal/config"
	"github.com/i474232898/weather-gateway/internal/metrics"
	"github.com/i474232898/weather-gateway/internal/weather"
	"github.com/i474232898/weather-gateway/internal/weather/providers"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "weather-gateway",
		Short: "Fetch weather from Aeris, VisualCrossing or WeatherAPI in one canonical shape",
		// Running without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCommand(), newFetchCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and builds the dispatcher.
func setup() (*config.AppConfig, *weather.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	configureLogging(cfg)

	// One HTTP configuration value shared by every provider.
	httpCfg := cfg.HTTPClient()
	provs := providers.All(httpCfg, cfg.Endpoints())
	if cfg.RapidAPIKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is not set; providers will reject requests")
	}

	service := weather.NewService(provs, weather.WithErrorHook(metrics.RecordDispatchError))
	return cfg, service, nil
}

func configureLogging(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
