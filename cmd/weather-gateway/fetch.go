package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-gateway/internal/render"
	"github.com/i474232898/weather-gateway/internal/weather"
)

func newFetchCommand() *cobra.Command {
	var (
		provider string
		date     string
		location string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch weather once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, service, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			log.Debug().Str("request_id", uuid.NewString()).Str("provider", provider).Msg("cli fetch")
			w, err := service.Get(ctx, provider, date, location)
			if err != nil {
				return err
			}

			out, _, err := render.Render(w, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "aerisWeather", "provider name")
	cmd.Flags().StringVar(&date, "date", weather.CurrentDate, "yyyy-MM-dd or current")
	cmd.Flags().StringVar(&location, "location", "london,uk", "place, e.g. london,uk")
	cmd.Flags().StringVar(&format, "format", render.FormatJSON, "json, xml or yaml")
	return cmd
}
