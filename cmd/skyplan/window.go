package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/format"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
	"github.com/sky/skyplan/internal/window"
)

func windowCmd() *cobra.Command {
	var (
		raStr, decStr string
		lat, lon      float64
		dateStr       string
		minAlt        float64
		moonDist      float64
		asJSON        bool
	)

	c := &cobra.Command{
		Use:   "window",
		Short: "Find tonight's best observing window for a target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ra, err := format.ParseRA(raStr)
			if err != nil {
				return err
			}
			dec, err := format.ParseDec(decStr)
			if err != nil {
				return err
			}

			date := time.Now().UTC()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))
			times := timescale.NewBuilder(eop.NewStore(nil, logger))
			planner := window.NewPlanner(times, twilight.SolarCalculator{})

			opts := window.DefaultOptions()
			opts.MinAltitudeDeg = minAlt
			opts.BaseMinMoonDistanceDeg = moonDist

			result := planner.BestWindow(window.Request{
				Target:       coords.Equatorial{RADeg: ra, DecDeg: dec},
				LatitudeDeg:  lat,
				LongitudeDeg: lon,
				Date:         date,
				Options:      opts,
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			out := cmd.OutOrStdout()
			if !result.HasWindow {
				fmt.Fprintf(out, "no window: %s\n", result.Reason)
				return nil
			}
			fmt.Fprintf(out, "window: %s .. %s (%.0f min)\n",
				result.Start.Format(time.RFC3339),
				result.End.Format(time.RFC3339),
				result.DurationMinutes,
			)
			fmt.Fprintf(out, "moon: %d%% illuminated (%s), min separation %.1f°\n",
				result.Diagnostics.MoonIlluminationPercent,
				result.Diagnostics.MoonPhaseName,
				result.Diagnostics.MinMoonDistanceDeg,
			)
			return nil
		},
	}

	c.Flags().StringVar(&raStr, "ra", "", "target right ascension (degrees or HMS)")
	c.Flags().StringVar(&decStr, "dec", "", "target declination (degrees or DMS)")
	c.Flags().Float64Var(&lat, "lat", 0, "observer latitude, degrees north")
	c.Flags().Float64Var(&lon, "lon", 0, "observer longitude, degrees east")
	c.Flags().StringVar(&dateStr, "date", "", "night to plan, YYYY-MM-DD (default today)")
	c.Flags().Float64Var(&minAlt, "min-alt", 30, "minimum target altitude, degrees")
	c.Flags().Float64Var(&moonDist, "moon-dist", 30, "base minimum moon separation, degrees")
	c.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	_ = c.MarkFlagRequired("ra")
	_ = c.MarkFlagRequired("dec")
	_ = c.MarkFlagRequired("lat")
	_ = c.MarkFlagRequired("lon")

	return c
}
