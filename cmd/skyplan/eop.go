package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sky/skyplan/internal/config"
	"github.com/sky/skyplan/internal/eop"
)

func eopCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "eop",
		Short: "Inspect and refresh Earth-orientation data",
	}
	c.AddCommand(eopRefreshCmd(), eopShowCmd())
	return c
}

func eopRefreshCmd() *cobra.Command {
	var configPath string
	var urls []string

	c := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the latest EOP dataset and persist it to the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cache := openCache(cfg, logger)
			if cache != nil {
				defer cache.Close()
			}
			if len(urls) == 0 {
				urls = cfg.EOP.SourceURLs
			}

			store := eop.NewStore(cache, logger)
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			if err := store.Refresh(ctx, urls); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.Snapshot(time.Now()))
		},
	}
	c.Flags().StringVar(&configPath, "config", "skyplan.yaml", "path to the YAML config file")
	c.Flags().StringSliceVar(&urls, "url", nil, "EOP source URL (repeatable, overrides config)")
	return c
}

func eopShowCmd() *cobra.Command {
	var configPath string
	var dateStr string

	c := &cobra.Command{
		Use:   "show",
		Short: "Show the EOP snapshot the planner would use for a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cache := openCache(cfg, logger)
			if cache != nil {
				defer cache.Close()
			}

			date := time.Now().UTC()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return err
				}
			}

			store := eop.NewStore(cache, logger)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.Snapshot(date))
		},
	}
	c.Flags().StringVar(&configPath, "config", "skyplan.yaml", "path to the YAML config file")
	c.Flags().StringVar(&dateStr, "date", "", "date of interest, YYYY-MM-DD (default today)")
	return c
}
