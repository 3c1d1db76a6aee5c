package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Fetch engagement stats for the configured platforms",
	Long: `Metrics polls each configured platform endpoint and prints follower
and engagement numbers. Endpoints are set in the metrics section of
the config file.`,
	RunE: runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Metrics.Endpoints) == 0 {
		return fmt.Errorf("no metrics endpoints configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	client := metrics.NewClient(cfg.Metrics.Timeout(), cfg.Metrics.RequestsPerMinute)
	stats, errs := client.FetchAll(ctx, metricsEndpoints(cfg))

	if flagJSON {
		out := struct {
			Profiles []metrics.ProfileStats `json:"profiles"`
			Errors   map[string]string      `json:"errors,omitempty"`
		}{Profiles: stats}
		if len(errs) > 0 {
			out.Errors = map[string]string{}
			for platform, err := range errs {
				out.Errors[string(platform)] = err.Error()
			}
		}
		return printJSON(out)
	}

	for _, s := range stats {
		fmt.Printf("%-14s @%-20s %8d followers  %8d likes  %4d recent posts\n",
			s.Platform, s.Handle, s.Followers, s.TotalLikes, len(s.Posts))
	}
	for platform, err := range errs {
		fmt.Printf("%-14s fetch failed: %v\n", platform, err)
	}
	if len(stats) == 0 && len(errs) > 0 {
		return fmt.Errorf("all platform fetches failed")
	}
	return nil
}
