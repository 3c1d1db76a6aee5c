package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/gateway"
	"github.com/mtorres/slate/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-stage item counts",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	return withGateway(func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
		snapshot, err := gw.ListItemsForUser(ctx, cfg.User.ID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		if flagJSON {
			out := map[string]int{}
			total := 0
			for _, stage := range model.Stages() {
				out[string(stage)] = len(snapshot[stage])
				total += len(snapshot[stage])
			}
			out["total"] = total
			return printJSON(out)
		}

		total := 0
		for _, stage := range model.Stages() {
			n := len(snapshot[stage])
			total += n
			fmt.Printf("%-12s %4d\n", stage.Label(), n)
		}
		fmt.Printf("%-12s %4d\n", "total", total)
		return nil
	})
}
