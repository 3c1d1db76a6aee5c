package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/gateway"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item from the board",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	id := args[0]

	return withGateway(func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
		if err := gw.DeleteItem(ctx, id); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return fmt.Errorf("no item with id %s", id)
			}
			return fmt.Errorf("delete item: %w", err)
		}
		if flagJSON {
			return printJSON(map[string]string{"deleted": id})
		}
		fmt.Printf("Deleted %s\n", id)
		return nil
	})
}
