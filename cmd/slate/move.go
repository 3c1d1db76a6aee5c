package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/gateway"
	"github.com/mtorres/slate/internal/model"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <stage>",
	Short: "Move an item to another pipeline stage",
	Long: `Move sets an item's stage directly. Any stage can be reached from
any other stage.

Example:
  slate move 4f1c2a drafting
  slate move 4f1c2a published`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	id := args[0]
	stage, err := model.ParseStage(args[1])
	if err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
		if err := gw.UpdateStatus(ctx, id, stage); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return fmt.Errorf("no item with id %s", id)
			}
			return fmt.Errorf("move item: %w", err)
		}
		if flagJSON {
			return printJSON(map[string]string{"id": id, "stage": string(stage)})
		}
		fmt.Printf("Moved %s to %s\n", id, stage)
		return nil
	})
}
