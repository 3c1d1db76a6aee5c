package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/gateway"
	"github.com/mtorres/slate/internal/model"
)

var (
	addTitle       string
	addDescription string
	addPlatform    string
	addDue         string
	addTags        []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new content item in the idea stage",
	Long: `Add creates a new content item. New items always start in the idea stage.

Example:
  slate add --title "Morning routine vlog" --platform shortvideo
  slate add --title "Gear teardown" --due 2026-09-15 --tags gear,longform`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "item title (required)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "longer description")
	addCmd.Flags().StringVarP(&addPlatform, "platform", "p", string(model.PlatformOther), "target platform")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
	_ = addCmd.MarkFlagRequired("title")
}

func runAdd(cmd *cobra.Command, args []string) error {
	platform, err := model.ParsePlatform(addPlatform)
	if err != nil {
		return err
	}

	var due time.Time
	if addDue != "" {
		due, err = time.Parse("2006-01-02", addDue)
		if err != nil {
			return fmt.Errorf("due date: %w", err)
		}
	}

	item := model.NewItem(strings.TrimSpace(addTitle), addDescription, platform, due, addTags)
	if err := model.ValidateNew(item); err != nil {
		return err
	}

	return withGateway(func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
		if err := gw.CreateItem(ctx, cfg.User.ID, item); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		if flagJSON {
			return printJSON(item)
		}
		fmt.Printf("Created %s (%s)\n", item.ID, item.Title)
		return nil
	})
}
