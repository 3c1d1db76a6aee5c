package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/filter"
	"github.com/mtorres/slate/internal/gateway"
	"github.com/mtorres/slate/internal/model"
)

var (
	listStage string
	listQuery string
	listSort  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items on the board",
	Long: `List prints the board grouped by stage.

Example:
  slate list
  slate list --stage drafting
  slate list --query "vlog" --sort title`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listStage, "stage", "s", "", "only show one stage")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by title and description")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort order: due or title (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	stages := model.Stages()
	if listStage != "" {
		stage, err := model.ParseStage(listStage)
		if err != nil {
			return err
		}
		stages = []model.Stage{stage}
	}

	return withGateway(func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
		snapshot, err := gw.ListItemsForUser(ctx, cfg.User.ID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		mode := sortModeFromConfig(cfg)
		if listSort == "title" {
			mode = filter.SortTitle
		} else if listSort == "due" {
			mode = filter.SortDueDate
		}
		view := filter.Project(snapshot, listQuery, mode)

		if flagJSON {
			out := map[string][]model.ContentItem{}
			for _, stage := range stages {
				out[string(stage)] = view.Lists[stage]
			}
			return printJSON(out)
		}

		for _, stage := range stages {
			items := view.Lists[stage]
			fmt.Printf("%s (%d)\n", stage.Label(), len(items))
			for _, item := range items {
				due := "-"
				if !item.DueDate.IsZero() {
					due = item.DueDate.Format("2006-01-02")
				}
				fmt.Printf("  %-36s  %-12s  due %-10s  %s\n", item.ID, item.Platform, due, item.Title)
			}
		}
		return nil
	})
}
