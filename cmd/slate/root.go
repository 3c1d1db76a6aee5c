package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mtorres/slate/internal/board"
	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/coord"
	"github.com/mtorres/slate/internal/filter"
	"github.com/mtorres/slate/internal/logging"
	"github.com/mtorres/slate/internal/metrics"
	"github.com/mtorres/slate/internal/model"
	"github.com/mtorres/slate/internal/ui"
)

// Global flag values.
var (
	flagConfig string
	flagUser   string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "A pipeline board for content creators",
	Long: `Slate tracks content ideas through a five-stage pipeline:
idea, drafting, filming, scheduled, published.

Run without arguments to open the interactive board. Subcommands
operate on the same store for scripting and quick edits.`,
	RunE: runBoard,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default: ~/.config/slate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "user id (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
}

func initConfig() {
	config.SetDefaults()

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine, defaults apply.
	_ = viper.ReadInConfig()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("slate v0.3.0")
	},
}

// runBoard launches the interactive TUI.
func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = config.DataDir()
	}
	if err := logging.Init(logDir); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	gw, err := openGateway(cfg)
	if err != nil {
		return err
	}
	defer gw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brd := board.New()
	coordinator := coord.New(brd, gw, cfg.User.ID)
	client := metrics.NewClient(cfg.Metrics.Timeout(), cfg.Metrics.RequestsPerMinute)
	endpoints := metricsEndpoints(cfg)

	app := ui.NewApp(ui.Callbacks{
		LoadBoard: func() tea.Msg {
			if err := coordinator.Resync(ctx); err != nil {
				return ui.BoardLoaded{Err: err}
			}
			return ui.BoardLoaded{Snapshot: brd.Snapshot()}
		},
		Snapshot:   brd.Snapshot,
		Advance:    coordinator.AdvanceItem,
		Retreat:    coordinator.RetreatItem,
		Transition: coordinator.RequestTransition,
		Delete:     coordinator.RequestDeletion,
		Create:     coordinator.RequestCreate,
		Edit:       coordinator.RequestEdit,
		FetchMetrics: func() tea.Msg {
			stats, errs := client.FetchAll(ctx, endpoints)
			for platform, err := range errs {
				logging.Warn("metrics fetch failed", "platform", platform, "error", err)
			}
			if len(stats) == 0 && len(errs) > 0 {
				return ui.MetricsLoaded{Err: fmt.Errorf("all %d platform fetches failed", len(errs))}
			}
			return ui.MetricsLoaded{Stats: stats}
		},
	}).WithSortMode(sortModeFromConfig(cfg))

	program := tea.NewProgram(app, tea.WithAltScreen())
	coordinator.Attach(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	// Let in-flight persistence finish before closing the gateway.
	coordinator.Wait()
	return nil
}

func sortModeFromConfig(cfg *config.Config) filter.SortMode {
	if cfg.UI.DefaultSort == "title" {
		return filter.SortTitle
	}
	return filter.SortDueDate
}

func metricsEndpoints(cfg *config.Config) []metrics.Endpoint {
	endpoints := make([]metrics.Endpoint, 0, len(cfg.Metrics.Endpoints))
	for _, ep := range cfg.Metrics.Endpoints {
		platform, err := model.ParsePlatform(ep.Platform)
		if err != nil {
			continue
		}
		endpoints = append(endpoints, metrics.Endpoint{
			Platform: platform,
			Handle:   ep.Handle,
			URL:      ep.URL,
		})
	}
	return endpoints
}
