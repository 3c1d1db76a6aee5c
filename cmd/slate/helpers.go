// Shared helpers for slate CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mtorres/slate/internal/config"
	"github.com/mtorres/slate/internal/gateway"
)

const cliTimeout = 15 * time.Second

// loadConfig reads the viper config and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagUser != "" {
		cfg.User.ID = flagUser
	}
	return cfg, nil
}

// openGateway creates the persistence backend named by the config.
// The caller must Close it.
func openGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return gateway.OpenRedis(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
	default:
		if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return gateway.OpenSQLite(cfg.Storage.ResolveSQLitePath())
	}
}

// withGateway runs fn against an open gateway with a bounded context.
func withGateway(fn func(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gw, err := openGateway(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer gw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()
	return fn(ctx, cfg, gw)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
