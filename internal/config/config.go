package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete slate configuration.
type Config struct {
	User    UserConfig    `mapstructure:"user"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// UserConfig identifies whose board this is.
type UserConfig struct {
	// ID scopes every item read and write. All commands operate on this
	// user's board.
	ID string `mapstructure:"id"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "redis"
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file path. Empty means <data dir>/slate.db
	SQLitePath string      `mapstructure:"sqlite_path"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// UIConfig holds board display preferences.
type UIConfig struct {
	// DefaultSort is "due" or "title"
	DefaultSort string `mapstructure:"default_sort"`
}

// MetricsConfig controls the engagement fetcher.
type MetricsConfig struct {
	// TimeoutSeconds bounds a single profile fetch
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RequestsPerMinute is the per-platform rate limit
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	// Endpoints are the platform profiles to poll
	Endpoints []EndpointConfig `mapstructure:"endpoints"`
}

// EndpointConfig names one platform profile to fetch stats for.
type EndpointConfig struct {
	Platform string `mapstructure:"platform"`
	Handle   string `mapstructure:"handle"`
	URL      string `mapstructure:"url"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error"
	Level string `mapstructure:"level"`
	// Dir is where log files are written. Empty means the data dir.
	Dir string `mapstructure:"dir"`
}

// Timeout returns the metrics fetch timeout as a duration.
func (m *MetricsConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		User: UserConfig{
			ID: "default",
		},
		Storage: StorageConfig{
			Backend:    "sqlite",
			SQLitePath: "",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				DB:   0,
			},
		},
		UI: UIConfig{
			DefaultSort: "due",
		},
		Metrics: MetricsConfig{
			TimeoutSeconds:    10,
			RequestsPerMinute: 60,
			Endpoints:         []EndpointConfig{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("user.id", defaults.User.ID)

	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.sqlite_path", defaults.Storage.SQLitePath)
	viper.SetDefault("storage.redis.addr", defaults.Storage.Redis.Addr)
	viper.SetDefault("storage.redis.password", defaults.Storage.Redis.Password)
	viper.SetDefault("storage.redis.db", defaults.Storage.Redis.DB)

	viper.SetDefault("ui.default_sort", defaults.UI.DefaultSort)

	viper.SetDefault("metrics.timeout_seconds", defaults.Metrics.TimeoutSeconds)
	viper.SetDefault("metrics.requests_per_minute", defaults.Metrics.RequestsPerMinute)
	viper.SetDefault("metrics.endpoints", defaults.Metrics.Endpoints)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// DataDir returns the directory where slate keeps its database and logs.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slate"
	}
	return filepath.Join(home, ".slate")
}

// ConfigDir returns the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "slate")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slate"
	}
	return filepath.Join(home, ".config", "slate")
}

// ResolveSQLitePath resolves the database file path, applying the data-dir default.
func (s *StorageConfig) ResolveSQLitePath() string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(DataDir(), "slate.db")
}
