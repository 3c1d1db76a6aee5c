package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mtorres/slate/internal/model"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string // config field path, e.g. "storage.backend"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidBackends returns the list of supported storage backends.
func ValidBackends() []string {
	return []string{"sqlite", "redis"}
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidSortModes returns the list of valid default sort modes.
func ValidSortModes() []string {
	return []string{"due", "title"}
}

// Validate checks the Config for invalid values and returns all errors found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(c.User.ID) == "" {
		errs = append(errs, ValidationError{
			Field:   "user.id",
			Value:   c.User.ID,
			Message: "must not be empty",
		})
	}

	if !slices.Contains(ValidBackends(), c.Storage.Backend) {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: fmt.Sprintf("must be one of %v", ValidBackends()),
		})
	}

	if c.Storage.Backend == "redis" && c.Storage.Redis.Addr == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.redis.addr",
			Value:   c.Storage.Redis.Addr,
			Message: "must be set when the redis backend is selected",
		})
	}

	if !slices.Contains(ValidSortModes(), c.UI.DefaultSort) {
		errs = append(errs, ValidationError{
			Field:   "ui.default_sort",
			Value:   c.UI.DefaultSort,
			Message: fmt.Sprintf("must be one of %v", ValidSortModes()),
		})
	}

	if c.Metrics.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "metrics.timeout_seconds",
			Value:   c.Metrics.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.Metrics.RequestsPerMinute <= 0 {
		errs = append(errs, ValidationError{
			Field:   "metrics.requests_per_minute",
			Value:   c.Metrics.RequestsPerMinute,
			Message: "must be positive",
		})
	}

	for i, ep := range c.Metrics.Endpoints {
		if _, err := model.ParsePlatform(ep.Platform); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("metrics.endpoints[%d].platform", i),
				Value:   ep.Platform,
				Message: "unknown platform",
			})
		}
		if ep.URL == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("metrics.endpoints[%d].url", i),
				Value:   ep.URL,
				Message: "must not be empty",
			})
		}
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %v", ValidLogLevels()),
		})
	}

	return errs
}
