package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/exampulse/internal/config"
	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/model"
)

// resolveConfig merges defaults, the config file, EXAMPULSE_* variables and
// explicitly set flags, in increasing priority.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, err
	}

	applyStringConfig(cmd, "refresh", &flagRefresh, fileCfg.Dashboard.RefreshInterval)
	applyStringConfig(cmd, "range", &flagRange, fileCfg.Dashboard.Range)
	applyIntConfig(cmd, "retention", &flagRetention, fileCfg.Dashboard.Retention)
	applyIntConfig(cmd, "recent-limit", &flagRecentLimit, fileCfg.Dashboard.RecentLimit)
	applyStringConfig(cmd, "db", &flagDBPath, fileCfg.Storage.DBPath)

	applyStringConfig(cmd, "refresh", &flagRefresh, durationValue(envCfg.RefreshInterval))
	applyStringConfig(cmd, "range", &flagRange, stringValue(envCfg.Range))
	applyIntConfig(cmd, "retention", &flagRetention, intValue(envCfg.Retention))
	applyStringConfig(cmd, "db", &flagDBPath, stringValue(envCfg.DBPath))

	interval, err := time.ParseDuration(strings.TrimSpace(flagRefresh))
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid refresh interval %q: %w", flagRefresh, err)
	}
	dateRange, err := dashboard.ParseDateRange(flagRange)
	if err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		RefreshInterval: interval,
		Range:           dateRange,
		Retention:       flagRetention,
		RecentLimit:     flagRecentLimit,
		DBPath:          strings.TrimSpace(flagDBPath),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.RefreshInterval < time.Second {
		return fmt.Errorf("--refresh must be at least 1s")
	}
	if cfg.Retention <= 0 {
		return fmt.Errorf("--retention must be > 0")
	}
	if cfg.RecentLimit <= 0 {
		return fmt.Errorf("--recent-limit must be > 0")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func stringValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func intValue(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func durationValue(v time.Duration) *string {
	if v == 0 {
		return nil
	}
	s := v.String()
	return &s
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# exampulse configuration
# Uncomment a value to enable it. EXAMPULSE_* environment variables override
# these values and CLI flags override both.

[dashboard]
# refresh-interval = %q   # How often the dashboard reloads stored data
# range = %q             # Default date range: week, month or all
# retention = %d            # Number of exams kept in history
# recent-limit = %d          # Number of recent exams kept on the dashboard

[storage]
# db-path = %q
`,
		dashboard.DefaultRefreshInterval.String(),
		defaultRange,
		dashboard.DefaultRetention,
		dashboard.DefaultRecentLimit,
		config.DefaultDBPath(),
	)
}
