// Package logger provides the filtered slog logger used across veil.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds all settings for the logger.
type Config struct {
	// LogLevel is the minimum level to log ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// LogFilePath is the output log file. Empty or "-" means stderr.
	LogFilePath string `toml:"log_file"`

	// EnabledTags only logs messages with these tags (if non-empty).
	EnabledTags []string `toml:"enabled_tags"`
	// DisabledTags drops messages with these tags. Overrides EnabledTags.
	DisabledTags []string `toml:"disabled_tags"`

	// EnabledPackages only logs messages from these packages (directory name, e.g. "hiding").
	EnabledPackages []string `toml:"enabled_packages"`
	// DisabledPackages drops messages from these packages. Overrides EnabledPackages.
	DisabledPackages []string `toml:"disabled_packages"`

	// EnabledFiles only logs messages from these file base names (e.g. "manager.go").
	EnabledFiles []string `toml:"enabled_files"`
	// DisabledFiles drops messages from these files. Overrides EnabledFiles.
	DisabledFiles []string `toml:"disabled_files"`

	level               slog.Leveler
	enabledTagsSet      map[string]struct{}
	disabledTagsSet     map[string]struct{}
	enabledPackagesSet  map[string]struct{}
	disabledPackagesSet map[string]struct{}
	enabledFilesSet     map[string]struct{}
	disabledFilesSet    map[string]struct{}
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		LogLevel:    "info",
		LogFilePath: "",
	}
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// process converts the string settings into lookup sets.
func (c *Config) process() {
	level, ok := ParseLevel(c.LogLevel)
	if !ok && debugFilter {
		fmt.Fprintf(os.Stderr, "[CONFIG PROCESS] Unknown log level %q, using info\n", c.LogLevel)
	}
	c.level = level

	c.enabledTagsSet = sliceToSet(c.EnabledTags)
	c.disabledTagsSet = sliceToSet(c.DisabledTags)
	c.enabledPackagesSet = sliceToSet(c.EnabledPackages)
	c.disabledPackagesSet = sliceToSet(c.DisabledPackages)
	c.enabledFilesSet = sliceToSet(c.EnabledFiles)
	c.disabledFilesSet = sliceToSet(c.DisabledFiles)

	if debugFilter {
		fmt.Fprintf(os.Stderr, "[CONFIG PROCESS] packages enabled=%v disabled=%v\n", c.enabledPackagesSet, c.disabledPackagesSet)
	}
}

// sliceToSet lower-cases the items. An empty input yields a nil map.
func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
