// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/veil/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Viewer ViewerConfig  `toml:"viewer"`
	Hiding HidingConfig  `toml:"hiding"`
}

// ViewerConfig holds settings of the terminal viewer.
type ViewerConfig struct {
	TabWidth        int    `toml:"tab_width"`
	ScrollOff       int    `toml:"scroll_off"`
	SplitViews      bool   `toml:"split_views"` // Start with a second view of the same file
	SystemClipboard bool   `toml:"system_clipboard"`
	LineHeight      int    `toml:"line_height"`
	StatusBarHeight int    `toml:"status_bar_height"`
	Theme           string `toml:"theme"`      // Theme name; built-in or from the themes directory
	WatchFile       bool   `toml:"watch_file"` // Reload the file when it changes on disk
}

// HidingConfig selects the strategy that decides what gets hidden.
type HidingConfig struct {
	Strategy        string `toml:"strategy"`         // below, whole, first or definitions
	Line            int    `toml:"line"`             // First hidden line for "below"
	FirstLines      int    `toml:"first_lines"`      // Hidden line count for "first"
	HideByDefault   bool   `toml:"hide_by_default"`  // Apply the strategy when a file opens
	DefinitionsOnly bool   `toml:"definitions_only"` // Show only definitions after applying
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Viewer: ViewerConfig{
			TabWidth:        DefaultTabWidth,
			ScrollOff:       DefaultScrollOff,
			SystemClipboard: SystemClipboard,
			LineHeight:      DefaultLineHeight,
			StatusBarHeight: StatusBarHeight,
			Theme:           DefaultTheme,
			WatchFile:       WatchFile,
		},
		Hiding: HidingConfig{
			Strategy:      DefaultStrategy,
			Line:          DefaultHideLine,
			FirstLines:    DefaultFirstLines,
			HideByDefault: true,
		},
	}
}

// loadFromFile decodes a TOML file over cfg. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		// Logger isn't up yet during the initial load; keep the note for later.
		loadWarnings = append(loadWarnings, fmt.Sprintf("config file '%s': unrecognized keys: %v", filePath, undecoded))
	}
	return nil
}

// loadWarnings collects problems found before the logger exists.
var loadWarnings []string

// Warnings returns the non-fatal problems found while loading.
func Warnings() []string {
	return loadWarnings
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Viewer.TabWidth <= 0 {
		c.Viewer.TabWidth = defaults.Viewer.TabWidth
	}
	if c.Viewer.ScrollOff < 0 { // Allow 0
		c.Viewer.ScrollOff = defaults.Viewer.ScrollOff
	}
	if c.Viewer.LineHeight <= 0 {
		c.Viewer.LineHeight = defaults.Viewer.LineHeight
	}
	if c.Viewer.StatusBarHeight <= 0 {
		c.Viewer.StatusBarHeight = defaults.Viewer.StatusBarHeight
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	switch c.Hiding.Strategy {
	case "below", "whole", "first", "definitions":
	default:
		loadWarnings = append(loadWarnings, fmt.Sprintf("unknown hiding strategy %q, using %q", c.Hiding.Strategy, defaults.Hiding.Strategy))
		c.Hiding.Strategy = defaults.Hiding.Strategy
	}
	if c.Hiding.Line < 1 {
		c.Hiding.Line = defaults.Hiding.Line
	}
	if c.Hiding.FirstLines < 1 {
		c.Hiding.FirstLines = defaults.Hiding.FirstLines
	}
}

// DefaultPath returns ~/.config/veil/config.toml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// Load merges defaults, the config file and flag overrides, then validates.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		// Decoding over the defaults keeps every key the file leaves out.
		err = loadFromFile(effectivePath, cfg)
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig runs Load once and stores the result for Get.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
