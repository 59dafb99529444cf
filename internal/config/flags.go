// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/veil/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	set *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	TabWidth        *int
	ScrollOff       *int
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	DebugLog        *bool
	SystemClipboard *bool
	Split           *bool
	Watch           *bool
	Strategy        *string
	HideLine        *int
	FirstLines      *int
	DefinitionsOnly *bool
}

// DefineFlags sets up the command-line flags on fs (flag.CommandLine when nil).
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.set = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.TabWidth = fs.Int("tabwidth", 0, "Number of spaces per tab - Overrides config file")              // Use 0 to indicate unset
	f.ScrollOff = fs.Int("scrolloff", -1, "Lines kept visible while scrolling - Overrides config file") // Use -1 to indicate unset
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Yank to the system clipboard")
	f.Split = fs.Bool("split", false, "Open a second view of the file")
	f.Watch = fs.Bool("watch", true, "Reload the file when it changes on disk")
	f.Strategy = fs.String("strategy", "", "Hiding strategy: below, whole, first or definitions")
	f.HideLine = fs.Int("line", 0, "First hidden line for the 'below' strategy")
	f.FirstLines = fs.Int("first", 0, "Number of hidden lines for the 'first' strategy")
	f.DefinitionsOnly = fs.Bool("definitions-only", false, "Show only definitions after hiding")
}

// ParseFlags defines and parses the flags of os.Args.
// It returns the remaining non-flag arguments (e.g., the file path).
func (f *Flags) ParseFlags() []string {
	f.DefineFlags(nil)
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.set == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.set.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // Empty string is valid ("-")
		case "tabwidth":
			if *f.TabWidth > 0 {
				cfg.Viewer.TabWidth = *f.TabWidth
			}
		case "scrolloff":
			if *f.ScrollOff >= 0 {
				cfg.Viewer.ScrollOff = *f.ScrollOff
			}
		case "system-clipboard":
			cfg.Viewer.SystemClipboard = *f.SystemClipboard
		case "split":
			cfg.Viewer.SplitViews = *f.Split
		case "watch":
			cfg.Viewer.WatchFile = *f.Watch
		case "strategy":
			if *f.Strategy != "" {
				cfg.Hiding.Strategy = *f.Strategy
			}
		case "line":
			if *f.HideLine > 0 {
				cfg.Hiding.Line = *f.HideLine
			}
		case "first":
			if *f.FirstLines > 0 {
				cfg.Hiding.FirstLines = *f.FirstLines
			}
		case "definitions-only":
			cfg.Hiding.DefinitionsOnly = *f.DefinitionsOnly
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
}

// splitCommaList splits a comma-separated list, dropping empty items.
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
