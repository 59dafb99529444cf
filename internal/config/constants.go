package config

import "time"

// Base application details
const AppName = "veil"
const ThemesDirName = "themes"
const DefaultThemeFileName = "theme.toml"   // Active theme file
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "veil.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Hiding refresh after edits
const RefreshDelay = 150 * time.Millisecond

// Coalesces the burst of events a single save produces
const WatchDelay = 100 * time.Millisecond

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const DefaultLineHeight = 1
const SystemClipboard = true
const WatchFile = true

const DefaultTheme = "veil dark"

const DefaultStrategy = "below"
const DefaultHideLine = 20
const DefaultFirstLines = 20
