// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/seleneforge/astroscope/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// configDirName is the per-user directory under $HOME.
	configDirName = ".astroscope"

	// configFileName is the TOML file inside the config directory.
	configFileName = "config.toml"

	// MaxPapersLimit bounds the per-request paper count.
	MaxPapersLimit = 25
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the full astroscope configuration, persisted as TOML at
// ~/.astroscope/config.toml.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Analysis  AnalysisConfig  `toml:"analysis"`
	UI        UIConfig        `toml:"ui"`
	Library   LibraryConfig   `toml:"library"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServerConfig locates the analysis service.
type ServerConfig struct {
	// BaseURL is the service host, e.g. "http://localhost:8000".
	BaseURL string `toml:"base_url"`

	// TimeoutSeconds is the overall per-request timeout. Zero keeps the
	// transport defaults.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RateLimitMS is the minimum spacing between analysis requests in
	// milliseconds. Zero disables client-side spacing.
	RateLimitMS int `toml:"rate_limit_ms"`
}

// AnalysisConfig shapes analysis requests and how reports become turns.
type AnalysisConfig struct {
	// MaxPapers is sent as max_papers on every request.
	MaxPapers int `toml:"max_papers"`

	// EmptyPapersNotice renders a notice turn when the service returns a
	// present-but-empty paper list. Off means the papers turn is skipped
	// entirely.
	EmptyPapersNotice bool `toml:"empty_papers_notice"`

	// EmptyPapersText is the notice body.
	EmptyPapersText string `toml:"empty_papers_text"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	// Theme selects the color scheme: "auto", "dark", or "light".
	Theme string `toml:"theme"`

	// Autoscroll keeps the viewport pinned to the newest turn unless the
	// user scrolls away.
	Autoscroll bool `toml:"autoscroll"`

	// ShowTimestamps prints per-turn timestamps in the chat view.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// LibraryConfig controls the local paper library.
type LibraryConfig struct {
	// Enabled saves papers from successful reports into the library.
	Enabled bool `toml:"enabled"`

	// Path overrides the database location. Empty means
	// ~/.astroscope/library.db.
	Path string `toml:"path"`
}

// TelemetryConfig controls the local session request log.
type TelemetryConfig struct {
	// Enabled records one JSON entry per analysis request.
	Enabled bool `toml:"enabled"`

	// Dir overrides the log location. Empty means ~/.astroscope/sessions.
	Dir string `toml:"dir"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 0,
			RateLimitMS:    0,
		},
		Analysis: AnalysisConfig{
			MaxPapers:         3,
			EmptyPapersNotice: true,
			EmptyPapersText:   "No papers found.",
		},
		UI: UIConfig{
			Theme:          "auto",
			Autoscroll:     true,
			ShowTimestamps: false,
		},
		Library: LibraryConfig{
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// fillDefaults patches zero values left by a partial config file.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Analysis.MaxPapers == 0 {
		c.Analysis.MaxPapers = d.Analysis.MaxPapers
	}
	if c.Analysis.EmptyPapersText == "" {
		c.Analysis.EmptyPapersText = d.Analysis.EmptyPapersText
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the astroscope config directory, honoring the
// ASTROSCOPE_HOME override.
func ConfigDir() (string, error) {
	if dir := os.Getenv("ASTROSCOPE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LibraryPath resolves the paper library database location.
func (c *Config) LibraryPath() (string, error) {
	if c.Library.Path != "" {
		return c.Library.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.db"), nil
}

// TelemetryDir resolves the session log directory.
func (c *Config) TelemetryDir() (string, error) {
	if c.Telemetry.Dir != "" {
		return c.Telemetry.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file at path. A missing file yields defaults, not an
// error; any other failure is returned. Environment overrides are applied
// last so they win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.fillDefaults()
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML with owner-only permissions.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets ASTROSCOPE_* variables override file values.
// Invalid values are ignored rather than failing startup.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ASTROSCOPE_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("ASTROSCOPE_MAX_PAPERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxPapersLimit {
			c.Analysis.MaxPapers = n
		}
	}
	if v := os.Getenv("ASTROSCOPE_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks field ranges. The first problem found is returned.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return &ValidationError{Field: "server.base_url", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return &ValidationError{Field: "server.base_url", Message: "must start with http:// or https://"}
	}
	if c.Server.TimeoutSeconds < 0 {
		return &ValidationError{Field: "server.timeout_seconds", Message: "must not be negative"}
	}
	if c.Server.RateLimitMS < 0 {
		return &ValidationError{Field: "server.rate_limit_ms", Message: "must not be negative"}
	}
	if c.Analysis.MaxPapers < 1 || c.Analysis.MaxPapers > MaxPapersLimit {
		return &ValidationError{
			Field:   "analysis.max_papers",
			Message: fmt.Sprintf("must be between 1 and %d", MaxPapersLimit),
		}
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return &ValidationError{Field: "ui.theme", Message: `must be "auto", "dark", or "light"`}
	}
	return nil
}

// =============================================================================
// DOT-NOTATION ACCESS
// =============================================================================

// Get returns a config value by dot-notation key, e.g. "server.base_url".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "server.base_url":
		return c.Server.BaseURL, nil
	case "server.timeout_seconds":
		return strconv.Itoa(c.Server.TimeoutSeconds), nil
	case "server.rate_limit_ms":
		return strconv.Itoa(c.Server.RateLimitMS), nil
	case "analysis.max_papers":
		return strconv.Itoa(c.Analysis.MaxPapers), nil
	case "analysis.empty_papers_notice":
		return strconv.FormatBool(c.Analysis.EmptyPapersNotice), nil
	case "analysis.empty_papers_text":
		return c.Analysis.EmptyPapersText, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.autoscroll":
		return strconv.FormatBool(c.UI.Autoscroll), nil
	case "ui.show_timestamps":
		return strconv.FormatBool(c.UI.ShowTimestamps), nil
	case "library.enabled":
		return strconv.FormatBool(c.Library.Enabled), nil
	case "library.path":
		return c.Library.Path, nil
	case "telemetry.enabled":
		return strconv.FormatBool(c.Telemetry.Enabled), nil
	case "telemetry.dir":
		return c.Telemetry.Dir, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set assigns a config value by dot-notation key, validating the result.
func (c *Config) Set(key, value string) error {
	prev := *c

	switch key {
	case "server.base_url":
		c.Server.BaseURL = value
	case "server.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value for %s must be an integer: %w", key, err)
		}
		c.Server.TimeoutSeconds = n
	case "server.rate_limit_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value for %s must be an integer: %w", key, err)
		}
		c.Server.RateLimitMS = n
	case "analysis.max_papers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value for %s must be an integer: %w", key, err)
		}
		c.Analysis.MaxPapers = n
	case "analysis.empty_papers_notice":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s: %w", key, err)
		}
		c.Analysis.EmptyPapersNotice = b
	case "analysis.empty_papers_text":
		c.Analysis.EmptyPapersText = value
	case "ui.theme":
		c.UI.Theme = value
	case "ui.autoscroll":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s: %w", key, err)
		}
		c.UI.Autoscroll = b
	case "ui.show_timestamps":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s: %w", key, err)
		}
		c.UI.ShowTimestamps = b
	case "library.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s: %w", key, err)
		}
		c.Library.Enabled = b
	case "library.path":
		c.Library.Path = value
	case "telemetry.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s: %w", key, err)
		}
		c.Telemetry.Enabled = b
	case "telemetry.dir":
		c.Telemetry.Dir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := c.Validate(); err != nil {
		*c = prev
		return err
	}
	return nil
}

// Keys lists all dot-notation keys in display order.
func Keys() []string {
	return []string{
		"server.base_url",
		"server.timeout_seconds",
		"server.rate_limit_ms",
		"analysis.max_papers",
		"analysis.empty_papers_notice",
		"analysis.empty_papers_text",
		"ui.theme",
		"ui.autoscroll",
		"ui.show_timestamps",
		"library.enabled",
		"library.path",
		"telemetry.enabled",
		"telemetry.dir",
	}
}

// parseBool accepts the usual spellings: true/false, yes/no, on/off, 1/0.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "on", "1":
		return true, nil
	case "false", "no", "n", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
	globalOnce   sync.Once
)

// Global returns the process-wide config, loading it from disk on first use.
// Load failures fall back to defaults so the UI always starts.
func Global() *Config {
	globalOnce.Do(func() {
		cfg := Default()
		if path, err := ConfigPath(); err == nil {
			if loaded, err := Load(path); err == nil {
				cfg = loaded
			}
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide config, used by the hot-reload watcher.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the singleton so tests can reload.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	globalOnce = sync.Once{}
}
