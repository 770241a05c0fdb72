// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 3, cfg.Analysis.MaxPapers)
	assert.True(t, cfg.Analysis.EmptyPapersNotice)
	assert.Equal(t, "No papers found.", cfg.Analysis.EmptyPapersText)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.UI.Autoscroll)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis.MaxPapers, cfg.Analysis.MaxPapers)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://astro.example.com"
	cfg.Analysis.MaxPapers = 8
	require.NoError(t, cfg.Save(path))

	// Owner-only permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://astro.example.com", loaded.Server.BaseURL)
	assert.Equal(t, 8, loaded.Analysis.MaxPapers)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"http://h:1\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://h:1", cfg.Server.BaseURL)
	assert.Equal(t, 3, cfg.Analysis.MaxPapers)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASTROSCOPE_BASE_URL", "http://env-host:9000")
	t.Setenv("ASTROSCOPE_MAX_PAPERS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:9000", cfg.Server.BaseURL)
	assert.Equal(t, 7, cfg.Analysis.MaxPapers)
}

func TestEnvOverrideInvalidMaxPapersIgnored(t *testing.T) {
	t.Setenv("ASTROSCOPE_MAX_PAPERS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 3, cfg.Analysis.MaxPapers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }, "server.base_url"},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, "server.base_url"},
		{"negative timeout", func(c *Config) { c.Server.TimeoutSeconds = -1 }, "server.timeout_seconds"},
		{"zero max papers", func(c *Config) { c.Analysis.MaxPapers = 0 }, "analysis.max_papers"},
		{"huge max papers", func(c *Config) { c.Analysis.MaxPapers = 100 }, "analysis.max_papers"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("analysis.max_papers", "10"))
	got, err := cfg.Get("analysis.max_papers")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	require.NoError(t, cfg.Set("analysis.empty_papers_notice", "off"))
	assert.False(t, cfg.Analysis.EmptyPapersNotice)

	require.NoError(t, cfg.Set("ui.theme", "dark"))
	assert.Equal(t, "dark", cfg.UI.Theme)

	// Invalid values roll back.
	err = cfg.Set("analysis.max_papers", "0")
	assert.Error(t, err)
	assert.Equal(t, 10, cfg.Analysis.MaxPapers)

	_, err = cfg.Get("no.such.key")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("no.such.key", "x"))
}

func TestKeysAllGettable(t *testing.T) {
	cfg := Default()
	for _, key := range Keys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestGlobalSingleton(t *testing.T) {
	t.Setenv("ASTROSCOPE_HOME", t.TempDir())
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	a := Global()
	b := Global()
	assert.Same(t, a, b)

	replacement := Default()
	replacement.Analysis.MaxPapers = 9
	SetGlobal(replacement)
	assert.Equal(t, 9, Global().Analysis.MaxPapers)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	require.NoError(t, cfg.Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	cfg.Analysis.MaxPapers = 12
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		assert.Equal(t, 12, got.Analysis.MaxPapers)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload config")
	}
}
