// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package config loads, validates, and persists the astroscope TOML
// configuration (~/.astroscope/config.toml), including ASTROSCOPE_*
// environment overrides, dot-notation get/set for the config command, a
// process-wide singleton, and a hot-reload file watcher.
package config
