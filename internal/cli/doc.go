// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package cli parses command line arguments and implements the non-TUI
// command handlers: ask, repl, health, config, library, and history.
package cli
