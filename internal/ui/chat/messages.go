// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package chat

import (
	"time"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/report"
)

// ConfigReloadedMsg carries a freshly reloaded config into the running TUI.
// Sent by the config file watcher in main.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// =============================================================================
// ANALYSIS MESSAGES
// =============================================================================

// analyzeResultMsg delivers the outcome of an analysis request back to the
// event loop. Exactly one of rep/err is meaningful.
type analyzeResultMsg struct {
	rep     *report.Report
	err     error
	elapsed time.Duration
}

// =============================================================================
// SERVICE MESSAGES
// =============================================================================

// healthResultMsg delivers a health probe outcome.
type healthResultMsg struct {
	healthy  bool
	explicit bool // true when the user asked via /health
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// saveResultMsg delivers the outcome of /save.
type saveResultMsg struct {
	count int
	err   error
}

// exportResultMsg delivers the outcome of /export.
type exportResultMsg struct {
	path string
	err  error
}

// clearStatusMsg erases the transient status line after a delay.
type clearStatusMsg struct{}
