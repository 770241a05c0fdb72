// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// StatusInfo is what the status bar displays.
type StatusInfo struct {
	Loading    bool
	TurnCount  int
	MaxPapers  int
	Healthy    *bool // nil until the first probe answers
	Autoscroll bool
}

// StatusBar renders the bottom status line.
func StatusBar(theme *styles.Theme, width int, info StatusInfo) string {
	var parts []string

	switch {
	case info.Healthy == nil:
		parts = append(parts, theme.ShortcutDesc.Render("service: ?"))
	case *info.Healthy:
		parts = append(parts, theme.ShortcutKey.Render("service: up"))
	default:
		parts = append(parts, theme.ShortcutDesc.Render("service: down"))
	}

	parts = append(parts, fmt.Sprintf("turns: %d", info.TurnCount))
	parts = append(parts, fmt.Sprintf("papers: %d", info.MaxPapers))

	if info.Loading {
		parts = append(parts, "working")
	}
	if !info.Autoscroll {
		parts = append(parts, "scroll: manual")
	}

	left := strings.Join(parts, "  |  ")
	right := theme.ShortcutKey.Render("/help") + theme.ShortcutDesc.Render(" commands  ") +
		theme.ShortcutKey.Render("ctrl+c") + theme.ShortcutDesc.Render(" quit")

	// lipgloss.Width ignores ANSI styling when measuring.
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
