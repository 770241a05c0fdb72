// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package components holds the reusable view pieces of the chat TUI.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// analysisSpinner uses ASCII frames so it renders on any terminal.
var analysisSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 8,
}

// NewSpinner builds the loading spinner used while a request is in flight.
func NewSpinner(theme *styles.Theme) spinner.Model {
	sp := spinner.New()
	sp.Spinner = analysisSpinner
	sp.Style = theme.Spinner
	return sp
}

// ThinkingLine renders the loading indicator shown under the conversation.
func ThinkingLine(theme *styles.Theme, sp spinner.Model, topic string, elapsed time.Duration) string {
	text := fmt.Sprintf("Analyzing %q", topic)
	if elapsed >= time.Second {
		text += fmt.Sprintf(" (%ds)", int(elapsed.Seconds()))
	}
	return sp.View() + " " + theme.ThinkingText.Render(text)
}
