// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"

	"github.com/seleneforge/astroscope/internal/ui/components"
)

// chromeHeight is everything on screen that is not the viewport: the header,
// the thinking/status line, the input row, and the status bar.
func (m Model) chromeHeight() int {
	return 5
}

// View renders the whole chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting astroscope..."
	}

	var sb strings.Builder

	sb.WriteString(m.theme.Header.Render(" astroscope "))
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	switch {
	case m.ctrl.Loading():
		sb.WriteString(components.ThinkingLine(m.theme, m.spinner, m.pendingTopic, m.elapsed()))
	case m.statusLine != "":
		sb.WriteString(m.statusLine)
	}
	sb.WriteString("\n")

	sb.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	sb.WriteString("\n")

	sb.WriteString(components.StatusBar(m.theme, m.width, components.StatusInfo{
		Loading:    m.ctrl.Loading(),
		TurnCount:  m.ctrl.Conversation().Len(),
		MaxPapers:  m.ctrl.MaxPapers(),
		Healthy:    m.healthy,
		Autoscroll: m.autoscroll,
	}))

	return sb.String()
}

// viewportContent is the conversation body, or the welcome screen while the
// conversation is empty.
func (m Model) viewportContent() string {
	conv := m.ctrl.Conversation()
	if conv.IsEmpty() {
		return components.Welcome(m.theme, m.viewport.Width, m.version, m.cfg.Server.BaseURL)
	}
	return m.renderer.Conversation(conv)
}
