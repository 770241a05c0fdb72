// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package chat

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seleneforge/astroscope/internal/controller"
)

// submitInput handles Enter: slash commands dispatch through the registry,
// anything else becomes a topic submission.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	raw := m.input.Value()

	result := m.parser.Parse(raw)
	if result.IsCommand {
		m.input.Reset()
		if result.Command == nil {
			m.appendNotice("Unknown command " + result.CommandName + ". Try /help.")
			return m, nil
		}
		return m, result.Command.Handler(result.Args)
	}

	topic, err := m.ctrl.Begin(raw)
	if err != nil {
		// Blank input is a silent no-op; the draft stays for editing.
		if errors.Is(err, controller.ErrEmptyTopic) || errors.Is(err, controller.ErrBusy) {
			return m, nil
		}
		m.appendNotice(err.Error())
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.pendingTopic = topic
	m.requestStart = time.Now()
	m.autoscroll = true
	m.refreshViewport()

	return m, tea.Batch(m.spinner.Tick, m.analyzeCmd(topic))
}
