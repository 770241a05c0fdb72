// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package chat

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seleneforge/astroscope/internal/commands"
	"github.com/seleneforge/astroscope/internal/model"
)

// Update is the chat screen's event loop step.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyzeResultMsg:
		m.ctrl.Resolve(msg.rep, msg.err, msg.elapsed)
		m.pendingTopic = ""
		m.input.Focus()
		m.refreshViewport()
		return m, textinput.Blink

	case healthResultMsg:
		return m.handleHealth(msg)

	case exportResultMsg:
		if msg.err != nil {
			m.statusLine = m.theme.ErrorTurn.Render("export failed: " + msg.err.Error())
		} else {
			m.statusLine = m.theme.Notice.Render("exported to " + msg.path)
		}
		return m, clearStatusCmd()

	case clearStatusMsg:
		m.statusLine = ""
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.renderer.SetShowTimestamps(msg.Cfg.UI.ShowTimestamps)
		_ = m.ctrl.SetMaxPapers(msg.Cfg.Analysis.MaxPapers)
		m.refreshViewport()
		m.statusLine = m.theme.Notice.Render("configuration reloaded")
		return m, clearStatusCmd()

	// Slash command outcomes.
	case commands.ShowHelpMsg:
		m.appendNotice(msg.Text)
		return m, nil

	case commands.ClearConversationMsg:
		m.ctrl.Conversation().Clear()
		m.refreshViewport()
		return m, nil

	case commands.ShowPapersMsg:
		m.appendNotice(fmt.Sprintf("Requesting up to %d papers per topic.", m.ctrl.MaxPapers()))
		return m, nil

	case commands.SetPapersMsg:
		if err := m.ctrl.SetMaxPapers(msg.Count); err != nil {
			m.appendNotice(err.Error())
		} else {
			m.appendNotice(fmt.Sprintf("Now requesting up to %d papers per topic.", msg.Count))
		}
		return m, nil

	case commands.SavePapersMsg:
		if m.saver == nil {
			m.appendNotice("The paper library is disabled. Enable it with: config set library.enabled true")
			return m, nil
		}
		topic, papers := m.ctrl.LastPapers()
		if len(papers) == 0 {
			m.appendNotice("No papers to save yet. Analyze a topic first.")
			return m, nil
		}
		return m, m.saveCmd(topic, papers)

	case saveResultMsg:
		if msg.err != nil {
			m.statusLine = m.theme.ErrorTurn.Render("save failed: " + msg.err.Error())
		} else {
			m.statusLine = m.theme.Notice.Render(fmt.Sprintf("saved %d papers to the library", msg.count))
		}
		return m, clearStatusCmd()

	case commands.ExportConversationMsg:
		return m, m.exportCmd(msg.Format)

	case commands.CheckHealthMsg:
		return m, m.healthCmd(true)

	case commands.QuitMsg:
		return m, tea.Quit

	case commands.CommandErrorMsg:
		m.appendNotice(msg.Err.Error())
		return m, nil
	}

	return m.updateChildren(msg)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - m.chromeHeight()
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}

	m.renderer.SetWidth(msg.Width)
	m.input.Width = msg.Width - 6
	m.refreshViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Conversation().Clear()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		// The submit affordance is disabled while a request is in flight.
		if m.ctrl.Loading() {
			return m, nil
		}
		return m.submitInput()

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.autoscroll = true
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.autoscroll = m.viewport.AtBottom()
		return m, cmd
	}

	// Remaining keys belong to the input so typing never scrolls the
	// conversation.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHealth(msg healthResultMsg) (tea.Model, tea.Cmd) {
	healthy := msg.healthy
	m.healthy = &healthy

	if msg.explicit {
		if healthy {
			m.appendNotice("Analysis service is up.")
		} else {
			m.appendNotice("Analysis service is not responding at " + m.cfg.Server.BaseURL + ".")
		}
	} else if !healthy {
		m.statusLine = m.theme.ErrorTurn.Render("service unreachable at " + m.cfg.Server.BaseURL)
		return m, clearStatusCmd()
	}
	return m, nil
}

// updateChildren forwards unhandled messages to the input and the viewport.
func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		before := m.viewport.YOffset
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		if m.viewport.YOffset != before {
			m.autoscroll = m.viewport.AtBottom()
		}
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// refreshViewport re-renders the conversation. With autoscroll armed the
// view snaps to the newest turn; otherwise the reading position is kept.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.viewportContent())
	if m.autoscroll {
		m.viewport.GotoBottom()
	}
}

// appendNotice adds a local bot turn that never touches the service.
func (m *Model) appendNotice(text string) {
	m.ctrl.Conversation().Append(model.NewBotTurn(model.TextFragment(text)))
	m.refreshViewport()
}

// elapsed reports how long the in-flight request has been running.
func (m Model) elapsed() time.Duration {
	if m.requestStart.IsZero() {
		return 0
	}
	return time.Since(m.requestStart)
}
