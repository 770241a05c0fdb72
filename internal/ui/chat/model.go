// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seleneforge/astroscope/internal/commands"
	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/controller"
	"github.com/seleneforge/astroscope/internal/export"
	"github.com/seleneforge/astroscope/internal/render"
	"github.com/seleneforge/astroscope/internal/report"
	"github.com/seleneforge/astroscope/internal/ui/components"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service is the backend as the chat screen sees it. *report.Client
// satisfies it.
type Service interface {
	AnalyzeTopic(ctx context.Context, topic string, maxPapers int) (*report.Report, error)
	Health(ctx context.Context) (report.HealthStatus, error)
}

// PaperSaver persists papers on demand for /save. *library.Library
// satisfies it; a nil saver means the library is disabled.
type PaperSaver interface {
	SavePapers(ctx context.Context, topic string, papers []report.Paper) error
}

// healthProbeTimeout bounds the startup and /health probes so a dead
// service cannot wedge the event loop's command runner.
const healthProbeTimeout = 5 * time.Second

// saveTimeout bounds /save library writes.
const saveTimeout = 5 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme    *styles.Theme
	renderer *render.Renderer
	ctrl     *controller.Controller
	svc      Service
	registry *commands.Registry
	parser   *commands.Parser
	saver    PaperSaver
	cfg      *config.Config
	keys     keyMap
	version  string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// autoscroll tracks whether the viewport follows new turns. Scrolling
	// away from the bottom releases it; returning to the bottom re-arms it.
	autoscroll bool

	healthy      *bool
	pendingTopic string
	requestStart time.Time
	statusLine   string
}

// New builds the chat screen around an already-wired controller.
func New(ctrl *controller.Controller, svc Service, cfg *config.Config, theme *styles.Theme, version string) Model {
	input := textinput.New()
	input.Placeholder = "Enter a research topic..."
	input.Prompt = theme.InputPrompt.Render("> ")
	input.CharLimit = 512
	input.Focus()

	registry := commands.NewRegistry()
	renderer := render.New(theme)
	renderer.SetShowTimestamps(cfg.UI.ShowTimestamps)

	return Model{
		theme:      theme,
		renderer:   renderer,
		ctrl:       ctrl,
		svc:        svc,
		registry:   registry,
		parser:     commands.NewParser(registry),
		cfg:        cfg,
		keys:       defaultKeyMap(),
		version:    version,
		input:      input,
		spinner:    components.NewSpinner(theme),
		autoscroll: cfg.UI.Autoscroll,
	}
}

// WithPaperSaver enables /save by attaching a paper store.
func (m Model) WithPaperSaver(s PaperSaver) Model {
	m.saver = s
	return m
}

// Init starts the cursor blink and the initial service probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.healthCmd(false))
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// analyzeCmd performs the single analysis request off the event loop.
func (m Model) analyzeCmd(topic string) tea.Cmd {
	svc := m.svc
	maxPapers := m.ctrl.MaxPapers()
	return func() tea.Msg {
		start := time.Now()
		rep, err := svc.AnalyzeTopic(context.Background(), topic, maxPapers)
		return analyzeResultMsg{rep: rep, err: err, elapsed: time.Since(start)}
	}
}

// healthCmd probes the service. explicit marks probes the user asked for.
func (m Model) healthCmd(explicit bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
		defer cancel()
		status, err := svc.Health(ctx)
		return healthResultMsg{healthy: err == nil && status.OK(), explicit: explicit}
	}
}

// saveCmd persists the given papers off the event loop.
func (m Model) saveCmd(topic string, papers []report.Paper) tea.Cmd {
	saver := m.saver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		err := saver.SavePapers(ctx, topic, papers)
		return saveResultMsg{count: len(papers), err: err}
	}
}

// exportCmd writes the conversation snapshot to a file.
func (m Model) exportCmd(format string) tea.Cmd {
	conv := m.ctrl.Conversation().Clone()
	return func() tea.Msg {
		exp, err := export.ForFormat(format, nil)
		if err != nil {
			return exportResultMsg{err: err}
		}
		path, err := export.ToFile(conv, exp, nil)
		return exportResultMsg{path: path, err: err}
	}
}

// clearStatusCmd schedules the transient status line for removal.
func clearStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
