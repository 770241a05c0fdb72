// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components the TUI draws with. It detects the
// terminal's color capability and background unless the config forces a
// mode.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Turn rendering
	UserLabel  lipgloss.Style
	BotLabel   lipgloss.Style
	Timestamp  lipgloss.Style
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	ErrorTurn  lipgloss.Style
	Notice     lipgloss.Style
	Link       lipgloss.Style
	URL        lipgloss.Style
	ListIndex  lipgloss.Style
	BodyText   lipgloss.Style
	MetaText   lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Loading
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Welcome screen
	WelcomeBox  lipgloss.Style
	WelcomeLogo lipgloss.Style
	WelcomeInfo lipgloss.Style
}

// NewTheme builds a theme. mode is "auto", "dark", or "light"; auto asks the
// terminal.
func NewTheme(mode string) *Theme {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.BotLabel = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(BotBubbleBorder).
		PaddingLeft(1)

	t.ErrorTurn = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1)

	t.Notice = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Link = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	t.URL = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ListIndex = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.BodyText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.MetaText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)

	t.WelcomeLogo = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)
}
