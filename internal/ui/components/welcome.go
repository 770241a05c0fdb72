// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seleneforge/astroscope/internal/ui/styles"
)

const logo = `
  __    ___  ____  ____   __   ___   ___  __  ____  ____
 / _\  / __)(_  _)(  _ \ /  \ / __) / __)/  \(  _ \(  __)
/    \ \__ \  )(   )   /(  O )\__ \( (__(  O )) __/ ) _)
\_/\_/ (___/ (__) (__\_) \__/ (___/ \___)\__/(__)  (____)`

// Welcome renders the empty-conversation greeting.
func Welcome(theme *styles.Theme, width int, version, baseURL string) string {
	var sb strings.Builder
	sb.WriteString(theme.WelcomeLogo.Render(strings.TrimPrefix(logo, "\n")))
	sb.WriteString("\n\n")
	sb.WriteString(theme.WelcomeInfo.Render("Research topic analysis in your terminal  ·  v" + version))
	sb.WriteString("\n")
	sb.WriteString(theme.WelcomeInfo.Render("Service: " + baseURL))
	sb.WriteString("\n\n")
	sb.WriteString(theme.WelcomeInfo.Render("Type a topic and press Enter. Try /help for commands."))

	box := theme.WelcomeBox.Render(sb.String())
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
	}
	return box
}
