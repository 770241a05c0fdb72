// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTheme(t *testing.T) {
	for _, mode := range []string{"auto", "dark", "light"} {
		theme := NewTheme(mode)
		require.NotNil(t, theme, mode)
		// Styles render without panicking regardless of profile.
		assert.NotEmpty(t, theme.UserLabel.Render("You"))
		assert.NotEmpty(t, theme.BotBubble.Render("body"))
	}
}

func TestStatusIndicatorsPresent(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("up"), "[OK]"))
	assert.True(t, strings.Contains(RenderError("down"), "[X]"))
	assert.True(t, strings.Contains(RenderWarning("slow"), "[!]"))
	assert.True(t, strings.Contains(RenderInfo("note"), "[i]"))
}
