// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

func newTestRenderer() *Renderer {
	return New(styles.NewTheme("dark"))
}

func TestTurnRendersRoleHeader(t *testing.T) {
	r := newTestRenderer()

	user := r.Turn(model.NewUserTurn("exoplanets"))
	assert.Contains(t, user, "You")
	assert.Contains(t, user, "exoplanets")

	bot := r.Turn(model.NewBotTurn(model.TextFragment("overview")))
	assert.Contains(t, bot, "AstroScope")
	assert.Contains(t, bot, "overview")
}

func TestTurnTimestamps(t *testing.T) {
	r := newTestRenderer()
	turn := model.NewUserTurn("quasars")

	assert.NotContains(t, r.Turn(turn), turn.Timestamp.Format("15:04"))

	r.SetShowTimestamps(true)
	assert.Contains(t, r.Turn(turn), turn.Timestamp.Format("15:04"))
}

func TestFragmentLink(t *testing.T) {
	r := newTestRenderer()
	got := r.Fragment(model.LinkFragment("P1", "http://a"))
	assert.Contains(t, got, "P1")
	assert.Contains(t, got, "(http://a)")

	// Label-only links render without a target.
	got = r.Fragment(model.Fragment{Kind: model.KindLink, Text: "P2"})
	assert.Contains(t, got, "P2")
	assert.NotContains(t, got, "()")
}

func TestFragmentListNumbering(t *testing.T) {
	r := newTestRenderer()
	list := model.ListFragment([]model.ListItem{
		{Lines: []model.Fragment{
			model.LinkFragment("P1", "http://a"),
			model.TextFragment("A, B"),
			model.TextFragment("Published: Jan 1, 2023"),
			model.TextFragment("S1"),
		}},
		{Lines: []model.Fragment{
			model.LinkFragment("P2", "http://b"),
		}},
	})

	got := r.Fragment(list)
	assert.Contains(t, got, "1. ")
	assert.Contains(t, got, "2. ")
	assert.Contains(t, got, "A, B")
	assert.Contains(t, got, "Published: Jan 1, 2023")

	// Continuation lines are indented under their entry.
	lines := strings.Split(got, "\n")
	var indented int
	for _, line := range lines {
		if strings.HasPrefix(line, listIndent) {
			indented++
		}
	}
	assert.GreaterOrEqual(t, indented, 3)
}

func TestConversationJoinsTurns(t *testing.T) {
	r := newTestRenderer()
	conv := model.NewConversation()
	conv.Append(model.NewUserTurn("nebulae"), model.NewBotTurn(model.TextFragment("X")))

	got := r.Conversation(conv)
	first := strings.Index(got, "nebulae")
	second := strings.Index(got, "X")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "turns render in conversation order")
}

func TestSanitizedContentCannotInjectEscapes(t *testing.T) {
	r := newTestRenderer()
	turn := model.NewBotTurn(model.TextFragment("evil\x1b[2J\x1b[1;1Htitle"))
	got := r.Turn(turn)
	assert.NotContains(t, got, "\x1b[2J", "control sequences from content must not survive")
}

func TestSetWidthBounds(t *testing.T) {
	r := newTestRenderer()
	r.SetWidth(0) // ignored
	r.SetWidth(120)
	out := r.Turn(model.NewUserTurn(strings.Repeat("a ", 100)))
	assert.NotEmpty(t, out)
}
