// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserTurn(t *testing.T) {
	turn := NewUserTurn("black holes")

	assert.Equal(t, RoleUser, turn.Role)
	assert.True(t, strings.HasPrefix(turn.ID, "turn_"))
	require.Len(t, turn.Fragments, 1)
	assert.Equal(t, KindText, turn.Fragments[0].Kind)
	assert.Equal(t, "black holes", turn.Fragments[0].Text)
	assert.False(t, turn.Timestamp.IsZero())
}

func TestFragmentSanitization(t *testing.T) {
	f := TextFragment("overview\x1b[2J text")
	assert.Equal(t, "overview[2J text", f.Text)

	link := LinkFragment("Title\nwith newline", "http://example.com/\x07paper")
	assert.Equal(t, "Title with newline", link.Text)
	assert.Equal(t, "http://example.com/paper", link.URL)
}

func TestFragmentPlainText(t *testing.T) {
	list := ListFragment([]ListItem{
		{Lines: []Fragment{
			LinkFragment("P1", "http://a"),
			TextFragment("A, B"),
		}},
		{Lines: []Fragment{
			LinkFragment("P2", "http://b"),
		}},
	})

	got := list.PlainText()
	assert.Contains(t, got, "1. P1 (http://a)")
	assert.Contains(t, got, "A, B")
	assert.Contains(t, got, "2. P2 (http://b)")
}

func TestTurnPreview(t *testing.T) {
	turn := NewUserTurn("a very long topic about gravitational wave detection methods")
	preview := turn.Preview(20)
	assert.LessOrEqual(t, len([]rune(preview)), 20)
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestConversationAppend(t *testing.T) {
	conv := NewConversation()
	assert.True(t, conv.IsEmpty())

	user := NewUserTurn("exoplanets")
	bot := NewBotTurn(TextFragment("overview"))
	conv.Append(user, bot)

	assert.Equal(t, 2, conv.Len())
	assert.Same(t, bot, conv.Last())
	assert.Equal(t, "exoplanets", conv.Title)

	// Order is creation order.
	assert.Equal(t, RoleUser, conv.Turns[0].Role)
	assert.Equal(t, RoleBot, conv.Turns[1].Role)
}

func TestConversationAppendNothing(t *testing.T) {
	conv := NewConversation()
	before := conv.UpdatedAt
	conv.Append()
	assert.True(t, conv.IsEmpty())
	assert.Equal(t, before, conv.UpdatedAt)
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserTurn("quasars"))
	conv.Clear()

	assert.True(t, conv.IsEmpty())
	assert.Empty(t, conv.Title)
	assert.Nil(t, conv.Last())
}

func TestConversationPruning(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxTurns+10; i++ {
		conv.Append(NewUserTurn("t"))
	}
	assert.Equal(t, MaxTurns, conv.Len())
}

func TestConversationClone(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserTurn("nebulae"))

	clone := conv.Clone()
	clone.Append(NewBotTurn(TextFragment("x")))

	assert.Equal(t, 1, conv.Len())
	assert.Equal(t, 2, clone.Len())
}
