// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleneforge/astroscope/internal/model"
)

func TestParseDefaultsToTUI(t *testing.T) {
	args := Parse(nil)
	assert.Equal(t, CmdTUI, args.Command)
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"ask", []string{"ask", "dark", "matter"}, CmdAsk},
		{"analyze alias", []string{"analyze", "quasars"}, CmdAsk},
		{"repl", []string{"repl"}, CmdRepl},
		{"chat alias", []string{"chat"}, CmdRepl},
		{"health", []string{"health"}, CmdHealth},
		{"config", []string{"config", "show"}, CmdConfig},
		{"library", []string{"library", "list"}, CmdLibrary},
		{"history", []string{"history"}, CmdHistory},
		{"version", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.argv).Command)
		})
	}
}

func TestParseAskJoinsTopic(t *testing.T) {
	args := Parse([]string{"ask", "dark", "matter", "halos"})
	assert.Equal(t, "dark matter halos", args.Topic)
}

func TestParseAskFlags(t *testing.T) {
	args := Parse([]string{"ask", "exoplanets", "--papers", "5", "--json", "-q"})
	assert.Equal(t, "exoplanets", args.Topic)
	assert.Equal(t, 5, args.Papers)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
}

func TestParseBareTopicFallsBackToAsk(t *testing.T) {
	args := Parse([]string{"gamma", "ray", "bursts"})
	assert.Equal(t, CmdAsk, args.Command)
	assert.Equal(t, "gamma ray bursts", args.Topic)
}

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"show", "--limit", "50", "--since=2026-01-01", "--json", "--confirm=false"})

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("limit"))
	assert.Equal(t, 50, p.FlagIntOrDefault("limit", 0))
	assert.Equal(t, "2026-01-01", p.Flag("since"))
	assert.True(t, p.BoolFlag("json"))
	assert.False(t, p.BoolFlag("confirm"))
	assert.True(t, p.HasFlag("confirm"))
	assert.False(t, p.HasFlag("missing"))
}

func TestArgParserPositionals(t *testing.T) {
	p := NewArgParser([]string{"search", "dark", "matter"})

	assert.Equal(t, 3, p.PositionalCount())
	assert.Equal(t, "dark", p.Positional(1))
	assert.Equal(t, []string{"dark", "matter"}, p.PositionalFrom(1))
	assert.Empty(t, p.Positional(9))
}

func TestArgParserIntDefaultOnGarbage(t *testing.T) {
	p := NewArgParser([]string{"--limit", "many"})
	assert.Equal(t, 20, p.FlagIntOrDefault("limit", 20))
}

func TestTurnsToMarkdown(t *testing.T) {
	turns := []*model.Turn{
		model.NewBotTurn(model.TextFragment("An overview.")),
		model.NewBotTurn(model.ListFragment([]model.ListItem{
			{Lines: []model.Fragment{
				model.LinkFragment("Paper One", "https://example.org/1"),
				model.TextFragment("A, B"),
			}},
		})),
	}

	md := turnsToMarkdown(turns)
	require.Contains(t, md, "An overview.")
	assert.Contains(t, md, "1. [Paper One](https://example.org/1)")
	assert.Contains(t, md, "   A, B")
}
