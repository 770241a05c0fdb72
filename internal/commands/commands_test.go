// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopicInput(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("  black holes  ")
	assert.False(t, result.IsCommand)
	assert.Equal(t, "black holes", result.RawInput)
}

func TestParseKnownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/papers 5")
	require.True(t, result.IsCommand)
	require.NotNil(t, result.Command)
	assert.Equal(t, "/papers", result.Command.Name)
	assert.Equal(t, []string{"5"}, result.Args)
}

func TestParseAliases(t *testing.T) {
	p := NewParser(NewRegistry())

	for alias, want := range map[string]string{
		"/h":    "/help",
		"/?":    "/help",
		"/c":    "/clear",
		"/q":    "/quit",
		"/exit": "/quit",
	} {
		result := p.Parse(alias)
		require.NotNil(t, result.Command, alias)
		assert.Equal(t, want, result.Command.Name, alias)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/frobnicate")
	assert.True(t, result.IsCommand)
	assert.Nil(t, result.Command)
	assert.Equal(t, "/frobnicate", result.CommandName)
}

func TestParseQuotedArgs(t *testing.T) {
	got := splitCommandLine(`/export "my file.md" json`)
	assert.Equal(t, []string{"/export", "my file.md", "json"}, got)
}

func TestCommandHandlers(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		args []string
		want any
	}{
		{"/clear", nil, ClearConversationMsg{}},
		{"/papers", nil, ShowPapersMsg{}},
		{"/papers", []string{"7"}, SetPapersMsg{Count: 7}},
		{"/save", nil, SavePapersMsg{}},
		{"/export", []string{"json"}, ExportConversationMsg{Format: "json"}},
		{"/export", nil, ExportConversationMsg{}},
		{"/health", nil, CheckHealthMsg{}},
		{"/quit", nil, QuitMsg{}},
	}
	for _, tt := range tests {
		cmd := r.Get(tt.name)
		require.NotNil(t, cmd, tt.name)
		msg := cmd.Handler(tt.args)()
		assert.Equal(t, tt.want, msg, "%s %v", tt.name, tt.args)
	}
}

func TestPapersCommandRejectsNonNumeric(t *testing.T) {
	r := NewRegistry()
	msg := r.Get("/papers").Handler([]string{"many"})()
	errMsg, ok := msg.(CommandErrorMsg)
	require.True(t, ok)
	assert.Error(t, errMsg.Err)
}

func TestHelpTextListsAllCommands(t *testing.T) {
	r := NewRegistry()
	help := r.HelpText()
	for _, cmd := range r.All() {
		assert.Contains(t, help, cmd.Name)
	}

	msg := r.Get("/help").Handler(nil)()
	shown, ok := msg.(ShowHelpMsg)
	require.True(t, ok)
	assert.Equal(t, help, shown.Text)
}

func TestNamesSorted(t *testing.T) {
	names := NewRegistry().Names()
	assert.Contains(t, names, "/help")
	assert.Contains(t, names, "/h")
	assert.IsIncreasing(t, names)
}
