// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package commands

// Command handlers emit these messages; the chat model reacts to them.

// ShowHelpMsg displays the command list as a bot turn.
type ShowHelpMsg struct {
	Text string
}

// ClearConversationMsg empties the conversation.
type ClearConversationMsg struct{}

// ShowPapersMsg displays the current papers-per-topic setting.
type ShowPapersMsg struct{}

// SetPapersMsg changes the papers-per-topic setting for this session.
type SetPapersMsg struct {
	Count int
}

// SavePapersMsg persists the latest report's papers to the library.
type SavePapersMsg struct{}

// ExportConversationMsg writes the conversation to a file.
type ExportConversationMsg struct {
	Format string
}

// CheckHealthMsg probes the analysis service.
type CheckHealthMsg struct{}

// QuitMsg exits the program.
type QuitMsg struct{}

// CommandErrorMsg reports a bad invocation (unknown command, bad argument).
type CommandErrorMsg struct {
	Err error
}
