// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package commands provides the slash command system for the chat TUI.
package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is one slash command.
type Command struct {
	// Name is the primary name, e.g. "/help".
	Name string

	// Aliases are alternative names, e.g. "/h".
	Aliases []string

	// Description is shown in /help.
	Description string

	// Usage shows argument syntax, e.g. "/papers <n>".
	Usage string

	// Handler executes the command. It returns a tea.Cmd emitting one of
	// the message types in messages.go; the chat model reacts to those.
	Handler func(args []string) tea.Cmd
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []string
}

// NewRegistry creates a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias, nil when unknown.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Names returns all command names and aliases, sorted, for completion.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.aliases))
	for name := range r.commands {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// HelpText renders the command list for the /help turn.
func (r *Registry) HelpText() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range r.All() {
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		names := usage
		if len(cmd.Aliases) > 0 {
			names += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&sb, "  %-26s %s\n", names, cmd.Description)
	}
	sb.WriteString("\nAnything else is sent to the analysis service as a topic.")
	return sb.String()
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Handler: func(args []string) tea.Cmd {
			help := r.HelpText()
			return func() tea.Msg { return ShowHelpMsg{Text: help} }
		},
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation",
		Handler: func(args []string) tea.Cmd {
			return func() tea.Msg { return ClearConversationMsg{} }
		},
	})

	r.Register(&Command{
		Name:        "/papers",
		Usage:       "/papers [n]",
		Description: "Show or set papers requested per topic",
		Handler: func(args []string) tea.Cmd {
			if len(args) == 0 {
				return func() tea.Msg { return ShowPapersMsg{} }
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return func() tea.Msg {
					return CommandErrorMsg{Err: fmt.Errorf("papers count must be a number, got %q", args[0])}
				}
			}
			return func() tea.Msg { return SetPapersMsg{Count: n} }
		},
	})

	r.Register(&Command{
		Name:        "/save",
		Description: "Save the latest papers to the library",
		Handler: func(args []string) tea.Cmd {
			return func() tea.Msg { return SavePapersMsg{} }
		},
	})

	r.Register(&Command{
		Name:        "/export",
		Usage:       "/export [markdown|json|text]",
		Description: "Export the conversation to a file",
		Handler: func(args []string) tea.Cmd {
			format := ""
			if len(args) > 0 {
				format = args[0]
			}
			return func() tea.Msg { return ExportConversationMsg{Format: format} }
		},
	})

	r.Register(&Command{
		Name:        "/health",
		Description: "Check whether the analysis service is up",
		Handler: func(args []string) tea.Cmd {
			return func() tea.Msg { return CheckHealthMsg{} }
		},
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit astroscope",
		Handler: func(args []string) tea.Cmd {
			return func() tea.Msg { return QuitMsg{} }
		},
	})
}
