// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult is the outcome of parsing one line of input.
type ParseResult struct {
	// IsCommand is true when the input starts with "/".
	IsCommand bool

	// Command is the matched command, nil when unknown.
	Command *Command

	// CommandName is the raw name typed, e.g. "/help".
	CommandName string

	// Args are the parsed arguments.
	Args []string

	// RawInput is the trimmed original input.
	RawInput string
}

// =============================================================================
// PARSER
// =============================================================================

// Parser resolves input lines against a registry.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse classifies input. Non-command input (no leading "/") is a topic and
// comes back with IsCommand=false.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	result := ParseResult{RawInput: input}

	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return result
	}

	result.CommandName = parts[0]
	result.Args = parts[1:]
	result.Command = p.registry.Get(result.CommandName)
	return result
}

// splitCommandLine splits on whitespace, honoring double-quoted segments so
// arguments can contain spaces.
func splitCommandLine(input string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case unicode.IsSpace(r) && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
