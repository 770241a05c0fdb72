// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// args.go - Flag and positional argument parsing shared by all commands.
//
// Every command parses its arguments through ArgParser so flags behave
// the same everywhere:
//   --flag value    long flag with space-separated value
//   --flag=value    long flag with equals sign
//   --flag          boolean flag
//   -f value        short flag
// Anything without a leading dash is positional; the first positional is
// the subcommand.

package cli

import (
	"strconv"
	"strings"
)

// ArgParser holds the parsed form of a command's raw arguments.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw arguments.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if !strings.HasPrefix(arg, "-") {
			p.positional = append(p.positional, arg)
			i++
			continue
		}

		if name, value, found := strings.Cut(arg, "="); found {
			name = strings.TrimLeft(name, "-")
			// --json=true and --json=false count as boolean flags.
			if value == "true" || value == "false" {
				p.boolFlags[name] = value == "true"
			} else {
				p.flags[name] = value
			}
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i += 2
		} else {
			p.boolFlags[name] = true
			i++
		}
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}
	return p
}

// Subcommand returns the first positional argument, "" when absent.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns a string flag's value, "" when unset.
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// FlagOrDefault returns the flag value or def when unset.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// FlagIntOrDefault returns the flag value as an int, or def when unset or
// unparseable.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	v := p.Flag(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// BoolFlag reports whether a boolean flag is set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}

// HasFlag reports whether a flag appeared in any form.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, asString := p.flags[name]
	_, asBool := p.boolFlags[name]
	return asString || asBool
}

// Positional returns the positional argument at index, "" out of range.
// Index 0 is the subcommand.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns positional arguments starting at index. Useful
// for joining a multi-word topic back together.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return nil
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}
