// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// cli.go - Command line parsing and the usage text.

package cli

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information, overridable at build time with -ldflags.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the top-level command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdRepl
	CmdHealth
	CmdConfig
	CmdLibrary
	CmdHistory
	CmdVersion
	CmdHelp
)

// Args holds parsed command line arguments.
type Args struct {
	Command Command

	// Topic is the joined positional query for ask.
	Topic string

	// Papers overrides the configured max_papers for this invocation.
	Papers int

	// JSON switches machine-readable output on.
	JSON bool

	// Quiet suppresses informational stderr output.
	Quiet bool

	// Plain disables markdown rendering even on a TTY.
	Plain bool

	// Parser carries subcommands and flags for config/library/history.
	Parser *ArgParser
}

const usageText = `astroscope - research topic analysis in your terminal

Astroscope talks to an analysis service that reads recent papers on a
topic and returns an overview, the papers themselves, supporting
calculations, and suggested next steps.

Usage:
  astroscope                       Start the chat TUI (default)
  astroscope ask "topic"           Analyze one topic and print the report
  astroscope repl                  Interactive prompt without the TUI
  astroscope health                Check the analysis service
  astroscope config [subcommand]   Configuration management
  astroscope library [subcommand]  Saved paper library
  astroscope history [subcommand]  Session history
  astroscope version               Show version
  astroscope help                  Show this help

Ask:
  astroscope ask "dark matter"          Analyze a topic
  astroscope ask "exoplanets" --papers 5
  echo "pulsars" | astroscope ask       Read the topic from stdin
    --papers N      Papers to request (default from config)
    --json          Print the raw report as JSON
    --plain         Skip markdown rendering
    -q, --quiet     Suppress progress output

Config:
  astroscope config show                Print the active configuration
  astroscope config get <key>           Print one value
  astroscope config set <key> <value>   Set and save a value
  astroscope config path                Print the config file location
  astroscope config reset --confirm     Restore defaults

Library:
  astroscope library list [--limit N]   List saved papers, newest first
  astroscope library search <term>      Search titles, authors, summaries
  astroscope library show <id>          Show one saved paper
  astroscope library delete <id>        Delete one saved paper
  astroscope library clear --confirm    Delete all saved papers
    --json          Output as JSON

History:
  astroscope history show               List recorded sessions
  astroscope history stats              Aggregate request statistics
  astroscope history clear --confirm    Delete all session records

Environment:
  ASTROSCOPE_HOME        Override the config directory (~/.astroscope)
  ASTROSCOPE_BASE_URL    Override the service URL
  ASTROSCOPE_MAX_PAPERS  Override papers per request
  ASTROSCOPE_THEME       Override the theme (auto, dark, light)

Version: %s
`

// Parse classifies os.Args[1:] into a command and its arguments.
func Parse(argv []string) Args {
	if len(argv) == 0 {
		return Args{Command: CmdTUI}
	}

	cmd := argv[0]
	rest := argv[1:]
	parser := NewArgParser(rest)

	args := Args{
		Parser: parser,
		JSON:   parser.BoolFlag("json"),
		Quiet:  parser.BoolFlag("quiet") || parser.BoolFlag("q"),
		Plain:  parser.BoolFlag("plain"),
		Papers: parser.FlagIntOrDefault("papers", 0),
	}

	switch cmd {
	case "ask", "analyze":
		args.Command = CmdAsk
		args.Topic = strings.Join(parser.PositionalFrom(0), " ")
	case "repl", "chat":
		args.Command = CmdRepl
	case "health", "ping":
		args.Command = CmdHealth
	case "config":
		args.Command = CmdConfig
	case "library", "lib", "papers":
		args.Command = CmdLibrary
	case "history", "sessions":
		args.Command = CmdHistory
	case "version", "-v", "--version":
		args.Command = CmdVersion
	case "help", "-h", "--help":
		args.Command = CmdHelp
	default:
		// An unrecognized first argument is treated as a topic so that
		// `astroscope dark matter` does the obvious thing.
		args.Command = CmdAsk
		args.Parser = NewArgParser(argv)
		args.Topic = strings.Join(args.Parser.PositionalFrom(0), " ")
		args.JSON = args.Parser.BoolFlag("json")
		args.Quiet = args.Parser.BoolFlag("quiet") || args.Parser.BoolFlag("q")
		args.Plain = args.Parser.BoolFlag("plain")
		args.Papers = args.Parser.FlagIntOrDefault("papers", 0)
	}

	return args
}

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version details.
func PrintVersion() {
	fmt.Printf("astroscope %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
