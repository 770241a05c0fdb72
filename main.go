// astroscope - research topic analysis in your terminal.
//
// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seleneforge/astroscope/internal/cli"
	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/ui/chat"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// Version information (set at build time with -ldflags).
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.Parse(os.Args[1:])

	var err error
	switch args.Command {
	case cli.CmdTUI:
		err = runTUI()
	case cli.CmdAsk:
		err = cli.RunAsk(args)
	case cli.CmdRepl:
		err = cli.RunRepl(args)
	case cli.CmdHealth:
		err = cli.RunHealth(args)
	case cli.CmdConfig:
		err = cli.RunConfig(args)
	case cli.CmdLibrary:
		err = cli.RunLibrary(args)
	case cli.CmdHistory:
		err = cli.RunHistory(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		err = runTUI()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the chat interface.
func runTUI() error {
	cfg := config.Global()
	theme := styles.NewTheme(cfg.UI.Theme)

	rt := cli.BuildRuntime(cfg)
	defer rt.Close()

	m := chat.New(rt.Controller, rt.Client, cfg, theme, Version)
	if rt.Library != nil {
		m = m.WithPaperSaver(rt.Library)
	}
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Reload config edits live; a failed watcher just means no hot reload.
	if path, err := config.ConfigPath(); err == nil {
		if watcher, err := config.NewWatcher(path, func(fresh *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Cfg: fresh})
		}); err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running astroscope: %w", err)
	}
	return nil
}
