// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// repl.go - Interactive prompt without the full TUI.
//
// Command: repl
//
// A readline-style loop for terminals where the alternate-screen TUI is
// unwanted (ssh sessions, screen readers, logs). Each line is a topic;
// slash commands control the session:
//   /help              Show commands
//   /clear             Clear the conversation
//   /papers [n]        Show or set papers per topic
//   /save              Save the latest papers to the library
//   /export [format]   Export the conversation
//   /quit              Exit (also Ctrl+D)

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/export"
	"github.com/seleneforge/astroscope/internal/model"
)

const historyFileName = "repl_history"

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineEditor wraps liner with persistent history and slash command
// completion.
type lineEditor struct {
	line        *liner.State
	historyPath string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	ed := &lineEditor{
		line:        line,
		historyPath: filepath.Join(dir, historyFileName),
	}

	line.SetCompleter(func(prefix string) []string {
		if !strings.HasPrefix(prefix, "/") {
			return nil
		}
		var out []string
		for _, name := range []string{"/help", "/clear", "/papers", "/save", "/export", "/quit"} {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	})

	if f, err := os.Open(ed.historyPath); err == nil {
		ed.line.ReadHistory(f)
		f.Close()
	}
	return ed
}

func (ed *lineEditor) read(prompt string) (string, error) {
	input, err := ed.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		ed.line.AppendHistory(input)
	}
	return input, nil
}

func (ed *lineEditor) close() {
	if dir := filepath.Dir(ed.historyPath); dir != "" {
		os.MkdirAll(dir, 0700)
	}
	if f, err := os.OpenFile(ed.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		ed.line.WriteHistory(f)
		f.Close()
	}
	ed.line.Close()
}

// =============================================================================
// REPL HANDLER
// =============================================================================

// RunRepl runs the line-oriented chat loop.
func RunRepl(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("repl requires an interactive terminal; use ask for piped input")
	}

	cfg := config.Global()
	rt := BuildRuntime(cfg)
	defer rt.Close()
	if args.Papers > 0 {
		if err := rt.Controller.SetMaxPapers(args.Papers); err != nil {
			return err
		}
	}

	ed := newLineEditor()
	defer ed.close()

	if !args.Quiet {
		fmt.Printf("astroscope %s  |  service %s  |  /help for commands, Ctrl+D to exit\n\n",
			Version, cfg.Server.BaseURL)
	}

	for {
		input, err := ed.read("astroscope> ")
		if err != nil {
			// Ctrl+D ends the session; Ctrl+C cancels the current line.
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(input), "/") {
			if done := runReplCommand(rt, input); done {
				break
			}
			continue
		}

		start := time.Now()
		turns, err := rt.Controller.Submit(context.Background(), input)
		if err != nil {
			// Blank input is a silent no-op, matching the TUI.
			continue
		}

		fmt.Println()
		for _, turn := range turns {
			fmt.Println(turn.PlainText())
			fmt.Println()
		}
		if !args.Quiet {
			fmt.Println(summaryStyle.Render(time.Since(start).Round(10 * time.Millisecond).String()))
			fmt.Println()
		}
	}

	return nil
}

// runReplCommand executes a slash command; returns true to exit the loop.
func runReplCommand(rt *Runtime, input string) bool {
	ctrl := rt.Controller
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := fields[0]
	cmdArgs := fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h", "/?":
		fmt.Println("Commands:")
		fmt.Println("  /help              Show this help")
		fmt.Println("  /clear             Clear the conversation")
		fmt.Println("  /papers [n]        Show or set papers per topic")
		fmt.Println("  /save              Save the latest papers to the library")
		fmt.Println("  /export [format]   Export conversation (markdown, json, text)")
		fmt.Println("  /quit              Exit")
		fmt.Println("Anything else is analyzed as a topic.")

	case "/clear", "/c":
		ctrl.Conversation().Clear()
		fmt.Println("Conversation cleared.")

	case "/papers":
		if len(cmdArgs) == 0 {
			fmt.Printf("Requesting up to %d papers per topic.\n", ctrl.MaxPapers())
			break
		}
		n := 0
		if _, err := fmt.Sscanf(cmdArgs[0], "%d", &n); err != nil {
			fmt.Println(errStyle.Render("papers count must be a number"))
			break
		}
		if err := ctrl.SetMaxPapers(n); err != nil {
			fmt.Println(errStyle.Render(err.Error()))
			break
		}
		fmt.Printf("Now requesting up to %d papers per topic.\n", n)

	case "/save":
		if rt.Library == nil {
			fmt.Println("The paper library is disabled. Enable it with: astroscope config set library.enabled true")
			break
		}
		topic, papers := ctrl.LastPapers()
		if len(papers) == 0 {
			fmt.Println("No papers to save yet. Analyze a topic first.")
			break
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rt.Library.SavePapers(ctx, topic, papers); err != nil {
			fmt.Println(errStyle.Render("save failed: " + err.Error()))
		} else {
			fmt.Printf("Saved %d papers to the library.\n", len(papers))
		}
		cancel()

	case "/export":
		format := ""
		if len(cmdArgs) > 0 {
			format = cmdArgs[0]
		}
		if err := exportConversation(ctrl.Conversation(), format); err != nil {
			fmt.Println(errStyle.Render("export failed: " + err.Error()))
		}

	default:
		fmt.Printf("Unknown command %s. Try /help.\n", cmd)
	}
	return false
}

func exportConversation(conv *model.Conversation, format string) error {
	exp, err := export.ForFormat(format, nil)
	if err != nil {
		return err
	}
	path, err := export.ToFile(conv, exp, nil)
	if err != nil {
		return err
	}
	fmt.Println("Exported to " + path)
	return nil
}
