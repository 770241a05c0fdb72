// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// ask.go - One-shot analysis command.
//
// Command: ask [topic]
//
// Examples:
//   astroscope ask "gravitational waves"
//   astroscope ask "exoplanets" --papers 5
//   echo "fast radio bursts" | astroscope ask
//   astroscope ask "dark energy" --json > report.json
//
// The report is rendered as markdown on a TTY; piped output stays plain.

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	metaStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan)

	summaryStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for TTY output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback when the renderer cannot initialize.
		markdownRenderer = nil
	}
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// RunAsk handles the ask command: one topic, one request, one report.
func RunAsk(args Args) error {
	cfg := config.Global()

	topic := strings.TrimSpace(args.Topic)
	if topic == "" {
		topic = readTopicFromStdin()
	}
	if topic == "" {
		return errors.New("no topic provided. Usage: astroscope ask \"your topic\"")
	}

	rt := BuildRuntime(cfg)
	defer rt.Close()
	if args.Papers > 0 {
		if err := rt.Controller.SetMaxPapers(args.Papers); err != nil {
			return err
		}
	}

	// JSON mode prints the raw report and skips the turn pipeline.
	if args.JSON {
		rep, err := rt.Client.AnalyzeTopic(context.Background(), topic, rt.Controller.MaxPapers())
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %q (up to %d papers)\n",
			metaStyle.Render("Analyzing:"), topic, rt.Controller.MaxPapers())
	}

	start := time.Now()
	turns, err := rt.Controller.Submit(context.Background(), topic)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// A failed request resolves to the single generic error turn; surface
	// it on stderr and exit nonzero so scripts can tell.
	if failed := len(turns) == 1 && isErrorTurn(turns[0], rt.Controller.ErrorText()); failed {
		fmt.Fprintln(os.Stderr, errStyle.Render(turns[0].PlainText()))
		return errors.New("analysis request failed")
	}

	body := turnsToMarkdown(turns)
	if IsStdoutTTY() && !args.Plain {
		fmt.Print(renderMarkdown(body))
	} else {
		for _, turn := range turns {
			fmt.Println(turn.PlainText())
			fmt.Println()
		}
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, summaryStyle.Render(
			fmt.Sprintf("%d section(s) in %s", len(turns), elapsed.Round(10*time.Millisecond))))
	}
	return nil
}

// readTopicFromStdin reads a piped topic. Returns "" on a terminal stdin.
func readTopicFromStdin() string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func isErrorTurn(turn *model.Turn, errorText string) bool {
	return turn.PlainText() == errorText
}

// turnsToMarkdown flattens bot turns into one markdown document for
// glamour.
func turnsToMarkdown(turns []*model.Turn) string {
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, frag := range turn.Fragments {
			sb.WriteString(fragmentToMarkdown(frag))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func fragmentToMarkdown(frag model.Fragment) string {
	switch frag.Kind {
	case model.KindLink:
		return fmt.Sprintf("[%s](%s)", frag.Text, frag.URL)
	case model.KindList:
		var sb strings.Builder
		for i, item := range frag.Items {
			if i > 0 {
				sb.WriteString("\n")
			}
			for j, line := range item.Lines {
				if j == 0 {
					fmt.Fprintf(&sb, "%d. %s\n", i+1, fragmentToMarkdown(line))
				} else {
					fmt.Fprintf(&sb, "   %s  \n", fragmentToMarkdown(line))
				}
			}
		}
		return sb.String()
	default:
		return frag.Text
	}
}
