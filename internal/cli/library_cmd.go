// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// library_cmd.go - Saved paper library command.
//
// Command: library [list|search|show|delete|clear]
//
// Papers from every successful analysis are saved into a local sqlite
// database so they survive the in-memory conversation.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/library"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// RunLibrary handles the library command and its subcommands.
func RunLibrary(args Args) error {
	cfg := config.Global()
	path, err := cfg.LibraryPath()
	if err != nil {
		return err
	}
	lib, err := library.Open(path)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer lib.Close()

	p := args.Parser
	ctx := context.Background()

	switch p.Subcommand() {
	case "", "list", "ls":
		entries, err := lib.List(ctx, p.FlagIntOrDefault("limit", 50))
		if err != nil {
			return err
		}
		return printEntries(entries, args.JSON)

	case "search":
		term := strings.Join(p.PositionalFrom(1), " ")
		if term == "" {
			return fmt.Errorf("usage: astroscope library search <term>")
		}
		entries, err := lib.Search(ctx, term)
		if err != nil {
			return err
		}
		return printEntries(entries, args.JSON)

	case "show":
		id, err := parseEntryID(p.Positional(1))
		if err != nil {
			return err
		}
		entry, err := lib.Get(ctx, id)
		if err != nil {
			return err
		}
		return printEntry(entry, args.JSON)

	case "delete", "rm":
		id, err := parseEntryID(p.Positional(1))
		if err != nil {
			return err
		}
		if err := lib.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess(fmt.Sprintf("deleted paper %d", id)))
		return nil

	case "clear":
		if !p.BoolFlag("confirm") {
			count, err := lib.Count(ctx)
			if err != nil {
				return err
			}
			return fmt.Errorf("library clear deletes all %d saved papers; re-run with --confirm", count)
		}
		if err := lib.Clear(ctx); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("library cleared"))
		return nil

	default:
		return fmt.Errorf("unknown library subcommand %q (want list, search, show, delete, clear)", p.Subcommand())
	}
}

func parseEntryID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("paper id required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("paper id must be a number, got %q", s)
	}
	return id, nil
}

func printEntries(entries []library.Entry, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No saved papers.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%4d  %-24s %s\n", e.ID, truncateCell(e.Topic, 24), e.Title)
	}
	return nil
}

func printEntry(e *library.Entry, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Title:     %s\n", e.Title)
	fmt.Printf("Topic:     %s\n", e.Topic)
	fmt.Printf("URL:       %s\n", e.URL)
	if e.Authors != "" {
		fmt.Printf("Authors:   %s\n", e.Authors)
	}
	if !e.Published.IsZero() {
		fmt.Printf("Published: %s\n", e.Published.Format("Jan 2, 2006"))
	}
	if e.Summary != "" {
		fmt.Printf("\n%s\n", e.Summary)
	}
	return nil
}

func truncateCell(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
