// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// history_cmd.go - Session history command.
//
// Command: history [show|stats|clear]
//
// Sessions are the JSON request logs the telemetry tracker writes; this
// command reads them back for review and housekeeping.

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/telemetry"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// numPrinter formats counts with grouping, "12,345".
var numPrinter = message.NewPrinter(language.English)

// RunHistory handles the history command and its subcommands.
func RunHistory(args Args) error {
	cfg := config.Global()
	dir, err := cfg.TelemetryDir()
	if err != nil {
		return err
	}
	store, err := telemetry.NewStorage(dir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	p := args.Parser

	switch p.Subcommand() {
	case "", "show", "list":
		return historyShow(store, p.FlagIntOrDefault("limit", 20), args.JSON)
	case "stats":
		return historyStats(store, args.JSON)
	case "clear":
		return historyClear(store, p.BoolFlag("confirm"))
	default:
		return fmt.Errorf("unknown history subcommand %q (want show, stats, clear)", p.Subcommand())
	}
}

func historyShow(store *telemetry.Storage, limit int, asJSON bool) error {
	ids, err := store.List(time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	// Newest last in List order; show the most recent sessions.
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	if len(ids) == 0 {
		fmt.Println("No recorded sessions.")
		return nil
	}

	if asJSON {
		sessions := make([]*telemetry.Session, 0, len(ids))
		for _, id := range ids {
			s, err := store.Load(id)
			if err != nil {
				continue
			}
			sessions = append(sessions, s)
		}
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, id := range ids {
		s, err := store.Load(id)
		if err != nil {
			continue
		}
		ok, failed := 0, 0
		for _, r := range s.Requests {
			if r.Outcome == telemetry.OutcomeOK {
				ok++
			} else {
				failed++
			}
		}
		fmt.Printf("%s  %s  %d request(s), %d ok, %d failed\n",
			s.ID, s.StartedAt.Format("Jan 2 15:04"), len(s.Requests), ok, failed)
	}
	return nil
}

func historyStats(store *telemetry.Storage, asJSON bool) error {
	ids, err := store.List(time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	summary, err := store.Summarize(ids)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	numPrinter.Printf("Sessions:     %d\n", summary.Sessions)
	numPrinter.Printf("Requests:     %d\n", summary.Requests)
	numPrinter.Printf("Succeeded:    %d\n", summary.Succeeded)
	numPrinter.Printf("Failed:       %d\n", summary.Failed)
	numPrinter.Printf("Papers seen:  %d\n", summary.TotalPapers)
	fmt.Printf("Time waiting: %s\n", summary.TotalDuration.Round(time.Millisecond))
	return nil
}

func historyClear(store *telemetry.Storage, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("history clear deletes all session records; re-run with --confirm")
	}
	if err := store.DeleteBefore(time.Now().Add(time.Hour)); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("session history cleared"))
	return nil
}
