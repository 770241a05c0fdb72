// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// SESSION STORAGE
// =============================================================================

// Storage persists sessions as one JSON file each under the sessions
// directory.
type Storage struct {
	dir string
}

// NewStorage creates a session store rooted at dir.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("telemetry directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create telemetry directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes a session to disk, replacing any previous copy.
func (s *Storage) Save(session *Session) error {
	if session == nil {
		return nil
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, session.ID+".json"), data, 0644)
}

// Load reads one session by ID.
func (s *Storage) Load(id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns session IDs whose timestamps fall in [from, to], oldest
// first. A zero bound is open. Session IDs sort chronologically by
// construction.
func (s *Storage) List(from, to time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")

		ts, err := parseSessionTimestamp(id)
		if err != nil {
			continue // Not one of ours.
		}
		if !from.IsZero() && ts.Before(from) {
			continue
		}
		if !to.IsZero() && ts.After(to) {
			continue
		}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

// Delete removes one session file.
func (s *Storage) Delete(id string) error {
	return os.Remove(filepath.Join(s.dir, id+".json"))
}

// DeleteBefore removes all sessions older than the cutoff.
func (s *Storage) DeleteBefore(cutoff time.Time) error {
	ids, err := s.List(time.Time{}, cutoff)
	if err != nil {
		return err
	}
	for _, id := range ids {
		os.Remove(filepath.Join(s.dir, id+".json")) // Best effort.
	}
	return nil
}

// parseSessionTimestamp extracts the date-time part of a session ID
// ("20060102-150405-micros").
func parseSessionTimestamp(id string) (time.Time, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("malformed session id %q", id)
	}
	return time.Parse("20060102-150405", parts[0]+"-"+parts[1])
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary aggregates sessions for the history command.
type Summary struct {
	Sessions      int
	Requests      int
	Succeeded     int
	Failed        int
	TotalPapers   int
	TotalDuration time.Duration
}

// Summarize loads the listed sessions and aggregates their requests.
func (s *Storage) Summarize(ids []string) (Summary, error) {
	var sum Summary
	for _, id := range ids {
		session, err := s.Load(id)
		if err != nil {
			continue // Skip unreadable files.
		}
		sum.Sessions++
		for _, r := range session.Requests {
			sum.Requests++
			sum.TotalPapers += r.PaperCount
			sum.TotalDuration += time.Duration(r.DurationMS) * time.Millisecond
			if r.Outcome == OutcomeOK {
				sum.Succeeded++
			} else {
				sum.Failed++
			}
		}
	}
	return sum, nil
}
